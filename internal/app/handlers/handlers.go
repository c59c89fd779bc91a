package handlers

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"github.com/vancho-go/dmarcPTR/internal/app/models"
	"log/slog"
	"net/http"
	"time"
)

const dateLayout = "2006-01-02"

type ExportUploader interface {
	UploadExport(context.Context, []models.ExportItem) error
}

type ExportGetter interface {
	GetExport(ctx context.Context, domain string, date time.Time) ([]models.ExportItem, error)
}

type ExportEnricher interface {
	AddReverseDNSInfoToExport(ctx context.Context, export []models.ExportItem, date time.Time) []models.ExportItem
}

func UploadExportList(uploader ExportUploader) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		var export []models.ExportItem

		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&export); err != nil {
			slog.ErrorContext(req.Context(), err.Error())
			http.Error(res, "Invalid request format", http.StatusBadRequest)
			return
		}

		err := uploader.UploadExport(req.Context(), export)
		if err != nil {
			slog.ErrorContext(req.Context(), err.Error())
			http.Error(res, "Error saving export", http.StatusInternalServerError)
			return
		}
		res.WriteHeader(http.StatusOK)
	}
}

func EnrichExport(enricher ExportEnricher) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		var body models.APIEnrichExportRequest

		decoder := json.NewDecoder(req.Body)
		if err := decoder.Decode(&body); err != nil {
			slog.ErrorContext(req.Context(), err.Error())
			http.Error(res, "Invalid request format", http.StatusBadRequest)
			return
		}

		writeExport(res, req, enricher.AddReverseDNSInfoToExport(req.Context(), body.Items, body.Date))
	}
}

func GetEnrichedExport(getter ExportGetter, enricher ExportEnricher) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		domain := chi.URLParam(req, "domain")
		date, err := time.Parse(dateLayout, chi.URLParam(req, "date"))
		if err != nil {
			http.Error(res, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		export, err := getter.GetExport(req.Context(), domain, date)
		if err != nil {
			slog.ErrorContext(req.Context(), err.Error())
			http.Error(res, "Error getting export", http.StatusInternalServerError)
			return
		}

		writeExport(res, req, enricher.AddReverseDNSInfoToExport(req.Context(), export, date))
	}
}

func writeExport(res http.ResponseWriter, req *http.Request, export []models.ExportItem) {
	if export == nil {
		export = []models.ExportItem{}
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(res).Encode(export); err != nil {
		slog.ErrorContext(req.Context(), err.Error())
	}
}

package main

import (
	"github.com/go-chi/chi/v5"
	"github.com/vancho-go/dmarcPTR/internal/app/config"
	"github.com/vancho-go/dmarcPTR/internal/app/handlers"
	"github.com/vancho-go/dmarcPTR/internal/app/reversedns"
	"github.com/vancho-go/dmarcPTR/internal/app/storage"
	"log"
	"log/slog"
	"net/http"
	"os"
)

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		log.Fatalf("error parsing config: %s", err.Error())
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	dbInstance, err := storage.Initialize(cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("error initialising database: %s", err.Error())
	}

	reverseDNSAPI := reversedns.New(&http.Client{Timeout: cfg.ReverseDNSAPITimeout}, cfg.ReverseDNSAPIEndpoint, logger)

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Post("/export/enrich", handlers.EnrichExport(reverseDNSAPI))
			r.Get("/export/{domain}/{date}", handlers.GetEnrichedExport(dbInstance, reverseDNSAPI))
		})
	})

	err = http.ListenAndServe(cfg.ServerAddress, r)
	if err != nil {
		log.Fatalf("error starting server: %s", err.Error())
	}
}

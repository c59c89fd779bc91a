package reversedns

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/vancho-go/dmarcPTR/internal/app/models"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	StatusUnknown  = "Unknown"
	StatusMismatch = "Mismatch"

	matchSeparator = " or "
)

// Logger receives warnings about skipped enrichment. *slog.Logger satisfies it.
type Logger interface {
	Warn(msg string, args ...any)
}

// API is a client of the reverse DNS info service.
type API struct {
	client   *http.Client
	endpoint string
	log      Logger
}

func New(client *http.Client, endpoint string, log Logger) *API {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return &API{client: client, endpoint: endpoint, log: log}
}

// AddReverseDNSInfoToExport sets the PTR status of every export item.
// It never fails: on any problem the export is returned as is.
func (a *API) AddReverseDNSInfoToExport(ctx context.Context, export []models.ExportItem, date time.Time) []models.ExportItem {
	base, err := url.Parse(a.endpoint)
	if err != nil || !base.IsAbs() || base.Host == "" {
		a.log.Warn(fmt.Sprintf("Invalid URI provided for Reverse DNS API, received %s", a.endpoint))
		return export
	}
	target := base.ResolveReference(&url.URL{Path: "info"})

	res, err := a.post(ctx, target.String(), models.ReverseDNSInfoRequest{IPAddresses: sourceIPs(export), Date: date})
	if err != nil {
		a.log.Warn(fmt.Sprintf("Request to %s failed", target), "error", err)
		return export
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		a.log.Warn(fmt.Sprintf("Request to %s failed with status code %d", target, res.StatusCode))
		return export
	}

	infos, err := decodeInfo(res.Body)
	if err != nil {
		a.log.Warn(fmt.Sprintf("Invalid response received from %s", target), "error", err)
		return export
	}

	result := make([]models.ExportItem, 0, len(export))
	for _, item := range export {
		result = append(result, addPTRInfo(infos, item))
	}
	return result
}

func (a *API) post(ctx context.Context, target string, body models.ReverseDNSInfoRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("post: error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("post: error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	res, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return res, nil
}

// decodeInfo expects exactly one JSON array in the body.
func decodeInfo(body io.Reader) ([]models.ReverseDNSInfoResponse, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("decodeInfo: error reading body: %w", err)
	}

	var infos []models.ReverseDNSInfoResponse
	if err := json.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("decodeInfo: error decoding body: %w", err)
	}
	if infos == nil {
		return nil, errors.New("decodeInfo: body is not an array")
	}
	return infos, nil
}

func sourceIPs(export []models.ExportItem) []string {
	ips := make([]string, 0, len(export))
	for _, item := range export {
		ips = append(ips, item.SourceIP)
	}
	return ips
}

func addPTRInfo(infos []models.ReverseDNSInfoResponse, item models.ExportItem) models.ExportItem {
	var info *models.ReverseDNSInfoResponse
	for i := range infos {
		if infos[i].IPAddress == item.SourceIP {
			info = &infos[i]
			break
		}
	}
	item.PTR = PTRStatus(info)
	return item
}

// PTRStatus classifies a lookup result. A nil info means the service had no entry for the IP.
func PTRStatus(info *models.ReverseDNSInfoResponse) string {
	if info == nil || len(info.DNSResponses) == 0 {
		return StatusUnknown
	}
	if len(info.ForwardLookupMatches) == 0 {
		return StatusMismatch
	}
	return strings.Join(info.ForwardLookupMatches, matchSeparator)
}

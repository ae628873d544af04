package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra/geoip"
)

// Extractor is the receipt pipeline as seen by the HTTP layer.
type Extractor interface {
	ExtractRawText(ctx context.Context, docs []domain.Document) (string, error)
	ExtractDetails(ctx context.Context, rawText string) (*domain.DonationDetails, error)
	ExtractDonation(ctx context.Context, docs []domain.Document) (*domain.ExtractionResult, error)
}

// BlobWriter persists uploaded documents for the scan worker.
type BlobWriter interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	Extractor Extractor
	Scans     domain.ScanRepository
	Blobs     BlobWriter
	DB        Pinger
	Geo       geoip.CountryResolver
	Logger    *infra.Logger

	MaxDocuments   int
	RequestTimeout time.Duration
}

func (a *App) log() *infra.Logger {
	return infra.LoggerOrDiscard(a.Logger)
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// extractContext bounds a synchronous extraction by the configured model
// timeout.
func (a *App) extractContext(r *http.Request) (context.Context, context.CancelFunc) {
	if a.RequestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), a.RequestTimeout)
}

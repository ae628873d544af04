package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/infra/geoip"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/middleware"
)

type scanView struct {
	ID            string            `json:"id"`
	Status        domain.ScanStatus `json:"status"`
	Documents     int               `json:"documents"`
	RawText       *string           `json:"rawText,omitempty"`
	Result        json.RawMessage   `json:"result,omitempty"`
	Model         *string           `json:"model,omitempty"`
	Error         *string           `json:"error,omitempty"`
	ClientCountry *string           `json:"clientCountry,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	FinishedAt    *time.Time        `json:"finishedAt,omitempty"`
}

func newScanView(job *domain.ScanJob) scanView {
	return scanView{
		ID:            job.ID,
		Status:        job.Status,
		Documents:     len(job.Documents),
		RawText:       job.RawText,
		Result:        job.Result,
		Model:         job.Model,
		Error:         job.ErrorMessage,
		ClientCountry: job.ClientCountry,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
		FinishedAt:    job.FinishedAt,
	}
}

// CreateScan handles POST /v1/scans: documents are stored and a job is queued
// for the scan worker.
func (a *App) CreateScan(w http.ResponseWriter, r *http.Request) {
	if a.Scans == nil || a.Blobs == nil {
		a.error(w, http.StatusServiceUnavailable, "scans_unavailable", "asynchronous scans are not configured")
		return
	}
	docs, ok := a.documents(w, r)
	if !ok {
		return
	}

	job := &domain.ScanJob{
		ID:            uuid.NewString(),
		Status:        domain.ScanStatusQueued,
		ClientCountry: geoip.Lookup(a.Geo, middleware.ClientIP(r)),
	}
	for i, doc := range docs {
		key := fmt.Sprintf("scans/%s/%02d.%s", job.ID, i+1, doc.Extension())
		stored, err := a.Blobs.Write(r.Context(), key, doc.Data)
		if err != nil {
			a.log().Error().Err(err).Str("scan_id", job.ID).Msg("scans: store document")
			a.discardBlobs(r, job)
			a.error(w, http.StatusInternalServerError, "internal", "failed to store document")
			return
		}
		job.Documents = append(job.Documents, domain.ScanDocument{
			StorageKey: stored,
			MIMEType:   doc.MIMEType,
			Name:       doc.Name,
		})
	}
	if err := a.Scans.Create(r.Context(), job); err != nil {
		a.log().Error().Err(err).Str("scan_id", job.ID).Msg("scans: create job")
		a.discardBlobs(r, job)
		a.error(w, http.StatusInternalServerError, "internal", "failed to queue scan")
		return
	}
	a.log().Info().Str("scan_id", job.ID).Int("documents", len(docs)).Msg("scan queued")
	a.json(w, http.StatusAccepted, map[string]any{"id": job.ID, "status": job.Status})
}

// discardBlobs removes documents already written for a job that was never
// queued.
func (a *App) discardBlobs(r *http.Request, job *domain.ScanJob) {
	ctx := context.WithoutCancel(r.Context())
	for _, doc := range job.Documents {
		if err := a.Blobs.Delete(ctx, doc.StorageKey); err != nil {
			a.log().Warn().Err(err).Str("scan_id", job.ID).Str("key", doc.StorageKey).Msg("scans: discard document")
		}
	}
}

// GetScan handles GET /v1/scans/{id}.
func (a *App) GetScan(w http.ResponseWriter, r *http.Request) {
	if a.Scans == nil {
		a.error(w, http.StatusServiceUnavailable, "scans_unavailable", "asynchronous scans are not configured")
		return
	}
	job, err := a.Scans.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "scan not found")
			return
		}
		a.log().Error().Err(err).Msg("scans: load job")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load scan")
		return
	}
	a.json(w, http.StatusOK, newScanView(job))
}

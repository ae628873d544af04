package handlers

import (
	"fmt"
	"net/http"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/extraction"
)

type documentsRequest struct {
	Documents []string `json:"documents"`
}

type detailsRequest struct {
	Text string `json:"text"`
}

type rawTextResponse struct {
	RawText string `json:"rawText"`
}

// documents validates and decodes the data URIs of a request.
func (a *App) documents(w http.ResponseWriter, r *http.Request) ([]domain.Document, bool) {
	var req documentsRequest
	if !a.decode(w, r, &req) {
		return nil, false
	}
	if a.MaxDocuments > 0 && len(req.Documents) > a.MaxDocuments {
		a.error(w, http.StatusBadRequest, "too_many_documents", fmt.Sprintf("at most %d documents per request", a.MaxDocuments))
		return nil, false
	}
	docs, err := extraction.ParseDataURIs(req.Documents)
	if err != nil {
		a.extractionError(w, r, err)
		return nil, false
	}
	return docs, true
}

// ExtractText handles POST /v1/extract/text.
func (a *App) ExtractText(w http.ResponseWriter, r *http.Request) {
	docs, ok := a.documents(w, r)
	if !ok {
		return
	}
	ctx, cancel := a.extractContext(r)
	defer cancel()
	raw, err := a.Extractor.ExtractRawText(ctx, docs)
	if err != nil {
		a.extractionError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, rawTextResponse{RawText: raw})
}

// ExtractDetails handles POST /v1/extract/details.
func (a *App) ExtractDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if !a.decode(w, r, &req) {
		return
	}
	ctx, cancel := a.extractContext(r)
	defer cancel()
	details, err := a.Extractor.ExtractDetails(ctx, req.Text)
	if err != nil {
		a.extractionError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, details)
}

// ExtractDonation handles POST /v1/extract/donation.
func (a *App) ExtractDonation(w http.ResponseWriter, r *http.Request) {
	docs, ok := a.documents(w, r)
	if !ok {
		return
	}
	ctx, cancel := a.extractContext(r)
	defer cancel()
	result, err := a.Extractor.ExtractDonation(ctx, docs)
	if err != nil {
		a.extractionError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

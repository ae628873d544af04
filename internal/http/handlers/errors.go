package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/middleware"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// decode reads a JSON request body into v, writing the error response itself
// when the body is unusable.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// extractionError maps pipeline failures onto HTTP responses.
func (a *App) extractionError(w http.ResponseWriter, r *http.Request, err error) {
	logger := a.log().With().Str("request_id", middleware.RequestIDFromContext(r.Context())).Logger()
	switch {
	case errors.Is(err, domain.ErrInvalidDocument), errors.Is(err, domain.ErrNoTextExtracted):
		logger.Info().Err(err).Msg("extraction: no text")
		a.error(w, http.StatusUnprocessableEntity, "no_text", err.Error())
	case errors.Is(err, domain.ErrNoStructuredOutput):
		logger.Warn().Err(err).Msg("extraction: no structured output")
		a.error(w, http.StatusBadGateway, "no_structured_output", domain.ErrNoStructuredOutput.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn().Err(err).Msg("extraction: model timeout")
		a.error(w, http.StatusGatewayTimeout, "timeout", "model request timed out")
	case errors.Is(err, context.Canceled):
		logger.Info().Err(err).Msg("extraction: request canceled")
		a.error(w, http.StatusServiceUnavailable, "canceled", "request canceled")
	default:
		logger.Error().Err(err).Msg("extraction: provider failure")
		a.error(w, http.StatusBadGateway, "provider_failure", "model provider request failed")
	}
}

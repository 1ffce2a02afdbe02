package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"labelstartup-backend/internal/domain"
	"labelstartup-backend/internal/logger"
	"labelstartup-backend/internal/service"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", "Corps de requête invalide")
	}
	return nil
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrEvaluationLocked),
		errors.Is(err, domain.ErrEditWindowClosed),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError renders err. Internal errors are logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, status, errorBody{Error: ve.Message, Fields: ve.Fields})
	case status == http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorBody{Error: "Une erreur interne est survenue"})
	case status == http.StatusForbidden:
		writeJSON(w, status, errorBody{Error: err.Error(), Redirect: sessionOf(r).Role.DashboardPath()})
	default:
		writeJSON(w, status, errorBody{Error: err.Error()})
	}
}

package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("access denied for this role")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrConflict          = errors.New("resource already exists")
	ErrEvaluationLocked  = errors.New("evaluation already submitted and can no longer be modified")
	ErrEditWindowClosed  = errors.New("comment can no longer be edited")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotConfigured     = errors.New("backend service is not configured")
)

// ValidationError carries one message per invalid field, keyed by the JSON field name.
type ValidationError struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  map[string]string{field: message},
	}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

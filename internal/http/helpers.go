package http

import (
	"errors"
	"net/http"
	"strings"

	"ledger/internal/core"
	"ledger/internal/log"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// writeServiceError maps a ledger service error to a response. prompt is
// returned when the error is a declined confirmation.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, op, prompt string) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		ValidationFailed(verr.Field, verr.Message).Write(w)
	case errors.Is(err, core.ErrValidation):
		ValidationFailed("", err.Error()).Write(w)
	case errors.Is(err, core.ErrNotFound):
		NotFoundError("record not found").Write(w)
	case errors.Is(err, core.ErrConfirmationDeclined):
		ConfirmationRequired(prompt).Write(w)
	default:
		sl := log.NewStructuredLogger(log.FromContext(r.Context()).WithComponent(log.ComponentHTTP))
		sl.LogError(r.Context(), "Ledger operation failed", err, op,
			log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Referer()))
		InternalServerError("internal error").TriggerErrorNotification("Something went wrong, please try again").Write(w)
	}
}

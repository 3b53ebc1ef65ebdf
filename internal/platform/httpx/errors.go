package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dokon-erp/dokon/internal/shared"
)

// ErrMalformedBody is returned when a request body is not valid JSON.
var ErrMalformedBody = errors.New("malformed request body")

const (
	msgInvalidData     = "The given data was invalid."
	msgUnauthenticated = "Unauthenticated."
	msgServerError     = "Server Error"
)

// Responder maps domain errors onto the error envelope and logs them.
type Responder struct {
	logger  *slog.Logger
	verbose bool
}

// NewResponder builds a Responder. verbose exposes internal error text and
// should be false in production.
func NewResponder(logger *slog.Logger, verbose bool) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{logger: logger, verbose: verbose}
}

// Error writes the taxonomy-appropriate status and message for err.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, message, fields := rs.classify(err)
	attrs := []any{
		slog.Int("status", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("error", err),
	}
	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed", attrs...)
	} else {
		rs.logger.Info("request rejected", attrs...)
	}
	Fail(w, status, message, fields)
}

func (rs *Responder) classify(err error) (int, string, map[string]string) {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, msgInvalidData, verr.Fields
	case errors.Is(err, ErrMalformedBody):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, shared.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error(), nil
	case errors.Is(err, shared.ErrInsufficientStock):
		return http.StatusUnprocessableEntity, err.Error(), nil
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", nil
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthenticated, nil
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden, err.Error(), nil
	default:
		if rs.verbose {
			return http.StatusInternalServerError, err.Error(), nil
		}
		return http.StatusInternalServerError, msgServerError, nil
	}
}

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/talas-app/talas/internal/document"
	"github.com/talas-app/talas/internal/examgen"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/store"
)

// badRequest marks caller mistakes in the request itself.
type badRequest struct{ msg string }

func (e *badRequest) Error() string { return e.msg }

func statusFor(err error) int {
	var (
		br     *badRequest
		cfgErr *examgen.ConfigurationError
		genErr *examgen.GenerationError
	)
	switch {
	case errors.As(err, &br),
		errors.Is(err, document.ErrUnreadable),
		errors.Is(err, examgen.ErrEmptySource),
		errors.Is(err, scoring.ErrNoQuestions):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &cfgErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

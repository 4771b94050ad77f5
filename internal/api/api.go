// Package api exposes exam generation, history and scoring over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/examgen"
	"github.com/talas-app/talas/internal/store"
)

// DefaultMaxUploadBytes bounds multipart uploads.
const DefaultMaxUploadBytes = 32 << 20

// Options tunes the handler.
type Options struct {
	MaxItems       int
	MaxUploadBytes int64

	// AllowedOrigins enables CORS for browser front ends. Empty disables it.
	AllowedOrigins []string
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	exams store.ExamRepo
	gen   examgen.Generator
	opts  Options
}

// New creates a new Handler.
func New(exams store.ExamRepo, gen examgen.Generator, opts Options) *Handler {
	if opts.MaxItems <= 0 {
		opts.MaxItems = exam.DefaultMaxItems
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{exams: exams, gen: gen, opts: opts}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api/exams", func(r chi.Router) {
		r.Post("/generate", h.handleGenerate)
		r.Get("/", h.handleList)
		r.Get("/{examID}", h.handleGet)
		r.Patch("/{examID}", h.handleRename)
		r.Delete("/{examID}", h.handleDelete)
		r.Post("/{examID}/attempts", h.handleAttempt)
		r.Post("/{examID}/report", h.handleReport)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// Router wraps h in the standard middleware stack.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if len(h.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:         300,
		}))
	}
	h.Routes(r)
	return r
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("encode response", "error", err)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "status", status, "error", err)
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

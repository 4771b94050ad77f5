package examgen

import (
	"context"

	"github.com/talas-app/talas/internal/exam"
)

// Generator turns document text into an exam question set.
type Generator interface {
	// Generate returns exactly cfg.TotalItems validated questions whose
	// per-type counts match cfg.Distribution, or an error. cfg is trusted;
	// callers check it with exam.Config.Validate first.
	Generate(ctx context.Context, text string, cfg exam.Config) ([]exam.Question, error)
}

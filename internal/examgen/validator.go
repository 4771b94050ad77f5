package examgen

import (
	"fmt"

	"github.com/talas-app/talas/internal/exam"
)

// Validator checks a generated question set.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in errors and logs,
	// e.g. "structural", "shape".
	Name() string

	// Validate returns nil if the batch passes. It receives the requested
	// configuration so it can compare counts against it.
	Validate(qs []exam.Question, cfg exam.Config) *ValidationError
}

// ValidationError describes why a question set was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure

	// Item is the 1-based position of the offending item, or 0 when the
	// failure concerns the batch as a whole.
	Item int
}

func (e *ValidationError) Error() string {
	if e.Item > 0 {
		return fmt.Sprintf("validator %q: item %d: %s", e.Validator, e.Item, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

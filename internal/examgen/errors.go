package examgen

import (
	"fmt"
	"strings"
)

// ConfigurationError reports a backend credential problem. Trying other
// models would fail the same way, so generation stops at the first one.
type ConfigurationError struct {
	Candidate string
	Err       error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: check the API key configuration: %v", e.Candidate, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// AttemptFailure records why one candidate did not produce a question set.
type AttemptFailure struct {
	Candidate string
	Err       error
}

// GenerationError is returned when every candidate failed. It wraps the
// last failure.
type GenerationError struct {
	Attempts []AttemptFailure
}

func (e *GenerationError) Error() string {
	if len(e.Attempts) == 0 {
		return "exam generation failed: no LLM candidates configured"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Candidate, a.Err)
	}
	return fmt.Sprintf("exam generation failed after %d candidate(s): %s",
		len(e.Attempts), strings.Join(parts, "; "))
}

// Last returns the error of the final attempt, or nil.
func (e *GenerationError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *GenerationError) Unwrap() error { return e.Last() }

package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrAuthentication indicates the credential for a backend is missing,
// malformed or rejected (401/403). It is never worth trying another model
// with the same key.
type ErrAuthentication struct {
	Err error
}

func (e *ErrAuthentication) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *ErrAuthentication) Unwrap() error { return e.Err }

// ErrModelNotFound indicates the configured model does not exist or is not
// available to this account (404).
type ErrModelNotFound struct {
	Model string
	Err   error
}

func (e *ErrModelNotFound) Error() string {
	return fmt.Sprintf("model %q not found: %v", e.Model, e.Err)
}

func (e *ErrModelNotFound) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable or
// did not answer before the candidate deadline.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

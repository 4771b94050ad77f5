package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// TimeoutProvider is a decorator that bounds a single Generate call.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each call gets its own deadline. A
// non-positive timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(callCtx, req)
	if err == nil {
		return resp, nil
	}

	// Our own deadline firing is a slow backend, not a caller cancellation.
	if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return nil, &ErrProviderUnavailable{
			Err: fmt.Errorf("%s: no response within %s: %w", t.inner.ModelID(), t.timeout, context.DeadlineExceeded),
		}
	}
	return nil, err
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

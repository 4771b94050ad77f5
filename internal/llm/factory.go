package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/talas-app/talas/internal/store"
)

// Candidate is one entry of the fallback list, ready to call.
type Candidate struct {
	// Name is the "provider:model" label used in logs and errors.
	Name     string
	Provider Provider
}

// NewCandidates builds the ordered candidate list from configuration. Each
// provider is wrapped as caller → timeout → logging → base, so a timed-out
// call is still recorded. A nil eventRepo skips event logging.
func NewCandidates(ctx context.Context, cfg Config, eventRepo store.EventRepo) ([]Candidate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(cfg.Candidates))
	for _, raw := range cfg.Candidates {
		spec, err := ParseCandidate(raw)
		if err != nil {
			return nil, err
		}

		base, err := NewProvider(ctx, spec, cfg)
		var authErr *ErrAuthentication
		switch {
		case errors.As(err, &authErr):
			// Surfaced when the candidate is reached, like a rejected key.
			base = &unconfiguredProvider{model: spec.Model, err: authErr}
		case err != nil:
			return nil, fmt.Errorf("initializing %s: %w", spec, err)
		}

		p := base
		if eventRepo != nil {
			p = WithLogging(p, spec.Provider, eventRepo)
		}
		p = WithTimeout(p, cfg.Timeout)

		out = append(out, Candidate{Name: spec.String(), Provider: p})
	}
	return out, nil
}

// NewProvider creates the undecorated Provider for one candidate.
func NewProvider(ctx context.Context, spec CandidateSpec, cfg Config) (Provider, error) {
	switch spec.Provider {
	case ProviderGemini:
		gc := cfg.Gemini
		gc.Model = spec.Model
		return NewGeminiProvider(ctx, gc)
	case ProviderOpenAI:
		oc := cfg.OpenAI
		oc.Model = spec.Model
		return NewOpenAIProvider(oc)
	case ProviderAnthropic:
		ac := cfg.Anthropic
		ac.Model = spec.Model
		return NewAnthropicProvider(ac)
	case ProviderOpenRouter:
		rc := cfg.OpenRouter
		rc.Model = spec.Model
		return NewOpenRouterProvider(rc)
	case ProviderMock:
		return NewNamedMockProvider(spec.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", spec.Provider)
	}
}

// unconfiguredProvider stands in for a backend whose credential is missing.
type unconfiguredProvider struct {
	model string
	err   *ErrAuthentication
}

func (u *unconfiguredProvider) Generate(context.Context, Request) (*Response, error) {
	return nil, u.err
}

func (u *unconfiguredProvider) ModelID() string { return u.model }

package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds backend credentials and the ordered candidate list.
type Config struct {
	// Candidates lists "provider:model" entries in priority order. The model
	// part may be omitted to use the provider default.
	Candidates []string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single candidate call. Zero disables it.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// Provider names accepted in candidate specs.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels is used when a candidate names only a provider.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
	ProviderMock:       "mock",
}

// DefaultCandidates is newest model first, falling back to older ones that
// tend to have spare quota.
var DefaultCandidates = []string{
	"gemini:gemini-2.5-flash",
	"gemini:gemini-2.0-flash",
	"gemini:gemini-1.5-flash",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Candidates: append([]string(nil), DefaultCandidates...),
		Timeout:    60 * time.Second,
	}
}

// DiscoverKeys fills empty API keys from the standard vendor environment
// variables (GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY,
// OPENROUTER_API_KEY).
func (c *Config) DiscoverKeys() {
	if c.Gemini.APIKey == "" {
		c.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Anthropic.APIKey == "" {
		c.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if c.OpenRouter.APIKey == "" {
		c.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
}

// CandidateSpec is a parsed "provider:model" entry.
type CandidateSpec struct {
	Provider string
	Model    string
}

func (s CandidateSpec) String() string {
	return s.Provider + ":" + s.Model
}

// ParseCandidate parses "provider:model" or a bare provider name.
func ParseCandidate(raw string) (CandidateSpec, error) {
	raw = strings.TrimSpace(raw)
	provider, model, _ := strings.Cut(raw, ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	model = strings.TrimSpace(model)

	def, ok := defaultModels[provider]
	if !ok {
		return CandidateSpec{}, fmt.Errorf("unknown LLM provider %q in candidate %q", provider, raw)
	}
	if model == "" {
		model = def
	}
	return CandidateSpec{Provider: provider, Model: model}, nil
}

// Validate checks the candidate list is usable. Missing credentials are
// reported when the candidates are built.
func (c Config) Validate() error {
	if len(c.Candidates) == 0 {
		return fmt.Errorf("at least one LLM candidate is required")
	}
	for _, raw := range c.Candidates {
		if _, err := ParseCandidate(raw); err != nil {
			return err
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("candidate timeout must not be negative")
	}
	return nil
}

package examgen

import "log/slog"

// DefaultMaxSourceChars is how much of the document reaches the prompt.
const DefaultMaxSourceChars = 30000

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered chain run on every parsed batch. The first
	// failure rejects the batch for that candidate.
	Validators []Validator

	// MaxSourceChars truncates the document text, counted in characters.
	MaxSourceChars int

	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// Logger receives one record per candidate attempt. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ShapeValidator{},
		},
		MaxSourceChars: DefaultMaxSourceChars,
		MaxTokens:      8192,
		Temperature:    0.4,
	}
}

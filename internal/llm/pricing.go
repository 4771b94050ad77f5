package llm

import "strings"

// ModelCost holds per-million-token pricing for a model, in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter style IDs ("google/gemini-2.0-flash-001") are matched after
// dropping the vendor prefix and a trailing version number.
func LookupCost(modelID string) *ModelCost {
	for _, id := range costKeys(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

func costKeys(modelID string) []string {
	keys := []string{modelID}
	if _, rest, ok := strings.Cut(modelID, "/"); ok {
		keys = append(keys, rest)
		modelID = rest
	}
	if i := strings.LastIndex(modelID, "-"); i > 0 {
		suffix := modelID[i+1:]
		if len(suffix) == 3 && strings.Trim(suffix, "0123456789") == "" {
			keys = append(keys, modelID[:i])
		}
	}
	return keys
}

// modelCosts covers the models talas is configured for out of the box.
// Last updated: 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Google
	"gemini-1.5-flash":      {0.075, 0.3},
	"gemini-1.5-flash-8b":   {0.0375, 0.15},
	"gemini-1.5-pro":        {1.25, 5},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-flash-latest":   {0.3, 2.5},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},

	// Anthropic
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-haiku-4-5":           {1, 5},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-sonnet-4-5":          {3, 15},
	"claude-sonnet-4-5-20250929": {3, 15},
}

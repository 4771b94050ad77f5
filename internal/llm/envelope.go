package llm

import (
	"encoding/json"
	"strings"
)

// envelopeKey is the property that carries an array result for providers
// whose structured output mode requires an object at the root.
const envelopeKey = "items"

// geminiOnlyKeywords are schema keywords that other structured output modes
// reject.
var geminiOnlyKeywords = []string{"propertyOrdering"}

// objectRoot returns a schema definition whose root is an object, with
// Gemini-only keywords removed. Array-root definitions are wrapped under
// envelopeKey.
func objectRoot(def map[string]any) (map[string]any, bool) {
	def = portable(def)
	if t, _ := def["type"].(string); t != "array" {
		return def, false
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			envelopeKey: def,
		},
		"required":             []any{envelopeKey},
		"additionalProperties": false,
	}, true
}

// unwrapEnvelope extracts the array under envelopeKey. Content that is not
// a well-formed envelope is returned untouched so the caller's repair stage
// still sees what the model produced.
func unwrapEnvelope(content string) json.RawMessage {
	var env map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &env); err != nil {
		return json.RawMessage(content)
	}
	if inner, ok := env[envelopeKey]; ok {
		return inner
	}
	return json.RawMessage(content)
}

// portable returns a deep copy of def without geminiOnlyKeywords.
func portable(def map[string]any) map[string]any {
	out := make(map[string]any, len(def))
	for k, v := range def {
		out[k] = portableValue(v)
	}
	for _, k := range geminiOnlyKeywords {
		delete(out, k)
	}
	return out
}

func portableValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return portable(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = portableValue(e)
		}
		return out
	default:
		return v
	}
}

package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func itemSchema() *Schema {
	return &Schema{
		Name:        "test-items",
		Description: "A list of tagged items",
		Definition: map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "integer", "minimum": 1},
					"kind": map[string]any{"type": "string", "enum": []any{"a", "b"}},
					"tags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"id", "kind"},
			},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `[{"id":1,"kind":"a","tags":["x"]}]`, false},
		{"valid without optional", `[{"id":2,"kind":"b"}]`, false},
		{"empty array", `[]`, true},
		{"object root", `{"id":1,"kind":"a"}`, true},
		{"missing required", `[{"id":1}]`, true},
		{"wrong type", `[{"id":"one","kind":"a"}]`, true},
		{"bad enum", `[{"id":1,"kind":"z"}]`, true},
		{"bad nested item", `[{"id":1,"kind":"a","tags":[1]}]`, true},
		{"malformed", `[{not json}]`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(itemSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-haiku-4-5-20251001",
	}
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":   "msg_test",
		"type": "message",
		"role": "assistant",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage": map[string]any{
			"input_tokens":  50,
			"output_tokens": 30,
		},
	}
}

func anthropicErrorHandler(status int, errType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type": "error",
			"error": map[string]any{
				"type":    errType,
				"message": errType,
			},
		})
	}
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`[{"id":1}]`, "end_turn"))
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write exams.",
		Messages:  []Message{{Role: RoleUser, Content: "Generate questions."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 50 {
		t.Fatalf("expected 50 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.TotalTokens != 80 {
		t.Fatalf("expected 80 total tokens, got %d", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
}

func TestAnthropicProvider_ArraySchemaIsEnveloped(t *testing.T) {
	var sent map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"items":["x"]}`, "end_turn"))
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "list"}},
		Schema:   arraySchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `["x"]` {
		t.Fatalf("expected unwrapped array, got %s", resp.Content)
	}
	if sent["max_tokens"] != float64(anthropicDefaultMaxTokens) {
		t.Fatalf("expected default max_tokens, got %v", sent["max_tokens"])
	}
}

func TestAnthropicProvider_NestedObjectsAreStrict(t *testing.T) {
	var sent map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(anthropicMessage(`{"items":[{"id":1}]}`, "end_turn"))
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "list"}},
		Schema: &Schema{
			Name: "records",
			Definition: map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           map[string]any{"id": map[string]any{"type": "integer"}},
					"required":             []any{"id"},
					"additionalProperties": false,
					"propertyOrdering":     []any{"id"},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema := dig(t, sent, "output_config", "format", "schema")
	if schema["additionalProperties"] != false {
		t.Fatalf("envelope not strict: %v", schema["additionalProperties"])
	}
	item := dig(t, schema, "properties", "items", "items")
	if item["additionalProperties"] != false {
		t.Fatalf("item object not strict: %v", item["additionalProperties"])
	}
	if _, ok := item["propertyOrdering"]; ok {
		t.Fatal("propertyOrdering must not be sent to Anthropic")
	}
}

// dig walks nested JSON objects by key.
func dig(t *testing.T, m map[string]any, keys ...string) map[string]any {
	t.Helper()
	for _, k := range keys {
		next, ok := m[k].(map[string]any)
		if !ok {
			t.Fatalf("missing object %q in %v", k, m)
		}
		m = next
	}
	return m
}

func TestAnthropicProvider_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		errType string
		check   func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, "authentication_error", func(err error) bool { var e *ErrAuthentication; return errors.As(err, &e) }},
		{"forbidden", http.StatusForbidden, "permission_error", func(err error) bool { var e *ErrAuthentication; return errors.As(err, &e) }},
		{"not found", http.StatusNotFound, "not_found_error", func(err error) bool { var e *ErrModelNotFound; return errors.As(err, &e) }},
		{"rate limit", http.StatusTooManyRequests, "rate_limit_error", func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server error", http.StatusInternalServerError, "api_error", func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropicProvider(t, anthropicErrorHandler(tt.status, tt.errType))
			_, err := p.Generate(context.Background(), Request{
				Messages:  []Message{{Role: RoleUser, Content: "test"}},
				MaxTokens: 100,
			})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error type: %T (%v)", err, err)
			}
		})
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-5-20250929"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-3-5-haiku-20241022", "claude-3-5-haiku-20241022"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, anthropicModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

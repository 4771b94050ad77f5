package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	client := openai.NewClientWithConfig(config)

	return &OpenAIProvider{
		client: client,
		model:  "gpt-4o-mini",
	}
}

func openAICompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": finish,
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     40,
			"completion_tokens": 25,
			"total_tokens":      65,
		},
	}
}

func openAIErrorHandler(status int, errType, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"type":    errType,
				"message": message,
			},
		})
	}
}

func arraySchema() *Schema {
	return &Schema{
		Name: "test-list",
		Definition: map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	}
}

func TestOpenAIProvider_HappyPath(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion(`[{"id":1}]`, "stop"))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		System:    "You write exams.",
		Messages:  []Message{{Role: RoleUser, Content: "Generate questions."}},
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 40 {
		t.Fatalf("expected 40 input tokens, got %d", resp.Usage.InputTokens)
	}
	if resp.Usage.OutputTokens != 25 {
		t.Fatalf("expected 25 output tokens, got %d", resp.Usage.OutputTokens)
	}
	if resp.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp.StopReason)
	}
	if string(resp.Content) != `[{"id":1}]` {
		t.Fatalf("unexpected content %s", resp.Content)
	}
}

func TestOpenAIProvider_ArraySchemaIsEnveloped(t *testing.T) {
	var sent map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion(`{"items":["a","b"]}`, "stop"))
	}

	p := newTestOpenAIProvider(t, handler)
	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "list"}},
		Schema:   arraySchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `["a","b"]` {
		t.Fatalf("expected unwrapped array, got %s", resp.Content)
	}

	format, _ := sent["response_format"].(map[string]any)
	js, _ := format["json_schema"].(map[string]any)
	schema, _ := js["schema"].(map[string]any)
	if schema["type"] != "object" {
		t.Fatalf("expected object root in request schema, got %v", schema["type"])
	}
}

func TestOpenAIProvider_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, func(err error) bool { var e *ErrAuthentication; return errors.As(err, &e) }},
		{"not found", http.StatusNotFound, func(err error) bool { var e *ErrModelNotFound; return errors.As(err, &e) }},
		{"rate limit", http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{"server error", http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, openAIErrorHandler(tt.status, "error", tt.name))
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

func TestOpenAIProvider_Truncated(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openAICompletion(`[{"id":1`, "length"))
	}

	p := newTestOpenAIProvider(t, handler)
	_, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got: %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ModelID(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini"}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected 'gpt-4o-mini', got %q", p.ModelID())
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  "test-key",
		Model:   "gpt-mini",
		BaseURL: "https://example.test/v1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4.1-mini" {
		t.Fatalf("expected alias to resolve, got %q", p.ModelID())
	}

	_, err = NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"})
	var authErr *ErrAuthentication
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthentication for missing key, got: %T", err)
	}
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/talas-app/talas/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewNamedMockProvider("mock-a", MockResponse{Content: json.RawMessage(`[]`)})

	_, _ = mock.Generate(context.Background(), Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
	if mock.ModelID() != "mock-a" {
		t.Fatalf("expected 'mock-a', got %q", mock.ModelID())
	}
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`[]`), Delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeExamGen)
	if p := PurposeFrom(ctx); p != PurposeExamGen {
		t.Fatalf("expected %q, got %q", PurposeExamGen, p)
	}
}

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		raw     string
		want    CandidateSpec
		wantErr bool
	}{
		{"gemini:gemini-1.5-flash", CandidateSpec{"gemini", "gemini-1.5-flash"}, false},
		{" Gemini : gemini-2.0-flash ", CandidateSpec{"gemini", "gemini-2.0-flash"}, false},
		{"openai", CandidateSpec{"openai", "gpt-4o-mini"}, false},
		{"openrouter:google/gemini-2.0-flash-001", CandidateSpec{"openrouter", "google/gemini-2.0-flash-001"}, false},
		{"llama:7b", CandidateSpec{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCandidate(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCandidate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseCandidate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig(), false},
		{"empty list", Config{}, true},
		{"unknown provider", Config{Candidates: []string{"gemini", "nope:x"}}, true},
		{"negative timeout", Config{Candidates: []string{"mock"}, Timeout: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDiscoverKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg := DefaultConfig()
	cfg.OpenAI.APIKey = "explicit"
	cfg.DiscoverKeys()

	if cfg.Gemini.APIKey != "g-key" {
		t.Fatalf("expected gemini key from env, got %q", cfg.Gemini.APIKey)
	}
	if cfg.OpenAI.APIKey != "explicit" {
		t.Fatalf("explicit key should win, got %q", cfg.OpenAI.APIKey)
	}
}

func TestNewCandidates_OrderAndNames(t *testing.T) {
	cfg := Config{
		Candidates: []string{"mock:first", "mock:second"},
		Timeout:    time.Second,
	}
	cands, err := NewCandidates(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Name != "mock:first" || cands[1].Name != "mock:second" {
		t.Fatalf("unexpected order: %s, %s", cands[0].Name, cands[1].Name)
	}
	if cands[1].Provider.ModelID() != "second" {
		t.Fatalf("expected model 'second', got %q", cands[1].Provider.ModelID())
	}
}

func TestNewCandidates_MissingKey(t *testing.T) {
	cfg := Config{Candidates: []string{"anthropic:claude-haiku"}}
	cands, err := NewCandidates(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("missing key should not fail construction: %v", err)
	}
	if cands[0].Provider.ModelID() != "claude-haiku" {
		t.Errorf("expected model claude-haiku, got %q", cands[0].Provider.ModelID())
	}

	_, err = cands[0].Provider.Generate(context.Background(), Request{})
	var authErr *ErrAuthentication
	if !errors.As(err, &authErr) {
		t.Fatalf("expected ErrAuthentication, got: %T (%v)", err, err)
	}
}

// recordingRepo captures LLM events; other EventRepo methods are unused.
type recordingRepo struct {
	store.EventRepo
	mu     sync.Mutex
	events []store.LLMRequestEventData
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return nil
}

func TestLoggingProvider_RecordsSuccessAndFailure(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewNamedMockProvider("gemini-2.0-flash",
		MockResponse{Content: json.RawMessage(`[]`), Usage: Usage{InputTokens: 3, OutputTokens: 4}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	p := WithLogging(mock, "gemini", repo)
	ctx := WithPurpose(context.Background(), PurposeExamGen)

	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.Provider != "gemini" || ok.Purpose != PurposeExamGen || ok.OutputTokens != 4 {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if ok.RequestBody == "" || ok.ResponseBody != "[]" {
		t.Fatalf("expected request and response bodies, got %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

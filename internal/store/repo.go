package store

import (
	"context"
	"errors"
	"time"

	"github.com/talas-app/talas/internal/exam"
)

// ErrNotFound is returned by Get when no exam has the given id.
var ErrNotFound = errors.New("exam not found")

// ExamRepo persists saved exams and their attempt history.
//
// Implementations must make each call atomic with respect to the others:
// concurrent AppendAttempt calls on one exam never lose an attempt.
type ExamRepo interface {
	// List returns every saved exam, newest first, with attempts in the
	// order they were taken.
	List(ctx context.Context) ([]exam.SavedExam, error)

	// Get returns one exam or ErrNotFound.
	Get(ctx context.Context, id string) (*exam.SavedExam, error)

	// Create saves a generated question set. An empty name defaults to
	// exam.DefaultName(source).
	Create(ctx context.Context, source string, questions []exam.Question, name string) (*exam.SavedExam, error)

	// Rename changes the display name. Unknown ids are ignored.
	Rename(ctx context.Context, id, name string) error

	// AppendAttempt records a completed attempt. Unknown ids are ignored.
	AppendAttempt(ctx context.Context, id string, score, total int) error

	// Delete removes the exam together with its attempts. Unknown ids are
	// ignored.
	Delete(ctx context.Context, id string) error
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// CandidateUsage aggregates the calls made to one provider:model candidate.
type CandidateUsage struct {
	Provider     string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// Label returns the candidate in its configured "provider:model" form.
func (u CandidateUsage) Label() string {
	return u.Provider + ":" + u.Model
}

// EventRepo records and inspects LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// UsageByCandidate returns per-candidate totals, busiest first.
	UsageByCandidate(ctx context.Context) ([]CandidateUsage, error)
}

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/talas-app/talas/internal/exam"
)

// MemoryExamRepo is an ExamRepo held in process memory. Useful for tests
// and for throwaway sessions that should not touch disk.
type MemoryExamRepo struct {
	mu    sync.Mutex
	exams []*exam.SavedExam // newest first
	now   func() time.Time
}

// NewMemoryExamRepo returns an empty in-memory repository.
func NewMemoryExamRepo() *MemoryExamRepo {
	return &MemoryExamRepo{now: time.Now}
}

func (m *MemoryExamRepo) List(_ context.Context) ([]exam.SavedExam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.exams) == 0 {
		return nil, nil
	}
	out := make([]exam.SavedExam, len(m.exams))
	for i, e := range m.exams {
		out[i] = cloneExam(e)
	}
	return out, nil
}

func (m *MemoryExamRepo) Get(_ context.Context, id string) (*exam.SavedExam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(id); e != nil {
		c := cloneExam(e)
		return &c, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryExamRepo) Create(_ context.Context, source string, questions []exam.Question, name string) (*exam.SavedExam, error) {
	saved := newSavedExam(source, questions, name, m.now())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.exams = slices.Insert(m.exams, 0, saved)

	c := cloneExam(saved)
	return &c, nil
}

func (m *MemoryExamRepo) Rename(_ context.Context, id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(id); e != nil {
		e.Name = name
	}
	return nil
}

func (m *MemoryExamRepo) AppendAttempt(_ context.Context, id string, score, total int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.find(id); e != nil {
		e.Attempts = append(e.Attempts, exam.Attempt{
			TakenAt: m.now().UTC(),
			Score:   score,
			Total:   total,
		})
	}
	return nil
}

func (m *MemoryExamRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exams = slices.DeleteFunc(m.exams, func(e *exam.SavedExam) bool { return e.ID == id })
	return nil
}

func (m *MemoryExamRepo) find(id string) *exam.SavedExam {
	for _, e := range m.exams {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// cloneExam copies the slices so callers cannot mutate stored state.
func cloneExam(e *exam.SavedExam) exam.SavedExam {
	c := *e
	c.Questions = make([]exam.Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Options = slices.Clone(q.Options)
		c.Questions[i] = q
	}
	c.Attempts = slices.Clone(e.Attempts)
	return c
}

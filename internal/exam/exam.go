package exam

import (
	"fmt"
	"time"
)

// QuestionType identifies how a question is answered. The string values are
// the wire tags exchanged with the model and persisted in the history store.
type QuestionType string

const (
	TypeMultipleChoice  QuestionType = "multiple-choice"
	TypeIdentification  QuestionType = "identification"
	TypeFillInTheBlanks QuestionType = "fill-in-the-blanks"
)

// Types lists every question type in prompt order.
var Types = []QuestionType{TypeMultipleChoice, TypeIdentification, TypeFillInTheBlanks}

// Valid reports whether t is a known question type.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeIdentification, TypeFillInTheBlanks:
		return true
	}
	return false
}

// Label is the human readable name of the type.
func (t QuestionType) Label() string {
	switch t {
	case TypeMultipleChoice:
		return "Multiple Choice"
	case TypeIdentification:
		return "Identification"
	case TypeFillInTheBlanks:
		return "Fill in the Blanks"
	}
	return string(t)
}

// Question is a single validated exam item.
type Question struct {
	// ID is 1-based and sequential within a question set.
	ID   int          `json:"id"`
	Type QuestionType `json:"type"`
	Text string       `json:"question"`

	// Options is present only for multiple-choice questions.
	Options []string `json:"options,omitempty"`

	// CorrectAnswer equals one of Options exactly for multiple-choice.
	CorrectAnswer string `json:"correctAnswer"`
}

// Distribution is the per-type item count requested for an exam.
type Distribution struct {
	MultipleChoice  int `json:"multipleChoice"`
	Identification  int `json:"identification"`
	FillInTheBlanks int `json:"fillInTheBlanks"`
}

// Sum returns the total number of items across all types.
func (d Distribution) Sum() int {
	return d.MultipleChoice + d.Identification + d.FillInTheBlanks
}

// Count returns the number of items requested for t.
func (d Distribution) Count(t QuestionType) int {
	switch t {
	case TypeMultipleChoice:
		return d.MultipleChoice
	case TypeIdentification:
		return d.Identification
	case TypeFillInTheBlanks:
		return d.FillInTheBlanks
	}
	return 0
}

// DefaultMaxItems caps the number of questions in a single exam.
const DefaultMaxItems = 50

// Config describes the exam a user asked for.
type Config struct {
	TotalItems   int          `json:"totalItems"`
	Distribution Distribution `json:"distribution"`
}

// DefaultConfig assigns every item to multiple-choice, clamping total into
// 1..DefaultMaxItems.
func DefaultConfig(total int) Config {
	total = ClampTotal(total, DefaultMaxItems)
	return Config{
		TotalItems:   total,
		Distribution: Distribution{MultipleChoice: total},
	}
}

// ClampTotal bounds total into 1..limit.
func ClampTotal(total, limit int) int {
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	return min(limit, max(1, total))
}

// Validate checks the configuration before it is handed to the generator.
// The generator itself trusts its input.
func (c Config) Validate(maxItems int) error {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if c.TotalItems < 1 {
		return fmt.Errorf("total items must be at least 1, got %d", c.TotalItems)
	}
	if c.TotalItems > maxItems {
		return fmt.Errorf("total items must be at most %d, got %d", maxItems, c.TotalItems)
	}
	d := c.Distribution
	if d.MultipleChoice < 0 || d.Identification < 0 || d.FillInTheBlanks < 0 {
		return fmt.Errorf("distribution counts must not be negative")
	}
	if d.Sum() != c.TotalItems {
		return fmt.Errorf("distribution adds up to %d, expected %d", d.Sum(), c.TotalItems)
	}
	return nil
}

// Attempt is one completed sitting of a saved exam.
type Attempt struct {
	TakenAt time.Time `json:"date"`
	Score   int       `json:"score"`
	Total   int       `json:"total"`
}

// SavedExam is a question set persisted for repeated practice.
// Questions never change after creation; Attempts only grow.
type SavedExam struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SourceName string     `json:"pdfName"`
	Questions  []Question `json:"questions"`
	Attempts   []Attempt  `json:"attempts"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// AnswerSet maps question IDs to the user's raw answers.
type AnswerSet map[int]string

// DefaultName is the name given to an exam saved without one.
func DefaultName(source string) string {
	return "Reviewer for " + source
}

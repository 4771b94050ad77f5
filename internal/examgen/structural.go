package examgen

import (
	"fmt"
	"slices"

	"github.com/talas-app/talas/internal/exam"
)

// StructuralValidator checks each record on its own: required fields are
// present, the type tag is known and multiple-choice items are answerable.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(qs []exam.Question, _ exam.Config) *ValidationError {
	for i := range qs {
		if msg := v.check(&qs[i], i+1); msg != "" {
			return &ValidationError{Validator: v.Name(), Message: msg, Item: i + 1}
		}
	}
	return nil
}

func (v *StructuralValidator) check(q *exam.Question, pos int) string {
	if q.ID != pos {
		return "id must be sequential starting at 1"
	}
	if !q.Type.Valid() {
		return "unknown question type " + `"` + string(q.Type) + `"`
	}
	if q.Text == "" {
		return "question text is empty"
	}
	if q.CorrectAnswer == "" {
		return "correct answer is empty"
	}
	if q.Type != exam.TypeMultipleChoice {
		return ""
	}
	if len(q.Options) < 2 {
		return "multiple-choice needs at least 2 options"
	}
	if slices.Contains(q.Options, "") {
		return "multiple-choice option is empty"
	}
	if !slices.Contains(q.Options, q.CorrectAnswer) {
		return "correct answer is not one of the options"
	}
	return ""
}

// ShapeValidator checks that the batch matches the requested size and
// per-type distribution.
type ShapeValidator struct{}

func (v *ShapeValidator) Name() string { return "shape" }

func (v *ShapeValidator) Validate(qs []exam.Question, cfg exam.Config) *ValidationError {
	if len(qs) != cfg.TotalItems {
		return &ValidationError{
			Validator: v.Name(),
			Message:   formatCount("items", len(qs), cfg.TotalItems),
		}
	}
	for _, t := range exam.Types {
		got := 0
		for _, q := range qs {
			if q.Type == t {
				got++
			}
		}
		if want := cfg.Distribution.Count(t); got != want {
			return &ValidationError{
				Validator: v.Name(),
				Message:   formatCount(string(t)+" items", got, want),
			}
		}
	}
	return nil
}

func formatCount(what string, got, want int) string {
	return fmt.Sprintf("got %d %s, want %d", got, what, want)
}

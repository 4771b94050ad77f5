package examgen

import (
	"strings"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/scoring"
)

// normalizeQuestions applies the tolerated fix-ups in place:
// whitespace is trimmed, options are dropped from non multiple-choice items,
// a multiple-choice answer matching one option under scoring.Equal is
// replaced by that option's text, and ids are renumbered 1..n when every
// item already carries a positive id.
func normalizeQuestions(qs []exam.Question) {
	renumber := true
	for i := range qs {
		q := &qs[i]
		q.Text = strings.TrimSpace(q.Text)
		q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
		q.Type = exam.QuestionType(strings.TrimSpace(string(q.Type)))

		if q.Type != exam.TypeMultipleChoice {
			q.Options = nil
		} else {
			for j := range q.Options {
				q.Options[j] = strings.TrimSpace(q.Options[j])
			}
			q.CorrectAnswer = snapToOption(q.CorrectAnswer, q.Options)
		}

		if q.ID < 1 {
			renumber = false
		}
	}

	if renumber {
		for i := range qs {
			qs[i].ID = i + 1
		}
	}
}

// snapToOption returns the option equal to answer, preferring an exact match.
// An answer matching several options loosely is left alone.
func snapToOption(answer string, options []string) string {
	match := ""
	n := 0
	for _, o := range options {
		if o == answer {
			return o
		}
		if scoring.Equal(o, answer) {
			match = o
			n++
		}
	}
	if n == 1 {
		return match
	}
	return answer
}

// Package scoring compares submitted answers with canonical answers.
//
// Every question type uses the same rule: an answer is correct when its
// normalized form equals the normalized correct answer. There is no partial
// credit or fuzzy matching.
package scoring

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"github.com/talas-app/talas/internal/exam"
)

// ErrNoQuestions is returned when scoring an empty question list.
var ErrNoQuestions = errors.New("cannot score an exam with no questions")

// Normalize trims surrounding whitespace and applies Unicode case folding.
func Normalize(s string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(strings.TrimSpace(s))
}

// Equal reports whether two answers match under Normalize.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Verdict is the outcome for one question.
type Verdict struct {
	Question exam.Question
	Answer   string
	Answered bool
	Correct  bool
}

// Result is the scored exam, verdicts in question order.
type Result struct {
	Verdicts []Verdict
	Correct  int
	Total    int
	Percent  int
}

// Score grades answers against questions. Missing answers count as wrong.
func Score(questions []exam.Question, answers exam.AnswerSet) (Result, error) {
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}

	res := Result{
		Verdicts: make([]Verdict, len(questions)),
		Total:    len(questions),
	}
	for i, q := range questions {
		answer, ok := answers[q.ID]
		v := Verdict{
			Question: q,
			Answer:   answer,
			Answered: ok,
			Correct:  ok && Equal(answer, q.CorrectAnswer),
		}
		if v.Correct {
			res.Correct++
		}
		res.Verdicts[i] = v
	}
	res.Percent = Percent(res.Correct, res.Total)
	return res, nil
}

// Percent returns score/total as a whole percentage, rounded half away
// from zero. A zero total yields 0.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100 / float64(total)))
}

// BestPercent is the highest percentage across attempts, 0 when none.
func BestPercent(attempts []exam.Attempt) int {
	best := 0
	for _, a := range attempts {
		best = max(best, Percent(a.Score, a.Total))
	}
	return best
}

// Recent returns the last n attempts in the order they were taken.
func Recent(attempts []exam.Attempt, n int) []exam.Attempt {
	if n <= 0 || len(attempts) <= n {
		return attempts
	}
	return attempts[len(attempts)-n:]
}

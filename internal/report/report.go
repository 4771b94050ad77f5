// Package report renders scored exams as printable result sheets.
package report

import (
	"fmt"

	"github.com/talas-app/talas/internal/scoring"
)

// Entry is one reviewed question.
type Entry struct {
	Number        int    `json:"number"`
	Question      string `json:"question"`
	Answer        string `json:"answer,omitempty"`
	Answered      bool   `json:"answered"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
}

// AnswerLine is the "Your Answer" line as printed.
func (e Entry) AnswerLine() string {
	if !e.Answered {
		return "Your Answer: (No Answer)"
	}
	return "Your Answer: " + e.Answer
}

// Report is the layout-independent content of a result sheet.
type Report struct {
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Entries []Entry `json:"entries"`
}

// Build turns a scoring result into report content.
func Build(res scoring.Result) Report {
	r := Report{
		Title:   "Exam Results",
		Summary: fmt.Sprintf("Score: %d / %d (%d%%)", res.Correct, res.Total, res.Percent),
		Entries: make([]Entry, 0, len(res.Verdicts)),
	}
	for i, v := range res.Verdicts {
		r.Entries = append(r.Entries, Entry{
			Number:        i + 1,
			Question:      v.Question.Text,
			Answer:        v.Answer,
			Answered:      v.Answered,
			Correct:       v.Correct,
			CorrectAnswer: v.Question.CorrectAnswer,
		})
	}
	return r
}

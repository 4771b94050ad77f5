package results

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/scoring"
)

func testResult(t *testing.T) scoring.Result {
	t.Helper()
	qs := []exam.Question{
		{ID: 1, Type: exam.TypeIdentification, Text: "Capital of France?", CorrectAnswer: "Paris"},
		{ID: 2, Type: exam.TypeIdentification, Text: "Largest planet?", CorrectAnswer: "Jupiter"},
	}
	res, err := scoring.Score(qs, exam.AnswerSet{1: "paris"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	return res
}

func TestResultsScreen_View(t *testing.T) {
	s := New(exam.SavedExam{Name: "Geo"}, testResult(t), "")
	view := s.View(100, 40)
	for _, want := range []string{"50%", "You got 1 out of 2 correct", "(No Answer)", "Correct Answer: Jupiter"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Correct Answer: Paris") {
		t.Error("correct answer should be hidden for right answers")
	}
}

func TestResultsScreen_Warning(t *testing.T) {
	s := New(exam.SavedExam{}, testResult(t), "Attempt not saved")
	if !strings.Contains(s.View(100, 40), "Attempt not saved") {
		t.Error("expected warning in view")
	}
}

func TestResultsScreen_ScrollClamps(t *testing.T) {
	s := New(exam.SavedExam{}, testResult(t), "")
	for range 50 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.View(100, 12)
	if s.offset > 10 {
		t.Errorf("offset = %d, expected clamp to review length", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	if s.offset != 0 {
		t.Errorf("offset = %d after home, want 0", s.offset)
	}
}

func TestResultsScreen_EnterPops(t *testing.T) {
	s := New(exam.SavedExam{}, testResult(t), "")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

func TestMoodFor(t *testing.T) {
	cases := map[int]mood{100: moodProud, 75: moodProud, 74: moodOkay, 50: moodOkay, 49: moodStudy, 0: moodStudy}
	for percent, want := range cases {
		if got := moodFor(percent); got != want {
			t.Errorf("moodFor(%d) = %d, want %d", percent, got, want)
		}
	}
}

package take

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/screen"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func shiftTab() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
}

func testExam() exam.SavedExam {
	return exam.SavedExam{
		ID:   "exam-1",
		Name: "Biology",
		Questions: []exam.Question{
			{ID: 1, Type: exam.TypeMultipleChoice, Text: "Powerhouse of the cell?", Options: []string{"Nucleus", "Mitochondria"}, CorrectAnswer: "Mitochondria"},
			{ID: 2, Type: exam.TypeIdentification, Text: "Gas plants absorb?", CorrectAnswer: "Carbon dioxide"},
		},
	}
}

func typeText(t *testing.T, s *TakeScreen, text string) *TakeScreen {
	t.Helper()
	var scr screen.Screen = s
	for _, r := range text {
		scr, _ = scr.Update(keyPress(r))
	}
	return scr.(*TakeScreen)
}

func TestTakeScreen_Title(t *testing.T) {
	s := New(testExam(), nil)
	if s.Title() != "Biology" {
		t.Errorf("Title = %q, want %q", s.Title(), "Biology")
	}
	if s.Status() != "0/2 answered" {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestTakeScreen_View(t *testing.T) {
	s := New(testExam(), nil)
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty view")
	}
}

func TestTakeScreen_LetterChoosesOption(t *testing.T) {
	s := New(testExam(), nil)
	scr, _ := s.Update(keyPress('b'))
	ts := scr.(*TakeScreen)
	if got := ts.Answers()[1]; got != "Mitochondria" {
		t.Errorf("answer = %q, want Mitochondria", got)
	}
}

func TestTakeScreen_TabSkipsWithoutAnswering(t *testing.T) {
	s := New(testExam(), nil)
	scr, _ := s.Update(specialKey(tea.KeyTab))
	ts := scr.(*TakeScreen)
	if ts.index != 1 {
		t.Fatalf("index = %d, want 1", ts.index)
	}
	if _, ok := ts.Answers()[1]; ok {
		t.Error("skipped question should stay unanswered")
	}

	scr, _ = ts.Update(shiftTab())
	ts = scr.(*TakeScreen)
	if ts.index != 0 {
		t.Errorf("index = %d, want 0 after shift+tab", ts.index)
	}
}

func TestTakeScreen_AnswersSurviveNavigation(t *testing.T) {
	s := New(testExam(), nil)
	scr, _ := s.Update(keyPress('b'))
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	ts := typeText(t, scr.(*TakeScreen), "co2")

	scr, _ = ts.Update(shiftTab())
	scr, _ = scr.Update(specialKey(tea.KeyTab))
	ts = scr.(*TakeScreen)

	answers := ts.Answers()
	if answers[1] != "Mitochondria" || answers[2] != "co2" {
		t.Errorf("answers = %v", answers)
	}
}

func TestTakeScreen_BlankAnswerIsUnanswered(t *testing.T) {
	s := New(testExam(), nil)
	scr, _ := s.Update(specialKey(tea.KeyTab))
	ts := typeText(t, scr.(*TakeScreen), "   ")
	if _, ok := ts.Answers()[2]; ok {
		t.Error("whitespace answer should count as unanswered")
	}
}

func TestTakeScreen_SubmitScoresAndRecords(t *testing.T) {
	var recorded struct {
		id           string
		score, total int
	}
	record := func(_ context.Context, id string, score, total int) error {
		recorded.id, recorded.score, recorded.total = id, score, total
		return nil
	}

	s := New(testExam(), record)
	scr, _ := s.Update(keyPress('b'))
	scr, _ = scr.Update(specialKey(tea.KeyEnter))
	ts := typeText(t, scr.(*TakeScreen), " carbon DIOXIDE ")

	_, cmd := ts.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a command on submit")
	}
	msg, ok := cmd().(FinishedMsg)
	if !ok {
		t.Fatalf("expected FinishedMsg, got %T", cmd())
	}
	if msg.Result.Correct != 2 || msg.Result.Percent != 100 {
		t.Errorf("result = %d/%d (%d%%)", msg.Result.Correct, msg.Result.Total, msg.Result.Percent)
	}
	if recorded.id != "exam-1" || recorded.score != 2 || recorded.total != 2 {
		t.Errorf("recorded = %+v", recorded)
	}
	if !ts.submitting {
		t.Error("expected submitting state")
	}
}

func TestTakeScreen_EnterOnMultipleChoiceTakesCursor(t *testing.T) {
	s := New(testExam(), nil)
	scr, _ := s.Update(specialKey(tea.KeyEnter))
	ts := scr.(*TakeScreen)
	if got := ts.Answers()[1]; got != "Nucleus" {
		t.Errorf("answer = %q, want the highlighted option", got)
	}
}

func TestTakeScreen_RecordErrorIsReported(t *testing.T) {
	boom := errors.New("disk full")
	s := New(testExam(), func(context.Context, string, int, int) error { return boom })
	scr, _ := s.Update(specialKey(tea.KeyTab))
	_, cmd := scr.Update(specialKey(tea.KeyEnter))
	msg := cmd().(FinishedMsg)
	if !errors.Is(msg.RecordErr, boom) {
		t.Errorf("RecordErr = %v, want %v", msg.RecordErr, boom)
	}
	if msg.Result.Correct != 0 {
		t.Errorf("Correct = %d, want 0", msg.Result.Correct)
	}
}

func TestTakeScreen_QuitConfirm(t *testing.T) {
	s := New(testExam(), nil)
	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ts := scr.(*TakeScreen)
	if !ts.confirmQuit {
		t.Fatal("expected quit confirmation")
	}

	scr, _ = ts.Update(keyPress('n'))
	ts = scr.(*TakeScreen)
	if ts.confirmQuit {
		t.Error("expected confirmation to be dismissed")
	}

	scr, _ = ts.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))
	if cmd == nil {
		t.Fatal("expected a command after confirming")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Errorf("expected PopScreenMsg, got %T", cmd())
	}
}

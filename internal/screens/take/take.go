package take

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/screen"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/ui/components"
	"github.com/talas-app/talas/internal/ui/layout"
)

// Recorder stores a finished attempt. It is nil for exams that were never
// saved.
type Recorder func(ctx context.Context, examID string, score, total int) error

// FinishedMsg is emitted once the exam is submitted and scored.
type FinishedMsg struct {
	Exam   exam.SavedExam
	Result scoring.Result

	// RecordErr is set when the attempt could not be stored.
	RecordErr error
}

const recordTimeout = 5 * time.Second

// TakeScreen walks the user through one question at a time.
type TakeScreen struct {
	exam    exam.SavedExam
	record  Recorder
	answers exam.AnswerSet
	index   int

	options components.OptionList
	input   components.TextInput

	confirmQuit bool
	submitting  bool
}

var _ screen.Screen = (*TakeScreen)(nil)
var _ screen.KeyHintProvider = (*TakeScreen)(nil)
var _ screen.StatusProvider = (*TakeScreen)(nil)
var _ screen.EscapeHandler = (*TakeScreen)(nil)

// New creates a TakeScreen for e. record may be nil.
func New(e exam.SavedExam, record Recorder) *TakeScreen {
	s := &TakeScreen{exam: e, record: record, answers: exam.AnswerSet{}}
	s.load()
	return s
}

func (s *TakeScreen) Init() tea.Cmd {
	if s.isMultipleChoice() {
		return nil
	}
	return s.input.Init()
}

func (s *TakeScreen) Title() string {
	return s.exam.Name
}

func (s *TakeScreen) Status() string {
	return answeredStatus(len(s.answers), len(s.exam.Questions))
}

func (s *TakeScreen) HandlesEscape() bool { return true }

func (s *TakeScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave exam"},
			{Key: "N", Description: "Keep going"},
		}
	}
	next := layout.KeyHint{Key: "Enter", Description: "Next"}
	if s.isLast() {
		next.Description = "Submit"
	}
	hints := []layout.KeyHint{next}
	if s.isMultipleChoice() {
		hints = append(hints, layout.KeyHint{Key: "↑↓/A-D", Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "Tab/Shift+Tab", Description: "Skip/Back"},
		layout.KeyHint{Key: "Esc", Description: "Leave"},
	)
}

// Answers returns a copy of the answers given so far.
func (s *TakeScreen) Answers() exam.AnswerSet {
	s.save()
	out := make(exam.AnswerSet, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *TakeScreen) current() exam.Question {
	return s.exam.Questions[s.index]
}

func (s *TakeScreen) isMultipleChoice() bool {
	return len(s.exam.Questions) > 0 && s.current().Type == exam.TypeMultipleChoice
}

func (s *TakeScreen) isLast() bool {
	return s.index >= len(s.exam.Questions)-1
}

// load prepares the input widget for the current question.
func (s *TakeScreen) load() {
	if len(s.exam.Questions) == 0 {
		return
	}
	q := s.current()
	prev := s.answers[q.ID]
	if q.Type == exam.TypeMultipleChoice {
		s.options = components.NewOptionList(q.Options, prev)
		return
	}
	placeholder := "Type your answer"
	if q.Type == exam.TypeFillInTheBlanks {
		placeholder = "Fill in the blank"
	}
	s.input = components.NewTextInput(placeholder, prev, 200)
}

// save stores the current widget value. Blank answers count as unanswered.
func (s *TakeScreen) save() {
	if len(s.exam.Questions) == 0 {
		return
	}
	var v string
	if s.isMultipleChoice() {
		v = s.options.Value()
	} else {
		v = s.input.Value()
	}
	id := s.current().ID
	if scoring.Normalize(v) == "" {
		delete(s.answers, id)
		return
	}
	s.answers[id] = v
}

func (s *TakeScreen) move(delta int) tea.Cmd {
	next := s.index + delta
	if next < 0 || next >= len(s.exam.Questions) {
		return nil
	}
	s.save()
	s.index = next
	s.load()
	if s.isMultipleChoice() {
		return nil
	}
	return s.input.Init()
}

func (s *TakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if !s.isMultipleChoice() && len(s.exam.Questions) > 0 {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	if s.submitting {
		return s, nil
	}
	return s.handleKey(kmsg)
}

func (s *TakeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if len(s.exam.Questions) == 0 {
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		if s.isMultipleChoice() && s.options.Chosen < 0 {
			s.options.Chosen = s.options.Cursor
		}
		if s.isLast() {
			return s.submit()
		}
		return s, s.move(1)
	case "tab":
		return s, s.move(1)
	case "shift+tab":
		return s, s.move(-1)
	}

	var cmd tea.Cmd
	if s.isMultipleChoice() {
		s.options, cmd = s.options.Update(msg)
	} else {
		s.input, cmd = s.input.Update(msg)
	}
	return s, cmd
}

// submit scores the answers and records the attempt in the background.
func (s *TakeScreen) submit() (screen.Screen, tea.Cmd) {
	s.save()
	res, err := scoring.Score(s.exam.Questions, s.answers)
	if err != nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	s.submitting = true

	e, record := s.exam, s.record
	return s, func() tea.Msg {
		msg := FinishedMsg{Exam: e, Result: res}
		if record != nil {
			ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
			defer cancel()
			msg.RecordErr = record(ctx, e.ID, res.Correct, res.Total)
		}
		return msg
	}
}

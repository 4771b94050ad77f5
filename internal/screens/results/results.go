package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/screen"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/ui/layout"
	"github.com/talas-app/talas/internal/ui/theme"
)

// ResultsScreen shows the score and a per-question review.
type ResultsScreen struct {
	exam    exam.SavedExam
	result  scoring.Result
	warning string
	offset  int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.StatusProvider = (*ResultsScreen)(nil)
var _ screen.EscapeHandler = (*ResultsScreen)(nil)

// New creates a results screen. warning is shown above the review when
// non-empty, for example when the attempt could not be saved.
func New(e exam.SavedExam, res scoring.Result, warning string) *ResultsScreen {
	return &ResultsScreen{exam: e, result: res, warning: warning}
}

func (s *ResultsScreen) Init() tea.Cmd { return nil }

func (s *ResultsScreen) Title() string { return "Exam Results" }

func (s *ResultsScreen) Status() string {
	return fmt.Sprintf("%d / %d", s.result.Correct, s.result.Total)
}

func (s *ResultsScreen) HandlesEscape() bool { return true }

// Result returns the scored attempt shown by the screen.
func (s *ResultsScreen) Result() scoring.Result { return s.result }

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter/Esc", Description: "Done"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc", "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		s.offset++
	case "pgdown":
		s.offset += 10
	case "pgup":
		s.offset = max(s.offset-10, 0)
	case "home", "g":
		s.offset = 0
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	contentWidth := min(width-4, 90)

	var head strings.Builder
	if !layout.IsCompactHeight(height) {
		head.WriteString(renderMascot(s.result.Percent))
		head.WriteString("\n")
	}
	head.WriteString(theme.ScoreStyle(s.result.Percent).Render(fmt.Sprintf("%d%%", s.result.Percent)))
	head.WriteString("\n")
	head.WriteString(theme.Subtitle.Render(fmt.Sprintf("You got %d out of %d correct", s.result.Correct, s.result.Total)))
	head.WriteString("\n")
	if s.warning != "" {
		head.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.warning))
		head.WriteString("\n")
	}
	header := layout.Center(head.String(), contentWidth)

	review := strings.Split(s.review(contentWidth), "\n")
	rows := max(height-lipgloss.Height(header)-1, 1)
	if maxOffset := max(len(review)-rows, 0); s.offset > maxOffset {
		s.offset = maxOffset
	}
	end := min(s.offset+rows, len(review))
	visible := strings.Join(review[s.offset:end], "\n")

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", visible)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(contentWidth).Render(content))
}

// review renders every verdict. The correct answer is only shown for
// wrong or missing answers.
func (s *ResultsScreen) review(width int) string {
	var b strings.Builder
	for i, v := range s.result.Verdicts {
		b.WriteString(theme.Body.Bold(true).Width(width).Render(fmt.Sprintf("%d. %s", i+1, v.Question.Text)))
		b.WriteString("\n")

		answer := "(No Answer)"
		if v.Answered {
			answer = v.Answer
		}
		mark, style := "✗", theme.Incorrect
		if v.Correct {
			mark, style = "✓", theme.Correct
		}
		b.WriteString(style.Render(fmt.Sprintf("   %s Your Answer: %s", mark, answer)))
		b.WriteString("\n")
		if !v.Correct {
			b.WriteString(theme.Correct.Render("     Correct Answer: " + v.Question.CorrectAnswer))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

package take

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/ui/components"
	"github.com/talas-app/talas/internal/ui/theme"
)

func answeredStatus(answered, total int) string {
	return fmt.Sprintf("%d/%d answered", answered, total)
}

func (s *TakeScreen) View(width, height int) string {
	if len(s.exam.Questions) == 0 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("This exam has no questions. Press Enter to go back."))
	}

	contentWidth := min(width-4, 90)
	q := s.current()

	var b strings.Builder
	b.WriteString(components.NewProgressBar(s.index+1, len(s.exam.Questions), contentWidth).View())
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(q.Type.Label()))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(contentWidth).Render(fmt.Sprintf("%d. %s", s.index+1, q.Text)))
	b.WriteString("\n\n")

	if q.Type == exam.TypeMultipleChoice {
		b.WriteString(s.options.View())
	} else {
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.confirmQuit:
		b.WriteString(theme.Incorrect.Render("Leave this exam? Your answers will be lost. (y/n)"))
	case s.submitting:
		b.WriteString(theme.Hint.Render("Scoring..."))
	default:
		b.WriteString(s.buttons())
	}

	content := lipgloss.NewStyle().Width(contentWidth).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (s *TakeScreen) buttons() string {
	prev := components.Button{Label: "Previous", Active: false}
	if s.isLast() {
		return components.ButtonRow(prev, components.Button{Label: "Submit", Active: true})
	}
	return components.ButtonRow(prev, components.Button{Label: "Next", Active: true})
}

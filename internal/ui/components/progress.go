package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/ui/theme"
)

// ProgressBar shows how far through a sequence the user is.
type ProgressBar struct {
	Current int // 1-based
	Total   int
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(current, total, width int) ProgressBar {
	return ProgressBar{Current: current, Total: total, Width: width}
}

// Fraction returns Current/Total clamped into 0..1.
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(1, max(0, float64(p.Current)/float64(p.Total)))
}

// View renders "Question c of n" followed by the bar.
func (p ProgressBar) View() string {
	label := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Question %d of %d", p.Current, p.Total)) + "  "

	barWidth := max(p.Width-lipgloss.Width(label), 4)
	filled := int(float64(barWidth) * p.Fraction())
	empty := barWidth - filled

	return label +
		lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
}

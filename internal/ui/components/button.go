package components

import (
	"strings"

	"github.com/talas-app/talas/internal/ui/theme"
)

// Button is a styled, non-interactive button label. Screens map keys to
// the action the button stands for.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render(b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow renders buttons side by side.
func ButtonRow(buttons ...Button) string {
	parts := make([]string, len(buttons))
	for i, b := range buttons {
		parts[i] = b.View()
	}
	return strings.Join(parts, "  ")
}

package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/ui/theme"
)

// OptionList is a single-choice selector for multiple-choice questions.
// Nothing is chosen until the user presses enter or a letter key.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int // -1 when nothing is chosen
}

// NewOptionList creates a selector. A previous answer equal to one of the
// options is pre-selected.
func NewOptionList(options []string, previous string) OptionList {
	o := OptionList{Options: options, Chosen: -1}
	for i, opt := range options {
		if opt == previous && previous != "" {
			o.Cursor, o.Chosen = i, i
			break
		}
	}
	return o
}

// Update handles arrow navigation, enter to choose and a-z shortcuts.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(o.Options) == 0 {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "space", " ":
		o.Chosen = o.Cursor
	default:
		if len(key) == 1 {
			if i := int(strings.ToLower(key)[0] - 'a'); i >= 0 && i < len(o.Options) {
				o.Cursor, o.Chosen = i, i
			}
		}
	}
	return o, nil
}

// Value returns the chosen option text, or "" when nothing is chosen.
func (o OptionList) Value() string {
	if o.Chosen < 0 || o.Chosen >= len(o.Options) {
		return ""
	}
	return o.Options[o.Chosen]
}

// View renders the options with letter labels.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "○"
		if i == o.Chosen {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %c)  %s", prefix, mark, 'A'+i, opt)

		switch {
		case i == o.Chosen:
			b.WriteString(theme.Selected.Render(line))
		case i == o.Cursor:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

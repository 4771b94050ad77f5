package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/ui/theme"
)

// ListItem is one row of a List.
type ListItem struct {
	Label  string
	Detail string
}

// List is a vertical selectable list with a second dimmed line per item.
type List struct {
	Items    []ListItem
	Selected int
}

// NewList creates a list with the first item selected.
func NewList(items []ListItem) List {
	return List{Items: items}
}

// Update handles keyboard navigation.
func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if l.Selected > 0 {
			l.Selected--
		}
	case "down", "j":
		if l.Selected < len(l.Items)-1 {
			l.Selected++
		}
	}
	return l, nil
}

// Clamp keeps Selected in range after items were removed.
func (l *List) Clamp() {
	l.Selected = min(max(l.Selected, 0), max(len(l.Items)-1, 0))
}

// View renders at most maxRows items, scrolled to keep the selection visible.
func (l List) View(maxRows int) string {
	start, end := 0, len(l.Items)
	if maxRows > 0 && len(l.Items) > maxRows {
		start = min(max(l.Selected-maxRows/2, 0), len(l.Items)-maxRows)
		end = start + maxRows
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		item := l.Items[i]
		if i == l.Selected {
			b.WriteString(theme.Selected.Render("▸ " + item.Label))
		} else {
			b.WriteString(theme.Unselected.Render("  " + item.Label))
		}
		b.WriteString("\n")
		if item.Detail != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("    " + item.Detail))
			b.WriteString("\n")
		}
	}
	return b.String()
}

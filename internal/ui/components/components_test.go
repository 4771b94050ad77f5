package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestOptionList_Previous(t *testing.T) {
	o := NewOptionList([]string{"Red", "Green", "Blue"}, "Green")
	if o.Chosen != 1 || o.Cursor != 1 {
		t.Errorf("cursor/chosen = %d/%d, want 1/1", o.Cursor, o.Chosen)
	}
	if NewOptionList([]string{"Red"}, "").Value() != "" {
		t.Error("nothing should be chosen without a previous answer")
	}
}

func TestOptionList_Keys(t *testing.T) {
	o := NewOptionList([]string{"Red", "Green", "Blue"}, "")

	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if o.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", o.Cursor)
	}
	if o.Value() != "" {
		t.Error("moving the cursor must not choose")
	}

	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if o.Value() != "Blue" {
		t.Errorf("Value = %q, want Blue", o.Value())
	}

	o, _ = o.Update(keyPress('A'))
	if o.Value() != "Red" || o.Cursor != 0 {
		t.Errorf("Value = %q cursor %d, want Red at 0", o.Value(), o.Cursor)
	}

	o, _ = o.Update(keyPress('z'))
	if o.Value() != "Red" {
		t.Error("letters past the last option should be ignored")
	}
}

func TestOptionList_View(t *testing.T) {
	view := NewOptionList([]string{"Red", "Green"}, "Green").View()
	if !strings.Contains(view, "A)  Red") || !strings.Contains(view, "B)  Green") {
		t.Errorf("view missing labels:\n%s", view)
	}
}

func TestList_ScrollKeepsSelectionVisible(t *testing.T) {
	items := make([]ListItem, 10)
	for i := range items {
		items[i] = ListItem{Label: string(rune('a' + i))}
	}
	l := NewList(items)
	for range 9 {
		l, _ = l.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	view := l.View(3)
	if !strings.Contains(view, "▸ j") {
		t.Errorf("selected item not visible:\n%s", view)
	}
	if strings.Contains(view, " a") {
		t.Error("first item should be scrolled out")
	}
}

func TestList_Clamp(t *testing.T) {
	l := List{Items: []ListItem{{Label: "x"}}, Selected: 4}
	l.Clamp()
	if l.Selected != 0 {
		t.Errorf("Selected = %d, want 0", l.Selected)
	}
	l = List{Selected: 2}
	l.Clamp()
	if l.Selected != 0 {
		t.Errorf("Selected = %d on empty list, want 0", l.Selected)
	}
}

func TestProgressBar_Fraction(t *testing.T) {
	if f := NewProgressBar(3, 4, 40).Fraction(); f != 0.75 {
		t.Errorf("Fraction = %v, want 0.75", f)
	}
	if f := NewProgressBar(1, 0, 40).Fraction(); f != 0 {
		t.Errorf("Fraction = %v with zero total, want 0", f)
	}
}

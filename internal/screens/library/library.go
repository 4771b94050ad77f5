package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/screen"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/screens/take"
	"github.com/talas-app/talas/internal/store"
	"github.com/talas-app/talas/internal/ui/components"
	"github.com/talas-app/talas/internal/ui/layout"
	"github.com/talas-app/talas/internal/ui/theme"
)

const (
	repoTimeout    = 5 * time.Second
	recentAttempts = 5
)

type mode int

const (
	modeBrowse mode = iota
	modeRename
	modeConfirmDelete
)

type loadedMsg struct {
	exams []exam.SavedExam
	err   error
}

type changedMsg struct {
	err error
}

// LibraryScreen lists saved exams and their attempt history.
type LibraryScreen struct {
	repo    store.ExamRepo
	exams   []exam.SavedExam
	list    components.List
	loading bool
	errMsg  string

	mode   mode
	rename components.TextInput
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)
var _ screen.StatusProvider = (*LibraryScreen)(nil)
var _ screen.EscapeHandler = (*LibraryScreen)(nil)

// New creates a LibraryScreen backed by repo.
func New(repo store.ExamRepo) *LibraryScreen {
	return &LibraryScreen{repo: repo, loading: true}
}

// Init reloads the exam list. It runs again whenever a finished exam is
// popped, so new attempts show up.
func (s *LibraryScreen) Init() tea.Cmd {
	s.loading = true
	return s.load()
}

func (s *LibraryScreen) load() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
		defer cancel()
		exams, err := repo.List(ctx)
		return loadedMsg{exams: exams, err: err}
	}
}

func (s *LibraryScreen) Title() string { return "Saved Exams" }

func (s *LibraryScreen) Status() string {
	if s.loading {
		return ""
	}
	return fmt.Sprintf("%d saved", len(s.exams))
}

func (s *LibraryScreen) HandlesEscape() bool {
	return s.mode != modeBrowse
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeRename:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Cancel"},
		}
	case modeConfirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Keep"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Take"},
		{Key: "R", Description: "Rename"},
		{Key: "D", Description: "Delete"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *LibraryScreen) selected() (exam.SavedExam, bool) {
	if len(s.exams) == 0 {
		return exam.SavedExam{}, false
	}
	return s.exams[s.list.Selected], true
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = fmt.Sprintf("Could not load exams: %v", msg.err)
			return s, nil
		}
		s.errMsg = ""
		s.setExams(msg.exams)
		return s, nil

	case changedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		}
		return s, s.load()

	case tea.KeyMsg:
		switch s.mode {
		case modeRename:
			return s.updateRename(msg)
		case modeConfirmDelete:
			return s.updateConfirmDelete(msg)
		}
		return s.updateBrowse(msg)
	}

	if s.mode == modeRename {
		var cmd tea.Cmd
		s.rename, cmd = s.rename.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LibraryScreen) setExams(exams []exam.SavedExam) {
	s.exams = exams
	items := make([]components.ListItem, len(exams))
	for i, e := range exams {
		items[i] = components.ListItem{Label: e.Name, Detail: detail(e)}
	}
	sel := s.list.Selected
	s.list = components.NewList(items)
	s.list.Selected = sel
	s.list.Clamp()
}

func (s *LibraryScreen) updateBrowse(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "q":
		return s, tea.Quit
	case "enter":
		e, ok := s.selected()
		if !ok {
			return s, nil
		}
		next := take.New(e, s.repo.AppendAttempt)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "r":
		if e, ok := s.selected(); ok {
			s.mode = modeRename
			s.rename = components.NewTextInput("Exam name", e.Name, 120)
			return s, s.rename.Init()
		}
		return s, nil
	case "d":
		if _, ok := s.selected(); ok {
			s.mode = modeConfirmDelete
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *LibraryScreen) updateRename(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.mode = modeBrowse
		return s, nil
	case "enter":
		name := strings.TrimSpace(s.rename.Value())
		if name == "" {
			s.errMsg = "Name cannot be empty"
			return s, nil
		}
		e, _ := s.selected()
		s.mode = modeBrowse
		s.errMsg = ""
		return s, s.mutate(func(ctx context.Context) error {
			return s.repo.Rename(ctx, e.ID, name)
		})
	}
	var cmd tea.Cmd
	s.rename, cmd = s.rename.Update(msg)
	return s, cmd
}

func (s *LibraryScreen) updateConfirmDelete(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		e, _ := s.selected()
		s.mode = modeBrowse
		return s, s.mutate(func(ctx context.Context) error {
			return s.repo.Delete(ctx, e.ID)
		})
	case "n", "N", "esc":
		s.mode = modeBrowse
	}
	return s, nil
}

func (s *LibraryScreen) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
		defer cancel()
		return changedMsg{err: fn(ctx)}
	}
}

func detail(e exam.SavedExam) string {
	parts := []string{fmt.Sprintf("%d questions", len(e.Questions))}
	if e.SourceName != "" {
		parts = append(parts, e.SourceName)
	}
	if n := len(e.Attempts); n > 0 {
		parts = append(parts, fmt.Sprintf("best %d%%", scoring.BestPercent(e.Attempts)))
		parts = append(parts, fmt.Sprintf("%d attempts", n))
	} else {
		parts = append(parts, "not taken yet")
	}
	return strings.Join(parts, " · ")
}

func (s *LibraryScreen) View(width, height int) string {
	contentWidth := min(width-4, 90)

	if s.loading && s.exams == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading exams..."))
	}

	var b strings.Builder
	if s.errMsg != "" {
		b.WriteString(theme.Incorrect.Render(s.errMsg))
		b.WriteString("\n\n")
	}

	if len(s.exams) == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Center,
			renderBanner(width),
			"",
			theme.Subtitle.Render("Practice exams from your own notes"),
			"",
			theme.Hint.Render("No saved exams yet. Generate one with `talas generate <file>`."),
		)
		b.WriteString(empty)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
	}

	panel := s.panel(contentWidth)
	rows := max((height-lipgloss.Height(panel)-2)/2, 1)
	b.WriteString(s.list.View(rows))
	b.WriteString("\n")
	b.WriteString(panel)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(contentWidth).Render(b.String()))
}

// panel renders the action prompt or the selected exam's recent scores.
func (s *LibraryScreen) panel(width int) string {
	e, _ := s.selected()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(width)

	switch s.mode {
	case modeRename:
		return box.Render(theme.Body.Render("Rename exam:") + "\n" + s.rename.View())
	case modeConfirmDelete:
		return box.Render(theme.Incorrect.Render(fmt.Sprintf("Delete %q and its history? (y/n)", e.Name)))
	}

	recent := scoring.Recent(e.Attempts, recentAttempts)
	if len(recent) == 0 {
		return box.Render(theme.Hint.Render("No attempts yet"))
	}
	var lines []string
	for i := len(recent) - 1; i >= 0; i-- {
		a := recent[i]
		p := scoring.Percent(a.Score, a.Total)
		lines = append(lines, fmt.Sprintf("%s  %s  %d/%d",
			a.TakenAt.Local().Format("Jan 2 15:04"),
			theme.ScoreStyle(p).Render(fmt.Sprintf("%3d%%", p)),
			a.Score, a.Total))
	}
	return box.Render(theme.Subtitle.Render("Recent attempts") + "\n" + strings.Join(lines, "\n"))
}

package app

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/exam"
	"github.com/talas-app/talas/internal/router"
	"github.com/talas-app/talas/internal/screen"
	"github.com/talas-app/talas/internal/scoring"
	"github.com/talas-app/talas/internal/screens/library"
	"github.com/talas-app/talas/internal/screens/results"
	"github.com/talas-app/talas/internal/screens/take"
	"github.com/talas-app/talas/internal/store"
	"github.com/talas-app/talas/internal/ui/layout"
)

// Options selects the first screen. With Exam set the program starts on
// that exam and quits after its results; otherwise it opens the library.
type Options struct {
	Repo store.ExamRepo
	Exam *exam.SavedExam

	// Record stores attempts for Exam. Nil leaves the attempt unsaved.
	Record take.Recorder
}

// Outcome is the last exam finished during the session.
type Outcome struct {
	Exam      exam.SavedExam
	Result    scoring.Result
	RecordErr error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	outcome *Outcome
	width   int
	height  int
}

func newAppModel(opts Options) (AppModel, error) {
	var first screen.Screen
	switch {
	case opts.Exam != nil:
		first = take.New(*opts.Exam, opts.Record)
	case opts.Repo != nil:
		first = library.New(opts.Repo)
	default:
		return AppModel{}, errors.New("app: need an exam or a repository")
	}
	return AppModel{router: router.New(first)}, nil
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case take.FinishedMsg:
		m.outcome = &Outcome{Exam: msg.Exam, Result: msg.Result, RecordErr: msg.RecordErr}
		warning := ""
		if msg.RecordErr != nil {
			warning = "Attempt not saved: " + msg.RecordErr.Error()
		}
		return m, m.router.Replace(results.New(msg.Exam, msg.Result, warning))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		hints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Outcome returns the last finished exam, or nil.
func (m AppModel) Outcome() *Outcome {
	return m.outcome
}

// Run starts the Bubble Tea program and returns the last finished exam,
// nil if none was finished.
func Run(opts Options) (*Outcome, error) {
	model, err := newAppModel(opts)
	if err != nil {
		return nil, err
	}
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return nil, err
	}
	if fm, ok := final.(AppModel); ok {
		return fm.Outcome(), nil
	}
	return nil, nil
}

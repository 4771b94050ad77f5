package results

import (
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/ui/theme"
)

// mood picks the mascot face for a score.
type mood int

const (
	moodProud mood = iota // 75% and up
	moodOkay              // 50% and up
	moodStudy             // below 50%
)

const mascotProud = `┌─────┐
│ ★ ★ │
│  ▿  │
│ A+  │
└─╥═╥─┘
  ╚═╝`

const mascotOkay = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ B-  │
└─────┘`

const mascotStudy = `┌─────┐
│ ◉ ◉ │ !
│  ~  │
│ ... │
└─────┘`

func moodFor(percent int) mood {
	switch {
	case percent >= 75:
		return moodProud
	case percent >= 50:
		return moodOkay
	default:
		return moodStudy
	}
}

// renderMascot draws the mascot in the same color as the score.
func renderMascot(percent int) string {
	var art string
	switch moodFor(percent) {
	case moodProud:
		art = mascotProud
	case moodOkay:
		art = mascotOkay
	default:
		art = mascotStudy
	}
	return lipgloss.NewStyle().
		Foreground(theme.ScoreStyle(percent).GetForeground()).
		Render(art)
}

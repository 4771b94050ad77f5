package library

import (
	"charm.land/lipgloss/v2"

	"github.com/talas-app/talas/internal/ui/theme"
)

const bannerArt = `
████████╗ █████╗ ██╗      █████╗ ███████╗
╚══██╔══╝██╔══██╗██║     ██╔══██╗██╔════╝
   ██║   ███████║██║     ███████║███████╗
   ██║   ██╔══██║██║     ██╔══██║╚════██║
   ██║   ██║  ██║███████╗██║  ██║███████║
   ╚═╝   ╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚══════╝`

const bannerCompact = "T A L A S"

// bannerWidth is the widest line of bannerArt.
const bannerWidth = 42

// renderBanner falls back to spaced letters on narrow terminals.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

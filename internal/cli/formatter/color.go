package formatter

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// KindStyle colors an error kind. Kinds the caller can correct are yellow,
// backend and internal failures red.
func KindStyle(kind domain.ErrorKind) lipgloss.Style {
	switch kind {
	case domain.KindBackendCallFailed, contract.KindInternal:
		return StyleRed
	case domain.KindNotFound:
		return StyleBlue
	default:
		return StyleYellow
	}
}

// StatusIndicator renders "● OK" or "● <KIND>".
func StatusIndicator(env contract.Envelope) string {
	if env.OK() {
		return StyleGreen.Render("● OK")
	}
	kind := env.ErrorKind()
	return KindStyle(kind).Render("● " + string(kind))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

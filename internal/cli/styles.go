package cli

import "github.com/charmbracelet/lipgloss"

const Logo = "🍣"
const Version = "0.1.0"

var (
	Accent = lipgloss.Color("#1DA1F2")
	Subtle = lipgloss.Color("#555555")
	Green  = lipgloss.Color("#04B575")
	Red    = lipgloss.Color("#FF4444")

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	BoldStyle  = lipgloss.NewStyle().Bold(true)
	SelfLabel  = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	DateLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AAAAAA"))
	ErrStyle   = lipgloss.NewStyle().Foreground(Red)
	OkStyle    = lipgloss.NewStyle().Foreground(Green).Bold(true)
	DimStyle   = lipgloss.NewStyle().Foreground(Subtle)
)

func StatusBadge(ok bool) string {
	if ok {
		return OkStyle.Render("✓")
	}
	return DimStyle.Render("✗")
}

// RenderBanner returns the startup banner.
func RenderBanner() string {
	return TitleStyle.Render("  "+Logo+" sashimi") + DimStyle.Render("  tweet scheduler & mention auto-reply") + "\n"
}

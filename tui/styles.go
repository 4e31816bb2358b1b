package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#e11d48")
	colorMuted  = lipgloss.Color("#78716c")
	colorStar   = lipgloss.Color("#f59e0b")
	colorOK     = lipgloss.Color("#059669")
	colorBorder = lipgloss.Color("#d6d3d1")
)

// styles holds the rendering styles of the browser.
type styles struct {
	Brand    lipgloss.Style
	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Price    lipgloss.Style
	Strike   lipgloss.Style
	Stars    lipgloss.Style
	InStock  lipgloss.Style
	Error    lipgloss.Style
	Active   lipgloss.Style
	Box      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Brand:    lipgloss.NewStyle().Bold(true),
		Header:   lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorBorder).MarginBottom(1),
		Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Price:    lipgloss.NewStyle().Bold(true),
		Strike:   lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted),
		Stars:    lipgloss.NewStyle().Foreground(colorStar),
		InStock:  lipgloss.NewStyle().Foreground(colorOK),
		Error:    lipgloss.NewStyle().Foreground(colorAccent),
		Active:   lipgloss.NewStyle().Bold(true).Underline(true),
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1),
	}
}

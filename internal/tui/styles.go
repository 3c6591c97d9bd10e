package tui

import "github.com/charmbracelet/lipgloss"

var (
	soilGreen = lipgloss.Color("#5b7f3a")
	soilBrown = lipgloss.Color("#8b5a2b")
	muted     = lipgloss.Color("#7a7a7a")
	alert     = lipgloss.Color("#c0392b")
)

// styles groups the lipgloss styles of the screen.
type styles struct {
	Title    lipgloss.Style
	Slogan   lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style
	Notice   lipgloss.Style
	Status   lipgloss.Style
	Heading  lipgloss.Style
	Spinner  lipgloss.Style
	Help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Foreground(soilGreen).
			Bold(true),

		Slogan: lipgloss.NewStyle().
			Foreground(soilGreen).
			Italic(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(muted).
			Width(labelWidth),

		Focused: lipgloss.NewStyle().
			Foreground(soilBrown).
			Bold(true).
			Width(labelWidth),

		Button: lipgloss.NewStyle().
			Background(soilGreen).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Disabled: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		Notice: lipgloss.NewStyle().
			Foreground(alert).
			Bold(true),

		Status: lipgloss.NewStyle().
			Bold(true),

		Heading: lipgloss.NewStyle().
			Foreground(soilBrown).
			Bold(true).
			Underline(true),

		Spinner: lipgloss.NewStyle().
			Foreground(soilBrown),

		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}

package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// Semantic aliases
const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	tabStyle       = lipgloss.NewStyle().Foreground(colorSubtext0).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Bold(true).Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface1)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)
	helpStyle     = lipgloss.NewStyle().Foreground(colorSubtext0)
	statusStyle   = lipgloss.NewStyle().Foreground(colorInfo)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)

	fieldLabelStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	fieldActiveStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMauve).
			Padding(1, 2)
)

// statusColor maps a reservation status to its display color.
func statusColor(status string) lipgloss.Color {
	switch status {
	case "pending":
		return colorYellow
	case "confirmed":
		return colorBlue
	case "ready":
		return colorGreen
	case "collected":
		return colorTeal
	case "cancelled":
		return colorRed
	default:
		return colorText
	}
}

package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText    = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}
	colorInverse = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	colorGood    = lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}
	colorBad     = lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}
	colorInput   = lipgloss.AdaptiveColor{Light: "#d33682", Dark: "#ff79c6"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Margin(1, 0, 1, 0)

	menuItemStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Margin(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	selectedMenuItemStyle = menuItemStyle.
				Foreground(colorInverse).
				Background(colorAccent).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Margin(1, 0, 0, 0)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2).
			Margin(1, 0)

	inputStyle    = lipgloss.NewStyle().Foreground(colorInput)
	labelStyle    = lipgloss.NewStyle().Foreground(colorGood).Bold(true)
	progressStyle = lipgloss.NewStyle().Margin(1, 0)
	successStyle  = lipgloss.NewStyle().Foreground(colorGood).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(colorBad).Bold(true)
)

// GetAdaptiveStyles returns the title, form and help styles sized to the
// terminal width.
func GetAdaptiveStyles(width, height int) (title, form, help lipgloss.Style) {
	if width <= 4 {
		return titleStyle, formStyle, helpStyle
	}
	maxWidth := width - 4
	return titleStyle.Width(maxWidth).Align(lipgloss.Center),
		formStyle.Width(maxWidth),
		helpStyle.Width(maxWidth)
}

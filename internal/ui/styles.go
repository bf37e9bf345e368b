package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Padding(0, 1)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleInputBox = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorSecondary).
			Padding(0, 1)

	StyleInputBoxFocused = StyleInputBox.BorderForeground(ColorPrimary)

	// Task rows
	StyleCursor    = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleDone      = lipgloss.NewStyle().Foreground(ColorSecondary).Strikethrough(true)
	StyleDeleting  = lipgloss.NewStyle().Foreground(ColorError).Strikethrough(true)
	StyleFilterOn  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleFilterOff = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

// Checkbox renders the completion marker for a task row.
func Checkbox(completed bool) string {
	if completed {
		return Icon("[x]", StyleSuccess)
	}
	return Icon("[ ]", StyleSubtle)
}

package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// CreateFloatingDialogStyle creates the style for dialogs drawn over the browser
func CreateFloatingDialogStyle(width int, borderColor string) lipgloss.Style {
	if borderColor == "" {
		borderColor = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(1).
		Width(width).
		Background(lipgloss.Color("#1a1a1a")).
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateDialogTitleStyle creates a style for dialog titles
func CreateDialogTitleStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(color)).
		Align(lipgloss.Center).
		MarginBottom(1)
}

// CreateInstructionStyle creates a style for the hint line under a dialog
func CreateInstructionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true).
		Align(lipgloss.Center).
		MarginTop(1)
}

package theme

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginBottom(1)
}

// CreateInfoTextStyle creates a consistent info text style
func CreateInfoTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWhite))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateHeaderStyle creates a consistent header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightGreen)).
		MarginLeft(1) // Align with left panel border
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginLeft(1) // Align with left panel border
}

// CreateRightPanelStyle creates the detail panel style with a left separator border
func CreateRightPanelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Border(PanelDivider, false, false, false, true).
		BorderForeground(lipgloss.Color(ColorBrightBlack))
}

// CreateCrumbStyle styles one breadcrumb; the active crumb is not clickable
func CreateCrumbStyle(active bool) lipgloss.Style {
	if active {
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite))
	}
	return lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color(ColorBrightBlue))
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightRed))
}

// CreateTableStyles returns the entry table styles
func CreateTableStyles() table.Styles {
	return table.Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(ColorBrightCyan)).
			BorderBottom(true).
			Bold(true).
			Foreground(lipgloss.Color(ColorBrightCyan)).
			Background(lipgloss.Color("#1a1a1a")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)).
			Background(lipgloss.Color("#4A90E2")).
			Bold(true),
		Cell: lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorWhite)),
	}
}

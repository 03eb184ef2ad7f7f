package theme

import "github.com/charmbracelet/lipgloss"

var (
	// PanelDivider draws only the vertical rule between the entry table and the detail panel
	PanelDivider = lipgloss.Border{Left: "│"}

	// CrumbSeparator joins breadcrumbs in the header
	CrumbSeparator = " / "

	// ParentRowLabel is the name shown on the synthetic row that leads up one directory
	ParentRowLabel = ".."
)

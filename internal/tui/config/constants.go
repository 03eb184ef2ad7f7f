package config

// Layout constants
const (
	// Panel layout
	LeftPanelWidthRatio = 0.5
	PanelSeparatorWidth = 1

	// Header: title and breadcrumbs. Footer: status and help.
	HeaderHeight = 3
	FooterHeight = 2
	// BreadcrumbRow is the screen row the breadcrumbs are drawn on
	BreadcrumbRow = 1
	// BreadcrumbIndent matches the header's left margin
	BreadcrumbIndent = 1

	// Table dimensions
	DefaultColumnSizeWidth = 10
	DefaultColumnTypeWidth = 10
	MinColumnNameWidth     = 16
	DefaultTableHeight     = 20

	// Detail panel chrome: border and padding on the left, padding on the right,
	// and the title lines above the structure canvas
	DetailPaddingLeft  = 2
	DetailPaddingRight = 1
	DetailTitleHeight  = 2

	// Dialog dimensions
	DialogDefaultWidth = 50
	DialogLargeWidth   = 70

	// Structure rotation step in degrees
	RotateStep = 15
)

package theme

// Terminal-compatible color constants using ANSI standard colors
// These colors work consistently across different terminal themes
const (
	// Primary colors (ANSI standard)
	ColorWhite        = "#FFFFFF" // ANSI 15 - primary text
	ColorBrightBlack  = "#808080" // ANSI 8 - secondary text
	ColorBrightBlue   = "#5C7CFA" // ANSI 12 - primary accent
	ColorBrightCyan   = "#66D9E8" // ANSI 14 - secondary accent
	ColorBrightGreen  = "#51CF66" // ANSI 10 - success/links
	ColorBrightYellow = "#FFD43B" // ANSI 11 - warning
	ColorBrightRed    = "#FF6B6B" // ANSI 9 - error

	// Entry colors
	ColorDirectory = "#74C0FC" // Light blue
	ColorSymlink   = "#B197FC" // Light purple
	ColorStructure = "#FFA94D" // Orange
	ColorText      = "#69DB7C" // Light green
	ColorData      = "#74C0FC" // Light blue
	ColorImage     = "#DA77F2" // Purple
	ColorArchive   = "#FCC419" // Amber
)

// Message kinds, in the same order as the status side channel's types
const (
	MessageInfo = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// GetFileColor returns the color for a given entry category
func GetFileColor(category string) string {
	switch category {
	case "directory":
		return ColorDirectory
	case "symlink":
		return ColorSymlink
	case "structure":
		return ColorStructure
	case "text":
		return ColorText
	case "data":
		return ColorData
	case "image":
		return ColorImage
	case "archive":
		return ColorArchive
	default:
		return ColorWhite
	}
}

// GetCategoryIcon returns the icon shown before an entry name
func GetCategoryIcon(category string) string {
	switch category {
	case "directory":
		return "📁"
	case "symlink":
		return "🔗"
	case "structure":
		return "💎"
	case "text":
		return "📝"
	case "data":
		return "📊"
	case "image":
		return "🖼️"
	case "archive":
		return "📦"
	default:
		return "📄"
	}
}

// GetMessageColor returns the color for a given message type
func GetMessageColor(messageType int) string {
	switch messageType {
	case MessageError:
		return ColorBrightRed
	case MessageSuccess:
		return ColorBrightGreen
	case MessageWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a given message type
func GetMessageIcon(messageType int) string {
	switch messageType {
	case MessageError:
		return "❌"
	case MessageSuccess:
		return "✅"
	case MessageWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

package render

import (
	"os"
	"strings"
)

// GraphicsProtocol is the inline image protocol a terminal understands
type GraphicsProtocol string

const (
	ProtocolKitty GraphicsProtocol = "kitty"
	ProtocolITerm GraphicsProtocol = "iterm2"
	ProtocolSixel GraphicsProtocol = "sixel"
	ProtocolNone  GraphicsProtocol = "none"
)

// Render modes accepted by ui.render_mode
const (
	ModeAuto     = "auto"
	ModeText     = "text"
	ModeGraphics = "graphics"
)

// DetectProtocol inspects the terminal environment variables
func DetectProtocol() GraphicsProtocol {
	term := strings.ToLower(os.Getenv("TERM"))
	termProgram := strings.ToLower(os.Getenv("TERM_PROGRAM"))

	if os.Getenv("KITTY_WINDOW_ID") != "" || strings.Contains(term, "kitty") {
		return ProtocolKitty
	}
	// Ghostty speaks the kitty protocol
	if os.Getenv("GHOSTTY") != "" || termProgram == "ghostty" || strings.Contains(term, "ghostty") {
		return ProtocolKitty
	}
	if termProgram == "iterm.app" || termProgram == "wezterm" {
		return ProtocolITerm
	}
	for _, sixelTerm := range []string{"xterm-sixel", "mlterm", "yaft"} {
		if strings.Contains(term, sixelTerm) {
			return ProtocolSixel
		}
	}
	return ProtocolNone
}

// ResolveProtocol maps a render mode to the protocol actually used.
// Auto only uses graphics on kitty-compatible terminals; ANSI blocks otherwise.
func ResolveProtocol(mode string, detected GraphicsProtocol) GraphicsProtocol {
	switch mode {
	case ModeText:
		return ProtocolNone
	case ModeGraphics:
		return detected
	default:
		if detected == ProtocolKitty {
			return ProtocolKitty
		}
		return ProtocolNone
	}
}

package theme

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// URLColorCode is the ANSI 256 color used for links
const URLColorCode = "51"

// FormatClickableURL formats a URL as a clickable hyperlink with terminal-compatible colors
func FormatClickableURL(displayText, link string) string {
	// OSC 8 escape sequence for hyperlinks: \033]8;;url\033\\text\033]8;;\033\\
	hyperlink := fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", link, displayText)
	return fmt.Sprintf("\033[38;5;%sm\033[4m%s\033[0m", URLColorCode, hyperlink)
}

// FileURL returns a file:// URL for a local path
func FileURL(localPath string) string {
	abs, err := filepath.Abs(localPath)
	if err != nil {
		abs = localPath
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

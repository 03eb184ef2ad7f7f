package utils

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count for display; unknown sizes render as "-"
func FormatSize(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// Truncate shortens s to at most width runes, marking the cut with "..."
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

// IsBinary reports whether content looks like binary data rather than text
func IsBinary(content string) bool {
	sample := content
	if len(sample) > 8000 {
		sample = sample[:8000]
	}
	return strings.IndexByte(sample, 0) >= 0
}

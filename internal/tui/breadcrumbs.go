package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
	tuiconfig "github.com/HaiFongPan/xtal-cli/internal/tui/config"
	"github.com/HaiFongPan/xtal-cli/internal/tui/theme"
)

// crumbSpan is the screen column range [start, end) a crumb occupies
type crumbSpan struct {
	start int
	end   int
}

// renderCrumbs draws the breadcrumb line and returns where each crumb landed
func renderCrumbs(crumbs []browser.Breadcrumb) (string, []crumbSpan) {
	var b strings.Builder
	spans := make([]crumbSpan, len(crumbs))
	sepStyle := theme.CreateSecondaryTextStyle()
	sepWidth := lipgloss.Width(theme.CrumbSeparator)

	b.WriteString(strings.Repeat(" ", tuiconfig.BreadcrumbIndent))
	x := tuiconfig.BreadcrumbIndent
	for i, crumb := range crumbs {
		if i > 0 {
			b.WriteString(sepStyle.Render(theme.CrumbSeparator))
			x += sepWidth
		}
		width := lipgloss.Width(crumb.Label)
		spans[i] = crumbSpan{start: x, end: x + width}
		b.WriteString(theme.CreateCrumbStyle(crumb.Active).Render(crumb.Label))
		x += width
	}
	return b.String(), spans
}

// crumbAt returns the index of the crumb under column x, or -1
func crumbAt(spans []crumbSpan, x int) int {
	for i, span := range spans {
		if x >= span.start && x < span.end {
			return i
		}
	}
	return -1
}

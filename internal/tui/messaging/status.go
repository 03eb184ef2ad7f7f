package messaging

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/tui/theme"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

// Level is the severity of the status line
type Level int

// Levels share their values with the theme's message kinds
const (
	LevelInfo    Level = theme.MessageInfo
	LevelSuccess Level = theme.MessageSuccess
	LevelWarning Level = theme.MessageWarning
	LevelError   Level = theme.MessageError
)

// Origin records who wrote the status line
type Origin int

const (
	// OriginSelection covers download progress and download notices
	OriginSelection Origin = iota
	// OriginAction covers one-shot key feedback such as copying a path
	OriginAction
)

// StatusLine is the single feedback line under the browser panels
type StatusLine struct {
	text   string
	level  Level
	origin Origin
	link   string
}

func NewStatusLine() *StatusLine {
	return &StatusLine{}
}

// Set replaces the line. Repeating the current line is a no-op.
func (s *StatusLine) Set(origin Origin, text string, level Level) {
	if s.text == text && s.level == level && s.origin == origin {
		return
	}
	s.text = text
	s.level = level
	s.origin = origin
	s.link = ""

	logrus.WithFields(logrus.Fields{
		"message": text,
		"level":   level,
		"origin":  origin,
	}).Debug("status line set")
}

func (s *StatusLine) Clear() {
	s.text = ""
	s.link = ""
}

// Attach renders localPath as a file hyperlink wherever it shows in the line
func (s *StatusLine) Attach(localPath string) {
	s.link = localPath
}

// Link returns the attached local path
func (s *StatusLine) Link() string {
	return s.link
}

// ClearFrom drops the line only when origin wrote it
func (s *StatusLine) ClearFrom(origin Origin) {
	if s.origin == origin {
		s.Clear()
	}
}

// Get returns the line, its level and whether there is one
func (s *StatusLine) Get() (string, Level, bool) {
	return s.text, s.level, s.text != ""
}

func (s *StatusLine) Empty() bool {
	return s.text == ""
}

// Origin returns who wrote the current line
func (s *StatusLine) Origin() Origin {
	return s.origin
}

// View renders the line with its icon, cut to width columns when width is positive
func (s *StatusLine) View(width int) string {
	if s.Empty() {
		return ""
	}

	icon := theme.GetMessageIcon(int(s.level))
	text := s.text
	if width > 0 {
		text = utils.Truncate(text, width-lipgloss.Width(icon)-1)
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.GetMessageColor(int(s.level)))).
		Bold(true)

	// a path cut by truncation stays plain text
	if s.link != "" {
		if before, after, found := strings.Cut(text, s.link); found {
			link := theme.FormatClickableURL(s.link, theme.FileURL(s.link))
			return style.Render(fmt.Sprintf("%s %s", icon, before)) + link + style.Render(after)
		}
	}
	return style.Render(fmt.Sprintf("%s %s", icon, text))
}

// NoticeLevel maps selection feedback onto a level; false for an empty notice
func NoticeLevel(kind browser.NoticeKind) (Level, bool) {
	switch kind {
	case browser.NoticeInfo:
		return LevelSuccess, true
	case browser.NoticeError:
		return LevelError, true
	default:
		return 0, false
	}
}

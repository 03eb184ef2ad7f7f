package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
	"github.com/HaiFongPan/xtal-cli/internal/tui/theme"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

// PreviewModal is a fullscreen view of a text preview
type PreviewModal struct {
	width    int
	height   int
	preview  browser.Preview
	viewport viewport.Model
	tr       i18n.Translator
	close    key.Binding
}

// NewPreviewModal creates a modal for preview sized to the window
func NewPreviewModal(preview browser.Preview, tr i18n.Translator, width, height int) *PreviewModal {
	// Reserve 2 lines for the title and 1 for the hint
	vp := viewport.New(max(1, width-2), max(1, height-3))
	vp.SetContent(previewBody(preview, tr))

	return &PreviewModal{
		width:    width,
		height:   height,
		preview:  preview,
		viewport: vp,
		tr:       tr,
		close: key.NewBinding(
			key.WithKeys("esc", "q", "v"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Update handles a message and reports whether the modal should close
func (m *PreviewModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.close) {
		return true, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return false, cmd
}

// Resize fits the modal to a new window size
func (m *PreviewModal) Resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(1, width-2)
	m.viewport.Height = max(1, height-3)
}

// Path returns the path of the previewed file
func (m *PreviewModal) Path() string {
	return m.preview.Path
}

func (m *PreviewModal) View() string {
	titleStyle := theme.CreateHeaderStyle()
	title := fmt.Sprintf("📝 %s", m.preview.Name)
	if m.preview.Size > 0 {
		title += fmt.Sprintf("  %s", utils.FormatSize(m.preview.Size))
	}

	hint := fmt.Sprintf("%3.f%% • %s", m.viewport.ScrollPercent()*100, m.close.Help().Key+" close")
	if m.preview.Truncated {
		hint = m.tr.Translate("preview.truncated", map[string]any{"size": utils.FormatSize(m.preview.Size)}) + " • " + hint
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		"",
		lipgloss.NewStyle().MarginLeft(1).Render(m.viewport.View()),
		theme.CreateFooterStyle().Render(hint),
	)
}

// previewBody returns the displayable text of a preview
func previewBody(preview browser.Preview, tr i18n.Translator) string {
	if utils.IsBinary(preview.Content) {
		return tr.Translate("preview.binary", nil)
	}
	return strings.ReplaceAll(preview.Content, "\t", "    ")
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
	tuiconfig "github.com/HaiFongPan/xtal-cli/internal/tui/config"
	"github.com/HaiFongPan/xtal-cli/internal/tui/theme"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

// View implements the bubbletea.Model interface
func (m *BrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.modal != nil {
		return m.modal.View()
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLeftPanel(m.leftWidth()),
		m.renderRightPanel(m.rightWidth()),
	)
	baseView := m.renderHeader() + "\n" + content + "\n" + m.renderFooter()

	if m.showHelp {
		return m.renderFloatingDialog(m.renderHelpDialog())
	}
	return baseView
}

// renderHeader draws the title line, the breadcrumbs and a spacer
func (m *BrowserModel) renderHeader() string {
	title := m.title
	if m.nav.State().Loading {
		title += " " + m.spinner.View()
	}
	crumbs, _ := renderCrumbs(m.nav.Breadcrumbs())
	return theme.CreateHeaderStyle().Render(title) + "\n" + crumbs + "\n"
}

// renderLeftPanel renders the entry table
func (m *BrowserModel) renderLeftPanel(width int) string {
	panel := lipgloss.NewStyle().Width(width).Height(m.bodyHeight)
	state := m.nav.State()

	switch {
	case state.Err != "":
		return panel.Render(theme.CreateErrorStyle().Render("❌ " + state.Err))
	case state.Loading && state.Listing == nil:
		return panel.Render(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s %s", m.spinner.View(), m.tr.Translate("browser.loading", nil))))
	case state.Listing != nil && len(state.Listing.Entries) == 0:
		view := m.fileTable.View() + "\n" + theme.CreateSecondaryTextStyle().Render(m.tr.Translate("browser.empty", nil))
		return panel.Render(view)
	}

	count := 0
	if state.Listing != nil {
		count = len(state.Listing.Entries)
	}
	view := m.fileTable.View() + "\n" +
		theme.CreateSecondaryTextStyle().Render(m.tr.Translate("browser.entries", map[string]any{"count": count}))
	return panel.Render(view)
}

// renderRightPanel renders the detail panel for the active selection
func (m *BrowserModel) renderRightPanel(width int) string {
	var b strings.Builder
	titleStyle := theme.CreateSectionHeaderStyle()
	loadingStyle := theme.CreateLoadingStyle()
	errorStyle := theme.CreateErrorStyle()

	switch sel := m.selection.State().(type) {
	case browser.LoadingPreview:
		b.WriteString(titleStyle.Render("📝 " + baseName(sel.Path)))
		b.WriteString("\n")
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.tr.Translate("preview.loading", nil))))

	case browser.Preview:
		title := "📝 " + sel.Name
		if sel.Size > 0 {
			title += "  " + utils.FormatSize(sel.Size)
		}
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(m.previewViewport.View())
		b.WriteString("\n")
		hint := m.tr.Translate("preview.expand_hint", nil)
		if sel.Truncated {
			hint = m.tr.Translate("preview.truncated", map[string]any{"size": utils.FormatSize(sel.Size)}) + " • " + hint
		}
		b.WriteString(theme.CreateSecondaryTextStyle().Render(hint))

	case browser.PreviewError:
		b.WriteString(titleStyle.Render("📝 " + baseName(sel.Path)))
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(sel.Message))

	case browser.Downloading:
		b.WriteString(titleStyle.Render("📥 " + baseName(sel.Path)))
		b.WriteString("\n")
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(),
			m.tr.Translate("notice.downloading", map[string]any{"name": baseName(sel.Path)}))))

	default:
		b.WriteString(m.renderStructure())
	}

	return theme.CreateRightPanelStyle(width - 1).Height(m.bodyHeight).Render(b.String())
}

// renderStructure renders the effective scene, or the highlighted entry when there is none
func (m *BrowserModel) renderStructure() string {
	var b strings.Builder
	titleStyle := theme.CreateSectionHeaderStyle()
	eff := m.effectiveScene()

	title := m.tr.Translate("structure.title", nil)
	if eff.Filename != "" {
		title = "💎 " + eff.Filename
		if !eff.Remote {
			title = "💎 " + m.tr.Translate("structure.external", map[string]any{"filename": eff.Filename})
		}
	}

	region := m.bridge.Region()
	switch {
	case eff.Loading:
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s %s", m.spinner.View(), m.tr.Translate("structure.loading", nil))))

	case eff.Err != "":
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(theme.CreateErrorStyle().Render(eff.Err))

	case eff.Renderable() && region.Rendered():
		b.WriteString(titleStyle.Render(title))
		b.WriteString("\n")
		if output := region.Output(); output != "" {
			b.WriteString(output)
			b.WriteString("\n")
			b.WriteString(theme.CreateSecondaryTextStyle().Render(m.tr.Translate("structure.rotate_hint", nil)))
		} else {
			b.WriteString(theme.CreateLoadingStyle().Render(fmt.Sprintf("%s %s", m.spinner.View(), m.tr.Translate("structure.loading", nil))))
		}

	default:
		b.WriteString(m.renderEntryInfo())
	}
	return b.String()
}

// renderEntryInfo describes the highlighted row
func (m *BrowserModel) renderEntryInfo() string {
	var b strings.Builder
	row, ok := m.cursorRow()
	if !ok || row.up {
		b.WriteString(theme.CreateSectionHeaderStyle().Render(m.tr.Translate("structure.title", nil)))
		b.WriteString("\n")
		b.WriteString(theme.CreateSecondaryTextStyle().Render(m.tr.Translate("structure.select_hint", nil)))
		return b.String()
	}

	category := entryCategory(row.entry)
	info := theme.CreateInfoTextStyle()
	b.WriteString(theme.CreateSectionHeaderStyle().Render(fmt.Sprintf("%s %s", theme.GetCategoryIcon(category), row.entry.Name)))
	b.WriteString("\n")
	b.WriteString(info.Render(fmt.Sprintf("Path: %s", row.entry.Path)))
	b.WriteString("\n")
	b.WriteString(info.Render(fmt.Sprintf("Type: %s", category)))
	if !row.entry.IsDir() {
		b.WriteString("\n")
		b.WriteString(info.Render(fmt.Sprintf("Size: %s", utils.FormatSize(row.entry.Size))))
		b.WriteString("\n")
		b.WriteString(info.Render(fmt.Sprintf("Action: %s", m.selection.Policy().Classify(row.entry, m.allowedExtensions()))))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.CreateSecondaryTextStyle().Render(m.tr.Translate("structure.select_hint", nil)))
	return b.String()
}

func (m *BrowserModel) allowedExtensions() []string {
	if listing := m.nav.State().Listing; listing != nil {
		return listing.AllowedExtensions
	}
	return nil
}

// renderFooter draws the status line and the short help
func (m *BrowserModel) renderFooter() string {
	footerStyle := theme.CreateFooterStyle()
	return footerStyle.Render(m.status.View(m.windowWidth)) + "\n" +
		footerStyle.Render(m.help.ShortHelpView(m.keyMap.ShortHelp()))
}

// renderFloatingDialog centers a dialog over the window
func (m *BrowserModel) renderFloatingDialog(dialog string) string {
	return lipgloss.Place(
		m.windowWidth,
		m.windowHeight,
		lipgloss.Center,
		lipgloss.Center,
		dialog,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#222222")),
	)
}

// renderHelpDialog renders the help dialog using bubbles components
func (m *BrowserModel) renderHelpDialog() string {
	title := theme.CreateDialogTitleStyle(theme.ColorBrightYellow).Render("💎 " + m.tr.Translate("help.title", nil))
	helpContent := m.help.FullHelpView(m.keyMap.FullHelp())
	m.helpViewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, title, helpContent))

	instructions := theme.CreateInstructionStyle().Render(m.tr.Translate("help.close", nil))
	dialogContent := lipgloss.JoinVertical(lipgloss.Left, m.helpViewport.View(), instructions)

	return theme.CreateFloatingDialogStyle(min(tuiconfig.DialogLargeWidth, m.windowWidth-10), theme.ColorBrightYellow).Render(dialogContent)
}

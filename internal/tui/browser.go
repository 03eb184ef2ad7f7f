package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
	"github.com/HaiFongPan/xtal-cli/internal/render"
	tuiconfig "github.com/HaiFongPan/xtal-cli/internal/tui/config"
	"github.com/HaiFongPan/xtal-cli/internal/tui/messaging"
	"github.com/HaiFongPan/xtal-cli/internal/tui/theme"
	"github.com/HaiFongPan/xtal-cli/internal/utils"
)

// Options wires the browser model to its collaborators
type Options struct {
	Backend       api.Backend
	Tokens        auth.Source
	Translator    i18n.Translator
	Policy        browser.PreviewPolicy
	Engine        render.Engine
	Height        float64
	FrameInterval time.Duration
	StartPath     string
	// ScenePath is a local scene file shown while nothing is selected remotely
	ScenePath string
	Title     string
}

// rowEntry is one table row; up marks the synthetic parent row
type rowEntry struct {
	entry api.DirectoryEntry
	up    bool
}

// BrowserModel is the interactive remote structure browser
type BrowserModel struct {
	nav       *browser.NavigationSession
	selection *browser.SelectionController
	bridge    *render.Bridge
	tr        i18n.Translator
	status    *messaging.StatusLine
	copy      func(string) error

	external  browser.ExternalScene
	scenePath string
	startPath string
	title     string

	rows        []rowEntry
	shownList   *api.DirectoryListing
	previewPath string

	windowWidth  int
	windowHeight int
	bodyHeight   int
	showHelp     bool
	modal        *PreviewModal
	quitting     bool

	fileTable       table.Model
	keyMap          KeyMap
	help            help.Model
	spinner         spinner.Model
	previewViewport viewport.Model
	helpViewport    viewport.Model
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(opts Options) *BrowserModel {
	tr := opts.Translator
	if tr == nil {
		tr = i18n.Default()
	}
	policy := opts.Policy
	if policy == nil {
		policy = browser.StructurePolicy{}
	}
	title := opts.Title
	if title == "" {
		title = tr.Translate("browser.title", nil)
	}

	nav := browser.NewNavigationSession(opts.Backend, opts.Tokens, tr)
	selection := browser.NewSelectionController(opts.Backend, opts.Tokens, tr, policy, nav)

	t := table.New(
		table.WithColumns(tableColumns(tuiconfig.MinColumnNameWidth)),
		table.WithHeight(tuiconfig.DefaultTableHeight),
		table.WithFocused(true),
		table.WithStyles(theme.CreateTableStyles()),
	)

	// Initialize spinner for loading states
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.CreateLoadingStyle()

	h := help.New()
	h.ShowAll = false

	vp := viewport.New(tuiconfig.DialogLargeWidth-10, 15)

	m := &BrowserModel{
		nav:             nav,
		selection:       selection,
		bridge:          render.NewBridge(opts.Engine, opts.Height, opts.FrameInterval),
		tr:              tr,
		status:          messaging.NewStatusLine(),
		copy:            utils.CopyToClipboard,
		scenePath:       opts.ScenePath,
		startPath:       opts.StartPath,
		title:           title,
		windowWidth:     80,
		windowHeight:    24,
		fileTable:       t,
		keyMap:          DefaultKeyMap(),
		help:            h,
		spinner:         s,
		previewViewport: viewport.New(40, 10),
		helpViewport:    vp,
	}
	if opts.ScenePath != "" {
		m.external = browser.ExternalScene{Loading: true, Filename: baseName(opts.ScenePath)}
	}
	m.layout(m.windowWidth, m.windowHeight)
	return m
}

// Init implements the bubbletea.Model interface
func (m *BrowserModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.nav.NavigateTo(m.startPath),
		m.spinner.Tick,
		m.bridge.WaitForPaint(),
	}
	if m.scenePath != "" {
		cmds = append(cmds, LoadSceneFile(m.scenePath))
	}
	return tea.Batch(cmds...)
}

// CurrentPath returns the directory the browser shows
func (m *BrowserModel) CurrentPath() string {
	return m.nav.State().CurrentPath
}

// Update implements the bubbletea.Model interface
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		if m.quitting {
			return m, cmd
		}
		return m, m.withSync(cmd)

	case tea.MouseMsg:
		return m, m.withSync(m.handleMouse(msg))

	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		if m.modal != nil {
			m.modal.Resize(msg.Width, msg.Height)
		}
		return m, m.bridge.Resize(m.canvasBox())

	case browser.ListingLoadedMsg, browser.PreviewLoadedMsg, browser.StructureLoadedMsg, browser.DownloadFinishedMsg:
		if m.selection.Update(msg) {
			m.refreshRows()
			m.syncStatus()
			m.syncPreview()
		}
		return m, m.withSync(nil)

	case ExternalSceneMsg:
		m.applyExternal(msg)
		return m, m.withSync(nil)

	case render.PaintedMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.bridge.WaitForPaint()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, m.bridge.Update(msg)
	}
}

// withSync batches cmd with a bridge sync against the current effective scene
func (m *BrowserModel) withSync(cmd tea.Cmd) tea.Cmd {
	return tea.Batch(cmd, m.bridge.Sync(m.effectiveScene()))
}

func (m *BrowserModel) effectiveScene() browser.EffectiveScene {
	return browser.Resolve(m.selection.State(), m.external)
}

// handleKey handles keyboard input
func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.modal != nil {
		closed, cmd := m.modal.Update(msg)
		if closed {
			m.modal = nil
		}
		return cmd
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keyMap.Help), key.Matches(msg, m.keyMap.Close), key.Matches(msg, m.keyMap.Quit):
			m.showHelp = false
			return nil
		}
		var cmd tea.Cmd
		m.helpViewport, cmd = m.helpViewport.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		m.bridge.Teardown()
		return tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		m.helpViewport.GotoTop()
		return nil

	case key.Matches(msg, m.keyMap.Up):
		m.fileTable.MoveUp(1)
	case key.Matches(msg, m.keyMap.Down):
		m.fileTable.MoveDown(1)
	case key.Matches(msg, m.keyMap.PageUp):
		m.fileTable.MoveUp(m.fileTable.Height())
	case key.Matches(msg, m.keyMap.PageDown):
		m.fileTable.MoveDown(m.fileTable.Height())
	case key.Matches(msg, m.keyMap.Home):
		m.fileTable.GotoTop()
	case key.Matches(msg, m.keyMap.End):
		m.fileTable.GotoBottom()

	case key.Matches(msg, m.keyMap.Open):
		return m.activateCursor()

	case key.Matches(msg, m.keyMap.Parent):
		return m.afterAction(m.nav.GoToParent())

	case key.Matches(msg, m.keyMap.Refresh):
		return m.afterAction(m.nav.Refresh())

	case key.Matches(msg, m.keyMap.Download):
		row, ok := m.cursorRow()
		if !ok || row.up || row.entry.IsDir() {
			return nil
		}
		return m.afterAction(m.selection.Download(row.entry))

	case key.Matches(msg, m.keyMap.CopyPath):
		m.copyCursorPath()

	case key.Matches(msg, m.keyMap.Expand):
		if preview, ok := m.selection.State().(browser.Preview); ok {
			m.modal = NewPreviewModal(preview, m.tr, m.windowWidth, m.windowHeight)
		}

	case key.Matches(msg, m.keyMap.Close):
		m.selection.Clear()
		m.status.Clear()

	case key.Matches(msg, m.keyMap.RotateLeft):
		m.bridge.Rotate(-tuiconfig.RotateStep, 0)
	case key.Matches(msg, m.keyMap.RotateRight):
		m.bridge.Rotate(tuiconfig.RotateStep, 0)
	case key.Matches(msg, m.keyMap.TiltUp):
		m.bridge.Rotate(0, tuiconfig.RotateStep)
	case key.Matches(msg, m.keyMap.TiltDown):
		m.bridge.Rotate(0, -tuiconfig.RotateStep)
	}
	return nil
}

// handleMouse handles breadcrumb clicks and wheel scrolling
func (m *BrowserModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.modal != nil || m.showHelp {
		return nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.fileTable.MoveUp(1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.fileTable.MoveDown(1)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == tuiconfig.BreadcrumbRow:
		_, spans := renderCrumbs(m.nav.Breadcrumbs())
		if i := crumbAt(spans, msg.X); i >= 0 {
			return m.afterAction(m.nav.ActivateCrumb(i))
		}
	}
	return nil
}

// activateCursor opens the highlighted row
func (m *BrowserModel) activateCursor() tea.Cmd {
	row, ok := m.cursorRow()
	if !ok {
		return nil
	}
	if row.up {
		return m.afterAction(m.nav.GoToParent())
	}
	return m.afterAction(m.selection.Activate(row.entry))
}

// afterAction refreshes derived view state after a navigation or selection action
func (m *BrowserModel) afterAction(cmd tea.Cmd) tea.Cmd {
	m.status.Clear()
	m.refreshRows()
	m.syncStatus()
	m.syncPreview()
	return cmd
}

func (m *BrowserModel) copyCursorPath() {
	row, ok := m.cursorRow()
	if !ok || row.up {
		return
	}
	if err := m.copy(row.entry.Path); err != nil {
		logrus.WithError(err).WithField("path", row.entry.Path).Warn("failed to copy path")
		m.status.Set(messaging.OriginAction, m.tr.Translate("errors.clipboard", nil), messaging.LevelError)
		return
	}
	m.status.Set(messaging.OriginAction, m.tr.Translate("notice.copied", map[string]any{"path": row.entry.Path}), messaging.LevelSuccess)
}

// applyExternal records a scene supplied from outside the browser
func (m *BrowserModel) applyExternal(msg ExternalSceneMsg) {
	if msg.Err != nil {
		logrus.WithError(msg.Err).WithField("filename", msg.Filename).Warn("failed to load scene file")
		m.external = browser.ExternalScene{
			Filename: msg.Filename,
			Err:      m.tr.Translate("errors.scene_file", map[string]any{"filename": msg.Filename}),
		}
		return
	}
	m.external = browser.ExternalScene{Scene: msg.Scene, Filename: msg.Filename}
}

// syncStatus mirrors the selection's side channel into the status line
func (m *BrowserModel) syncStatus() {
	if downloading, ok := m.selection.State().(browser.Downloading); ok {
		m.status.Set(messaging.OriginSelection,
			m.tr.Translate("notice.downloading", map[string]any{"name": baseName(downloading.Path)}), messaging.LevelInfo)
		return
	}

	notice := m.selection.Notice()
	if level, ok := messaging.NoticeLevel(notice.Kind); ok {
		m.status.Set(messaging.OriginSelection, notice.Text, level)
		if notice.Path != "" {
			m.status.Attach(notice.Path)
		}
		return
	}
	m.status.ClearFrom(messaging.OriginSelection)
}

// syncPreview loads a newly arrived preview into the viewport
func (m *BrowserModel) syncPreview() {
	preview, ok := m.selection.State().(browser.Preview)
	if !ok {
		m.previewPath = ""
		return
	}
	if preview.Path == m.previewPath {
		return
	}
	m.previewPath = preview.Path
	m.previewViewport.SetContent(previewBody(preview, m.tr))
	m.previewViewport.GotoTop()
}

// refreshRows rebuilds the table when the listing has been replaced
func (m *BrowserModel) refreshRows() {
	listing := m.nav.State().Listing
	if listing == m.shownList {
		return
	}
	m.shownList = listing

	m.rows = m.rows[:0]
	if listing != nil {
		if listing.HasParent() {
			m.rows = append(m.rows, rowEntry{up: true, entry: api.DirectoryEntry{
				Name: theme.ParentRowLabel,
				Path: *listing.Parent,
				Type: api.EntryDirectory,
			}})
		}
		for _, entry := range listing.Entries {
			m.rows = append(m.rows, rowEntry{entry: entry})
		}
	}
	m.updateTable()
	m.fileTable.GotoTop()
}

// updateTable updates table data from the rows
func (m *BrowserModel) updateTable() {
	nameWidth := m.fileTable.Columns()[0].Width
	rows := make([]table.Row, len(m.rows))
	for i, row := range m.rows {
		if row.up {
			rows[i] = table.Row{"⬆️ ..", m.tr.Translate("browser.up", nil), ""}
			continue
		}

		category := entryCategory(row.entry)
		name := utils.Truncate(row.entry.Name, nameWidth-3)
		coloredName := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.GetFileColor(category))).Render(name)

		size := ""
		if !row.entry.IsDir() {
			size = utils.FormatSize(row.entry.Size)
		}
		rows[i] = table.Row{
			fmt.Sprintf("%s %s", theme.GetCategoryIcon(category), coloredName),
			strings.ToUpper(category),
			size,
		}
	}
	m.fileTable.SetRows(rows)
}

// cursorRow returns the highlighted row
func (m *BrowserModel) cursorRow() (rowEntry, bool) {
	cursor := m.fileTable.Cursor()
	if cursor < 0 || cursor >= len(m.rows) {
		return rowEntry{}, false
	}
	return m.rows[cursor], true
}

// layout recomputes component sizes for a window size
func (m *BrowserModel) layout(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.bodyHeight = max(3, height-tuiconfig.HeaderHeight-tuiconfig.FooterHeight)

	left := m.leftWidth()
	// table height excludes its header and the count line
	m.fileTable.SetColumns(tableColumns(left - tuiconfig.DefaultColumnSizeWidth - tuiconfig.DefaultColumnTypeWidth - 4))
	m.fileTable.SetHeight(max(1, m.bodyHeight-3))
	m.updateTable()

	m.previewViewport.Width = max(1, m.rightWidth()-tuiconfig.DetailPaddingLeft-tuiconfig.DetailPaddingRight)
	m.previewViewport.Height = max(1, m.bodyHeight-tuiconfig.DetailTitleHeight-1)

	m.helpViewport.Width = min(tuiconfig.DialogLargeWidth-10, width-10)
	m.helpViewport.Height = min(15, height-10)
}

func (m *BrowserModel) leftWidth() int {
	return int(float64(m.windowWidth) * tuiconfig.LeftPanelWidthRatio)
}

func (m *BrowserModel) rightWidth() int {
	return m.windowWidth - m.leftWidth() - tuiconfig.PanelSeparatorWidth
}

// canvasBox measures the detail panel area the structure is drawn into
func (m *BrowserModel) canvasBox() render.ContainerBox {
	right := float64(m.rightWidth())
	return render.ContainerBox{
		Width:        right,
		Height:       float64(m.bodyHeight - tuiconfig.DetailTitleHeight - 1),
		ClientWidth:  right,
		PaddingLeft:  tuiconfig.DetailPaddingLeft,
		PaddingRight: tuiconfig.DetailPaddingRight,
	}
}

func tableColumns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "NAME", Width: max(nameWidth, tuiconfig.MinColumnNameWidth)},
		{Title: "TYPE", Width: tuiconfig.DefaultColumnTypeWidth},
		{Title: "SIZE", Width: tuiconfig.DefaultColumnSizeWidth},
	}
}

// entryCategory classifies an entry for icons and colors
func entryCategory(entry api.DirectoryEntry) string {
	switch entry.Type {
	case api.EntryDirectory:
		return "directory"
	case api.EntrySymlink:
		return "symlink"
	}
	return utils.GetFileCategory(utils.DetectContentType(entry.Name))
}

func baseName(p string) string {
	p = strings.TrimRight(p, "/\\")
	if idx := strings.LastIndexAny(p, "/\\"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

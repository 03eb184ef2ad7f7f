package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
	"github.com/HaiFongPan/xtal-cli/internal/render"
	tuiconfig "github.com/HaiFongPan/xtal-cli/internal/tui/config"
	"github.com/HaiFongPan/xtal-cli/internal/tui/messaging"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListDirectory(ctx context.Context, token, path string) (*api.DirectoryListing, error) {
	args := m.Called(ctx, token, path)
	listing, _ := args.Get(0).(*api.DirectoryListing)
	return listing, args.Error(1)
}

func (m *MockBackend) GetFilePreview(ctx context.Context, token, path string) (*api.FilePreview, error) {
	args := m.Called(ctx, token, path)
	preview, _ := args.Get(0).(*api.FilePreview)
	return preview, args.Error(1)
}

func (m *MockBackend) GetStructureScene(ctx context.Context, token, path string) (*api.StructureScene, error) {
	args := m.Called(ctx, token, path)
	scene, _ := args.Get(0).(*api.StructureScene)
	return scene, args.Error(1)
}

func (m *MockBackend) DownloadFile(ctx context.Context, token, path string) (string, error) {
	args := m.Called(ctx, token, path)
	return args.String(0), args.Error(1)
}

// fakeEngine paints synchronously and records mounts
type fakeEngine struct {
	mounts   int
	unmounts int
	size     int
	scene    json.RawMessage
}

func (e *fakeEngine) Mount(region *render.Region, scene json.RawMessage, size int) error {
	e.mounts++
	e.size = size
	e.scene = scene
	region.Paint("<structure>")
	return nil
}

func (e *fakeEngine) Unmount(*render.Region) {
	e.unmounts++
}

func createTestBrowser(t *testing.T, policy browser.PreviewPolicy) (*BrowserModel, *MockBackend, *fakeEngine) {
	t.Helper()
	backend := &MockBackend{}
	engine := &fakeEngine{}
	model := NewBrowserModel(Options{
		Backend:       backend,
		Tokens:        auth.NewStaticSource("tok"),
		Translator:    i18n.Default(),
		Policy:        policy,
		Engine:        engine,
		Height:        40,
		FrameInterval: time.Millisecond,
	})
	model.copy = func(string) error { return nil }
	return model, backend, engine
}

func cellsListing() *api.DirectoryListing {
	parent := "data"
	return &api.DirectoryListing{
		Path:   "data/cells",
		Parent: &parent,
		Entries: []api.DirectoryEntry{
			{Name: "old", Path: "data/cells/old", Type: api.EntryDirectory},
			{Name: "NaCl.cif", Path: "data/cells/NaCl.cif", Type: api.EntryFile, Size: 2048},
			{Name: "notes.txt", Path: "data/cells/notes.txt", Type: api.EntryFile, Size: 12},
		},
	}
}

// loadListing runs a navigation through the model as the program would
func loadListing(t *testing.T, m *BrowserModel, backend *MockBackend, listing *api.DirectoryListing) {
	t.Helper()
	backend.On("ListDirectory", mock.Anything, "tok", listing.Path).Return(listing, nil).Once()
	cmd := m.nav.NavigateTo(listing.Path)
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserModel_ListingFillsTable(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	require.Len(t, m.rows, 4)
	assert.True(t, m.rows[0].up)
	assert.Equal(t, "NaCl.cif", m.rows[2].entry.Name)
	assert.Equal(t, "data/cells", m.CurrentPath())

	view := m.View()
	assert.Contains(t, view, "NaCl.cif")
	assert.Contains(t, view, "3 entries")
	backend.AssertExpectations(t)
}

func TestBrowserModel_StructureSelectionMountsScene(t *testing.T) {
	m, backend, engine := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(2)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, browser.LoadingStructure{Path: "data/cells/NaCl.cif"}, m.selection.State())
	assert.Equal(t, 0, engine.mounts)
	assert.Contains(t, m.View(), "Loading structure...")

	scene := json.RawMessage(`{"name": "NaCl", "contents": []}`)
	m.Update(browser.StructureLoadedMsg{
		Path:  "data/cells/NaCl.cif",
		Name:  "NaCl.cif",
		Scene: &api.StructureScene{Scene: scene},
	})

	assert.Equal(t, 1, engine.mounts)
	assert.Equal(t, 40, engine.size)
	assert.JSONEq(t, string(scene), string(engine.scene))
	view := m.View()
	assert.Contains(t, view, "<structure>")
	assert.Contains(t, view, "NaCl.cif")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, browser.SelectionNone{}, m.selection.State())
	assert.Equal(t, 1, engine.unmounts)
	assert.False(t, m.bridge.Mounted())
}

func TestBrowserModel_DirectoryActivationKeepsSelection(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(2)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	loading := browser.LoadingStructure{Path: "data/cells/NaCl.cif"}
	require.Equal(t, loading, m.selection.State())

	m.fileTable.SetCursor(1)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, "data/cells/old", m.nav.Target())
	assert.True(t, m.nav.State().Loading)
	assert.Equal(t, loading, m.selection.State())
}

func TestBrowserModel_ParentRowAndKey(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(0)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "data", m.nav.Target())

	loadListing(t, m, backend, cellsListing())
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "data", m.nav.Target())
}

func TestBrowserModel_DownloadPublishesNotice(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(3)
	_, cmd := m.Update(keyRunes("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, browser.Downloading{Path: "data/cells/notes.txt"}, m.selection.State())
	msg, kind, ok := m.status.Get()
	require.True(t, ok)
	assert.Equal(t, "Downloading notes.txt...", msg)
	assert.Equal(t, messaging.LevelInfo, kind)

	m.Update(browser.DownloadFinishedMsg{Path: "data/cells/notes.txt", Saved: "/tmp/notes.txt"})
	assert.Equal(t, browser.SelectionNone{}, m.selection.State())
	msg, kind, ok = m.status.Get()
	require.True(t, ok)
	assert.Equal(t, "Saved to /tmp/notes.txt", msg)
	assert.Equal(t, messaging.LevelSuccess, kind)
	assert.Equal(t, "/tmp/notes.txt", m.status.Link())
	view := m.View()
	assert.Contains(t, view, "Saved to")
	assert.Contains(t, view, "file:///tmp/notes.txt")
}

func TestBrowserModel_DownloadIgnoresDirectories(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(1)
	m.Update(keyRunes("d"))
	assert.Equal(t, browser.SelectionNone{}, m.selection.State())
	assert.True(t, m.status.Empty())
}

func TestBrowserModel_BreadcrumbClickNavigates(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	_, spans := renderCrumbs(m.nav.Breadcrumbs())
	require.Len(t, spans, 3)

	// active crumb is not a target
	m.Update(tea.MouseMsg{X: spans[2].start, Y: tuiconfig.BreadcrumbRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.False(t, m.nav.State().Loading)

	m.Update(tea.MouseMsg{X: spans[1].start + 1, Y: tuiconfig.BreadcrumbRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.True(t, m.nav.State().Loading)
	assert.Equal(t, "data", m.nav.Target())
}

func TestBrowserModel_ExternalSceneYieldsToRemote(t *testing.T) {
	m, backend, engine := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	external := json.RawMessage(`{"name": "external", "contents": []}`)
	m.Update(ExternalSceneMsg{Scene: external, Filename: "external.json"})
	require.Equal(t, 1, engine.mounts)
	assert.JSONEq(t, string(external), string(engine.scene))
	assert.Contains(t, m.View(), "external.json")

	remote := json.RawMessage(`{"name": "remote", "contents": []}`)
	m.fileTable.SetCursor(2)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, engine.unmounts)

	m.Update(browser.StructureLoadedMsg{Path: "data/cells/NaCl.cif", Name: "NaCl.cif", Scene: &api.StructureScene{Scene: remote}})
	require.Equal(t, 2, engine.mounts)
	assert.JSONEq(t, string(remote), string(engine.scene))

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, 3, engine.mounts)
	assert.JSONEq(t, string(external), string(engine.scene))
}

func TestBrowserModel_ExternalSceneError(t *testing.T) {
	m, _, engine := createTestBrowser(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})

	m.Update(ExternalSceneMsg{Filename: "broken.json", Err: errors.New("unexpected end of JSON input")})
	assert.Equal(t, "Failed to read scene file broken.json", m.external.Err)
	assert.Equal(t, 0, engine.mounts)
	assert.Contains(t, m.View(), "Failed to read scene file broken.json")
}

func TestBrowserModel_ResizeRemountsAtNewSize(t *testing.T) {
	m, _, engine := createTestBrowser(t, nil)
	m.Update(ExternalSceneMsg{Scene: json.RawMessage(`{"contents": []}`), Filename: "a.json"})
	require.Equal(t, 40, engine.size)

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	require.NotNil(t, cmd)
	_, cmd = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, engine.mounts)

	m.Update(render.FrameMsg{})
	assert.Equal(t, 2, engine.mounts)
	// 59 columns on the right minus border and padding
	assert.Equal(t, 56, engine.size)
}

func TestBrowserModel_QuitTearsDown(t *testing.T) {
	m, _, engine := createTestBrowser(t, nil)
	m.Update(ExternalSceneMsg{Scene: json.RawMessage(`{"contents": []}`), Filename: "a.json"})

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Equal(t, 1, engine.unmounts)
	assert.Empty(t, m.View())

	m.Update(ExternalSceneMsg{Scene: json.RawMessage(`{"name": "late", "contents": []}`), Filename: "b.json"})
	assert.Equal(t, 1, engine.mounts)
}

func TestBrowserModel_HelpDialog(t *testing.T) {
	m, _, _ := createTestBrowser(t, nil)

	m.Update(keyRunes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "xtal-cli help")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestBrowserModel_TextPreviewAndModal(t *testing.T) {
	m, backend, _ := createTestBrowser(t, browser.TextPolicy{Defaults: browser.DefaultTextExtensions})
	loadListing(t, m, backend, cellsListing())

	m.fileTable.SetCursor(3)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, browser.LoadingPreview{Path: "data/cells/notes.txt"}, m.selection.State())

	m.Update(browser.PreviewLoadedMsg{
		Path:    "data/cells/notes.txt",
		Name:    "notes.txt",
		Preview: &api.FilePreview{Name: "notes.txt", Content: "lattice a=5.64", Size: 12},
	})
	assert.Contains(t, m.View(), "lattice a=5.64")

	m.Update(keyRunes("v"))
	require.NotNil(t, m.modal)
	assert.Equal(t, "data/cells/notes.txt", m.modal.Path())
	assert.Contains(t, m.View(), "lattice a=5.64")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.modal)
	assert.IsType(t, browser.Preview{}, m.selection.State())
}

func TestBrowserModel_UnsupportedTextFile(t *testing.T) {
	m, backend, _ := createTestBrowser(t, browser.TextPolicy{Defaults: browser.DefaultTextExtensions})
	listing := cellsListing()
	listing.Entries = append(listing.Entries, api.DirectoryEntry{Name: "WAVECAR.bin", Path: "data/cells/WAVECAR.bin", Type: api.EntryFile})
	loadListing(t, m, backend, listing)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 40})

	m.fileTable.SetCursor(4)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Preview is not available for this file type.")
}

func TestBrowserModel_CopyPath(t *testing.T) {
	m, backend, _ := createTestBrowser(t, nil)
	loadListing(t, m, backend, cellsListing())

	var copied string
	m.copy = func(text string) error {
		copied = text
		return nil
	}
	m.fileTable.SetCursor(2)
	m.Update(keyRunes("y"))
	assert.Equal(t, "data/cells/NaCl.cif", copied)
	msg, _, _ := m.status.Get()
	assert.Equal(t, "Copied data/cells/NaCl.cif", msg)

	m.copy = func(string) error { return errors.New("no clipboard") }
	m.Update(keyRunes("y"))
	msg, kind, _ := m.status.Get()
	assert.Equal(t, "Failed to copy path", msg)
	assert.Equal(t, messaging.LevelError, kind)
}

func TestBrowserModel_MissingTokenShowsError(t *testing.T) {
	backend := &MockBackend{}
	m := NewBrowserModel(Options{
		Backend:    backend,
		Tokens:     auth.NewStaticSource(""),
		Translator: i18n.Default(),
		Engine:     &fakeEngine{},
		Height:     40,
	})

	assert.Nil(t, m.nav.NavigateTo("data"))
	assert.Contains(t, m.View(), "Authentication token is missing")
	backend.AssertNotCalled(t, "ListDirectory", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoadSceneFile(t *testing.T) {
	dir := t.TempDir()

	wrapped := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(`{"scene": {"name": "NaCl", "contents": []}}`), 0644))
	msg, ok := LoadSceneFile(wrapped)().(ExternalSceneMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "wrapped.json", msg.Filename)
	assert.JSONEq(t, `{"name": "NaCl", "contents": []}`, string(msg.Scene))

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`{"name": "KCl", "contents": []}`), 0644))
	msg = LoadSceneFile(bare)().(ExternalSceneMsg)
	require.NoError(t, msg.Err)
	assert.JSONEq(t, `{"name": "KCl", "contents": []}`, string(msg.Scene))

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0644))
	msg = LoadSceneFile(empty)().(ExternalSceneMsg)
	assert.Error(t, msg.Err)

	msg = LoadSceneFile(filepath.Join(dir, "missing.json"))().(ExternalSceneMsg)
	assert.Error(t, msg.Err)
	assert.Equal(t, "missing.json", msg.Filename)
}

func TestNewBrowserModel_ScenePathStartsLoading(t *testing.T) {
	m := NewBrowserModel(Options{
		Backend:   &MockBackend{},
		Tokens:    auth.NewStaticSource("tok"),
		Engine:    &fakeEngine{},
		Height:    40,
		ScenePath: "/tmp/scenes/NaCl.json",
	})
	assert.True(t, m.external.Loading)
	assert.Equal(t, "NaCl.json", m.external.Filename)
	assert.Contains(t, m.View(), "Loading structure...")
}

func TestCrumbAt(t *testing.T) {
	crumbs := []browser.Breadcrumb{
		{Label: "root", Path: ""},
		{Label: "data", Path: "data", Active: true},
	}
	_, spans := renderCrumbs(crumbs)
	assert.Equal(t, crumbSpan{start: 1, end: 5}, spans[0])
	assert.Equal(t, crumbSpan{start: 8, end: 12}, spans[1])
	assert.Equal(t, 0, crumbAt(spans, 1))
	assert.Equal(t, -1, crumbAt(spans, 6))
	assert.Equal(t, 1, crumbAt(spans, 11))
	assert.Equal(t, -1, crumbAt(spans, 12))
}

package browser

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/xtal-cli/internal/api"
)

var cellEntry = api.DirectoryEntry{Name: "cell.cif", Path: "data/cell.cif", Type: api.EntryFile}

func TestActivate_StructureScenario(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	payload := json.RawMessage(`{"name": "cell", "contents": []}`)
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: payload}, nil)

	cmd := f.sel.Activate(cellEntry)
	require.NotNil(t, cmd)
	assert.Equal(t, LoadingStructure{Path: "data/cell.cif"}, f.sel.State())
	assert.True(t, Resolve(f.sel.State(), ExternalScene{}).Loading)

	require.True(t, f.sel.Update(cmd()))
	assert.Equal(t, Structure{Path: "data/cell.cif", Name: "cell.cif", Scene: payload}, f.sel.State())

	eff := Resolve(f.sel.State(), ExternalScene{Scene: json.RawMessage(`{"name": "external"}`)})
	assert.Equal(t, payload, eff.Scene)
	assert.True(t, eff.Remote)
	assert.True(t, eff.Renderable())
}

func TestActivate_StructureNotFound(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(nil, &api.RequestError{StatusCode: 404, Detail: "Not found"})

	f.sel.Update(f.sel.Activate(cellEntry)())

	assert.Equal(t, StructureError{Path: "data/cell.cif", Message: "Not found"}, f.sel.State())
	eff := Resolve(f.sel.State(), ExternalScene{Scene: json.RawMessage(`{"name": "external"}`)})
	assert.Equal(t, "Not found", eff.Err)
	assert.Nil(t, eff.Scene)
}

func TestActivate_EmptyStructure(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: json.RawMessage(`{}`)}, nil)

	f.sel.Update(f.sel.Activate(cellEntry)())

	assert.Equal(t, StructureError{Path: "data/cell.cif", Message: "Response was empty"}, f.sel.State())
}

func TestActivate_LoadingTargetIsNotFetchedTwice(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: json.RawMessage(`{"contents": []}`)}, nil)

	first := f.sel.Activate(cellEntry)
	require.NotNil(t, first)
	assert.Nil(t, f.sel.Activate(cellEntry))
	assert.Nil(t, f.sel.Activate(cellEntry))

	first()
	f.backend.AssertNumberOfCalls(t, "GetStructureScene", 1)
}

func TestActivate_DirectoryLeavesSelection(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	payload := json.RawMessage(`{"contents": []}`)
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: payload}, nil)
	f.backend.On("ListDirectory", mock.Anything, "tok", "data/old").Return(&api.DirectoryListing{Path: "data/old", Parent: strPtr("data")}, nil)
	f.sel.Update(f.sel.Activate(cellEntry)())
	before := f.sel.State()

	cmd := f.sel.Activate(api.DirectoryEntry{Name: "old", Path: "data/old", Type: api.EntryDirectory})
	require.NotNil(t, cmd)
	assert.Equal(t, before, f.sel.State())
	assert.Equal(t, "data/old", f.nav.Target())

	// the applied navigation drops the old selection context
	f.sel.Update(cmd())
	assert.Equal(t, SelectionNone{}, f.sel.State())
}

func TestActivate_FileAfterNavigationSurvivesNavigationResult(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	payload := json.RawMessage(`{"contents": []}`)
	f.backend.On("ListDirectory", mock.Anything, "tok", "data").Return(&api.DirectoryListing{Path: "data", Parent: strPtr("")}, nil)
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: payload}, nil)

	navCmd := f.nav.NavigateTo("data")
	selCmd := f.sel.Activate(cellEntry)
	require.NotNil(t, navCmd)
	require.NotNil(t, selCmd)

	require.True(t, f.sel.Update(navCmd()))
	assert.Equal(t, "data", f.nav.State().CurrentPath)
	assert.Equal(t, LoadingStructure{Path: "data/cell.cif"}, f.sel.State())

	require.True(t, f.sel.Update(selCmd()))
	assert.Equal(t, Structure{Path: "data/cell.cif", Name: "cell.cif", Scene: payload}, f.sel.State())
}

func TestActivate_NavigationAfterFileClearsSelection(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	f.backend.On("ListDirectory", mock.Anything, "tok", "data").Return(&api.DirectoryListing{Path: "data"}, nil)
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: json.RawMessage(`{"contents": []}`)}, nil)

	selCmd := f.sel.Activate(cellEntry)
	navCmd := f.nav.NavigateTo("data")

	f.sel.Update(navCmd())
	assert.Equal(t, SelectionNone{}, f.sel.State())
	assert.False(t, f.sel.Update(selCmd()))
	assert.Equal(t, SelectionNone{}, f.sel.State())
}

func TestActivate_StaleResultIsDiscarded(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	other := api.DirectoryEntry{Name: "POSCAR", Path: "data/POSCAR", Type: api.EntryFile}
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: json.RawMessage(`{"name": "cell"}`)}, nil)
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/POSCAR").Return(&api.StructureScene{Scene: json.RawMessage(`{"name": "poscar"}`)}, nil)

	stale := f.sel.Activate(cellEntry)
	fresh := f.sel.Activate(other)

	assert.False(t, f.sel.Update(stale()))
	assert.Equal(t, LoadingStructure{Path: "data/POSCAR"}, f.sel.State())
	assert.True(t, f.sel.Update(fresh()))
	assert.Equal(t, "data/POSCAR", f.sel.State().Target())
}

func TestActivate_TextPreview(t *testing.T) {
	f := newFixture(TextPolicy{}, "tok")
	f.backend.On("GetFilePreview", mock.Anything, "tok", "notes/readme.md").Return(&api.FilePreview{Name: "readme.md", Content: "# hello"}, nil)

	cmd := f.sel.Activate(api.DirectoryEntry{Name: "readme.md", Path: "notes/readme.md", Type: api.EntryFile})
	require.NotNil(t, cmd)
	assert.Equal(t, LoadingPreview{Path: "notes/readme.md"}, f.sel.State())

	f.sel.Update(cmd())
	assert.Equal(t, Preview{Path: "notes/readme.md", Name: "readme.md", Content: "# hello"}, f.sel.State())

	// a text preview is not a remote structure, so the external scene stays in charge
	ext := ExternalScene{Scene: json.RawMessage(`{"name": "external"}`), Filename: "ext.json"}
	assert.Equal(t, EffectiveScene{Scene: ext.Scene, Filename: "ext.json"}, Resolve(f.sel.State(), ext))
}

func TestActivate_TextPreviewRejected(t *testing.T) {
	f := newFixture(TextPolicy{}, "tok")
	f.sel.notice = Notice{Kind: NoticeInfo, Text: "old"}

	cmd := f.sel.Activate(api.DirectoryEntry{Name: "notes.bin", Path: "notes.bin", Type: api.EntryFile})

	assert.Nil(t, cmd)
	assert.Equal(t, PreviewError{Path: "notes.bin", Message: "Preview is not available for this file type."}, f.sel.State())
	assert.True(t, f.sel.Notice().Empty())
	f.backend.AssertNotCalled(t, "GetFilePreview", mock.Anything, mock.Anything, mock.Anything)
}

func TestActivate_PreviewEmptyAndFailed(t *testing.T) {
	f := newFixture(TextPolicy{}, "tok")
	f.backend.On("GetFilePreview", mock.Anything, "tok", "a.txt").Return(nil, nil)
	f.backend.On("GetFilePreview", mock.Anything, "tok", "b.txt").Return(nil, &api.RequestError{})

	f.sel.Update(f.sel.Activate(api.DirectoryEntry{Name: "a.txt", Path: "a.txt", Type: api.EntryFile})())
	assert.Equal(t, PreviewError{Path: "a.txt", Message: "Response was empty"}, f.sel.State())

	f.sel.Update(f.sel.Activate(api.DirectoryEntry{Name: "b.txt", Path: "b.txt", Type: api.EntryFile})())
	assert.Equal(t, PreviewError{Path: "b.txt", Message: "Failed to load preview"}, f.sel.State())
}

func TestActivate_ServerAllowList(t *testing.T) {
	f := newFixture(TextPolicy{}, "tok")
	f.backend.On("ListDirectory", mock.Anything, "tok", "").Return(&api.DirectoryListing{AllowedExtensions: []string{"bin"}}, nil)
	f.backend.On("GetFilePreview", mock.Anything, "tok", "notes.bin").Return(&api.FilePreview{Content: "x"}, nil)
	f.sel.Update(f.nav.NavigateTo("")())

	cmd := f.sel.Activate(api.DirectoryEntry{Name: "notes.bin", Path: "notes.bin", Type: api.EntryFile})
	require.NotNil(t, cmd)
	f.sel.Update(cmd())
	assert.Equal(t, Preview{Path: "notes.bin", Name: "notes.bin", Content: "x"}, f.sel.State())
}

func TestActivate_MissingToken(t *testing.T) {
	f := newFixture(StructurePolicy{}, "")

	assert.Nil(t, f.sel.Activate(cellEntry))
	assert.Equal(t, StructureError{Path: "data/cell.cif", Message: "Authentication token is missing"}, f.sel.State())
	f.backend.AssertNotCalled(t, "GetStructureScene", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownload(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	entry := api.DirectoryEntry{Name: "run.log", Path: "data/run.log", Type: api.EntryFile}
	f.backend.On("DownloadFile", mock.Anything, "tok", "data/run.log").Return("/home/me/Downloads/run.log", nil).Once()
	f.backend.On("DownloadFile", mock.Anything, "tok", "data/run.log").Return("", errors.New("disk full")).Once()

	cmd := f.sel.Activate(entry)
	require.NotNil(t, cmd)
	assert.Equal(t, Downloading{Path: "data/run.log"}, f.sel.State())
	assert.Nil(t, f.sel.Activate(entry), "duplicate download")

	f.sel.Update(cmd())
	assert.Equal(t, SelectionNone{}, f.sel.State())
	assert.Equal(t, Notice{Kind: NoticeInfo, Text: "Saved to /home/me/Downloads/run.log", Path: "/home/me/Downloads/run.log"}, f.sel.Notice())

	f.sel.Update(f.sel.Activate(entry)())
	assert.Equal(t, Notice{Kind: NoticeError, Text: "disk full"}, f.sel.Notice())

	f.sel.Clear()
	assert.True(t, f.sel.Notice().Empty())
	assert.Equal(t, SelectionNone{}, f.sel.State())
}

func TestDownload_ClearsPreviousSelection(t *testing.T) {
	f := newFixture(StructurePolicy{}, "tok")
	f.backend.On("GetStructureScene", mock.Anything, "tok", "data/cell.cif").Return(&api.StructureScene{Scene: json.RawMessage(`{"contents": []}`)}, nil)
	f.backend.On("DownloadFile", mock.Anything, "tok", "data/run.log").Return("/tmp/run.log", nil)
	f.sel.Update(f.sel.Activate(cellEntry)())

	f.sel.Activate(api.DirectoryEntry{Name: "run.log", Path: "data/run.log", Type: api.EntryFile})

	assert.Equal(t, Downloading{Path: "data/run.log"}, f.sel.State())
	assert.False(t, Resolve(f.sel.State(), ExternalScene{}).Remote)
}

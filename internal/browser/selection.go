package browser

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
)

// SelectionController owns what is shown for the selected entry. Directory
// activations are handed to the NavigationSession.
type SelectionController struct {
	backend api.Backend
	tokens  auth.Source
	tr      i18n.Translator
	policy  PreviewPolicy
	nav     *NavigationSession

	state  Selection
	notice Notice
	// epoch counts selection actions; a navigation only clears what it started before
	epoch uint64
}

// NewSelectionController wires a controller to nav. An applied navigation clears
// the selection unless a selection action started after it was issued.
func NewSelectionController(backend api.Backend, tokens auth.Source, tr i18n.Translator, policy PreviewPolicy, nav *NavigationSession) *SelectionController {
	if policy == nil {
		policy = StructurePolicy{}
	}
	c := &SelectionController{
		backend: backend,
		tokens:  tokens,
		tr:      tr,
		policy:  policy,
		nav:     nav,
		state:   SelectionNone{},
	}
	nav.Mark = c.Epoch
	nav.OnNavigate = c.clearSince
	return c
}

// State returns the active selection variant
func (c *SelectionController) State() Selection {
	return c.state
}

// Notice returns the side-channel feedback
func (c *SelectionController) Notice() Notice {
	return c.notice
}

// Epoch returns the number of selection actions started so far
func (c *SelectionController) Epoch() uint64 {
	return c.epoch
}

func (c *SelectionController) Policy() PreviewPolicy {
	return c.policy
}

// Activate handles a click or enter on entry
func (c *SelectionController) Activate(entry api.DirectoryEntry) tea.Cmd {
	if entry.IsDir() {
		return c.nav.NavigateTo(entry.Path)
	}

	var allowed []string
	if listing := c.nav.State().Listing; listing != nil {
		allowed = listing.AllowedExtensions
	}

	action := c.policy.Classify(entry, allowed)
	logrus.WithFields(logrus.Fields{
		"path":   entry.Path,
		"policy": c.policy.Name(),
		"action": action.String(),
	}).Debug("entry activated")

	switch action {
	case ActionStructure:
		return c.loadStructure(entry)
	case ActionPreview:
		return c.loadPreview(entry)
	case ActionReject:
		c.epoch++
		c.notice = Notice{}
		c.state = PreviewError{
			Path:    entry.Path,
			Message: ErrorMessage(fmt.Errorf("%s: %w", entry.Name, ErrUnsupportedFileType), c.tr, "errors.load_preview"),
		}
		return nil
	default:
		return c.Download(entry)
	}
}

func (c *SelectionController) loadStructure(entry api.DirectoryEntry) tea.Cmd {
	if current, ok := c.state.(LoadingStructure); ok && current.Path == entry.Path {
		return nil
	}
	c.epoch++
	c.notice = Notice{}
	c.state = LoadingStructure{Path: entry.Path}

	token, ok := c.tokens.GetToken()
	if !ok {
		c.HandleStructure(StructureLoadedMsg{Path: entry.Path, Name: entry.Name, Err: ErrAuthMissing})
		return nil
	}

	backend := c.backend
	return func() tea.Msg {
		scene, err := backend.GetStructureScene(context.Background(), token, entry.Path)
		return StructureLoadedMsg{Path: entry.Path, Name: entry.Name, Scene: scene, Err: err}
	}
}

func (c *SelectionController) loadPreview(entry api.DirectoryEntry) tea.Cmd {
	if current, ok := c.state.(LoadingPreview); ok && current.Path == entry.Path {
		return nil
	}
	c.epoch++
	c.notice = Notice{}
	c.state = LoadingPreview{Path: entry.Path}

	token, ok := c.tokens.GetToken()
	if !ok {
		c.HandlePreview(PreviewLoadedMsg{Path: entry.Path, Name: entry.Name, Err: ErrAuthMissing})
		return nil
	}

	backend := c.backend
	return func() tea.Msg {
		preview, err := backend.GetFilePreview(context.Background(), token, entry.Path)
		return PreviewLoadedMsg{Path: entry.Path, Name: entry.Name, Preview: preview, Err: err}
	}
}

// Download saves entry locally. The selection is cleared while it runs.
func (c *SelectionController) Download(entry api.DirectoryEntry) tea.Cmd {
	if current, ok := c.state.(Downloading); ok && current.Path == entry.Path {
		return nil
	}
	c.epoch++
	c.notice = Notice{}
	c.state = Downloading{Path: entry.Path}

	token, ok := c.tokens.GetToken()
	if !ok {
		c.HandleDownload(DownloadFinishedMsg{Path: entry.Path, Err: ErrAuthMissing})
		return nil
	}

	backend := c.backend
	return func() tea.Msg {
		saved, err := backend.DownloadFile(context.Background(), token, entry.Path)
		return DownloadFinishedMsg{Path: entry.Path, Saved: saved, Err: err}
	}
}

// HandleStructure applies a structure result if it is still the one being loaded
func (c *SelectionController) HandleStructure(msg StructureLoadedMsg) bool {
	current, ok := c.state.(LoadingStructure)
	if !ok || current.Path != msg.Path {
		logrus.WithField("path", msg.Path).Debug("discarding stale structure result")
		return false
	}

	err := msg.Err
	if err == nil && msg.Scene.Empty() {
		err = ErrEmptyResponse
	}
	if err != nil {
		logrus.WithError(err).WithField("path", msg.Path).Warn("failed to load structure")
		c.state = StructureError{Path: msg.Path, Message: ErrorMessage(err, c.tr, "errors.load_structure")}
		return true
	}

	c.state = Structure{Path: msg.Path, Name: nameOr(msg.Name, msg.Path), Scene: msg.Scene.Scene}
	return true
}

// HandlePreview applies a preview result if it is still the one being loaded
func (c *SelectionController) HandlePreview(msg PreviewLoadedMsg) bool {
	current, ok := c.state.(LoadingPreview)
	if !ok || current.Path != msg.Path {
		logrus.WithField("path", msg.Path).Debug("discarding stale preview result")
		return false
	}

	err := msg.Err
	if err == nil && msg.Preview == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		logrus.WithError(err).WithField("path", msg.Path).Warn("failed to load preview")
		c.state = PreviewError{Path: msg.Path, Message: ErrorMessage(err, c.tr, "errors.load_preview")}
		return true
	}

	name := msg.Preview.Name
	if name == "" {
		name = nameOr(msg.Name, msg.Path)
	}
	c.state = Preview{
		Path:      msg.Path,
		Name:      name,
		Content:   msg.Preview.Content,
		Size:      msg.Preview.Size,
		Truncated: msg.Preview.Truncated,
	}
	return true
}

// HandleDownload resolves a download into SelectionNone and a notice
func (c *SelectionController) HandleDownload(msg DownloadFinishedMsg) bool {
	current, ok := c.state.(Downloading)
	if !ok || current.Path != msg.Path {
		logrus.WithFields(logrus.Fields{"path": msg.Path, "saved": msg.Saved}).Debug("download finished after selection changed")
		return false
	}

	c.state = SelectionNone{}
	if msg.Err != nil {
		logrus.WithError(msg.Err).WithField("path", msg.Path).Warn("download failed")
		c.notice = Notice{Kind: NoticeError, Text: ErrorMessage(msg.Err, c.tr, "errors.download")}
		return true
	}
	c.notice = Notice{
		Kind: NoticeInfo,
		Text: c.tr.Translate("notice.downloaded", map[string]any{"path": msg.Saved}),
		Path: msg.Saved,
	}
	return true
}

// Update routes the controller's and the session's result messages
func (c *SelectionController) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case ListingLoadedMsg:
		return c.nav.Handle(msg)
	case StructureLoadedMsg:
		return c.HandleStructure(msg)
	case PreviewLoadedMsg:
		return c.HandlePreview(msg)
	case DownloadFinishedMsg:
		return c.HandleDownload(msg)
	}
	return false
}

// Clear drops the selection and any download feedback
func (c *SelectionController) Clear() {
	c.epoch++
	c.state = SelectionNone{}
	c.notice = Notice{}
}

// clearSince clears the selection for a navigation issued at mark
func (c *SelectionController) clearSince(mark uint64) {
	if c.epoch != mark {
		logrus.WithField("selection", c.state.Target()).Debug("keeping selection started after navigation")
		return
	}
	c.Clear()
}

func nameOr(name, p string) string {
	if name != "" {
		return name
	}
	return baseName(p)
}

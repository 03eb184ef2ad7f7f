package browser

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
)

// NavigationSession owns the current remote directory. Each fetch is tagged
// with a sequence number; only the result of the latest request is applied.
type NavigationSession struct {
	backend api.Backend
	tokens  auth.Source
	tr      i18n.Translator

	state  NavigationState
	seq    uint64
	target string
	mark   uint64

	// Mark is sampled when a navigation is issued; its value is handed to OnNavigate
	Mark func() uint64
	// OnNavigate runs whenever a navigation result is applied
	OnNavigate func(mark uint64)
}

func NewNavigationSession(backend api.Backend, tokens auth.Source, tr i18n.Translator) *NavigationSession {
	return &NavigationSession{
		backend: backend,
		tokens:  tokens,
		tr:      tr,
	}
}

// State returns a snapshot of the navigation state
func (s *NavigationSession) State() NavigationState {
	return s.state
}

// Target returns the path of the latest navigation request
func (s *NavigationSession) Target() string {
	return s.target
}

// NavigateTo requests the listing of dirPath, superseding any fetch in flight
func (s *NavigationSession) NavigateTo(dirPath string) tea.Cmd {
	s.seq++
	seq := s.seq
	s.target = dirPath
	if s.Mark != nil {
		s.mark = s.Mark()
	}
	s.state.Loading = true
	s.state.Err = ""

	token, ok := s.tokens.GetToken()
	if !ok {
		s.Handle(ListingLoadedMsg{Seq: seq, Path: dirPath, Err: ErrAuthMissing})
		return nil
	}

	logrus.WithFields(logrus.Fields{"path": dirPath, "seq": seq}).Debug("navigating")

	backend := s.backend
	return func() tea.Msg {
		listing, err := backend.ListDirectory(context.Background(), token, dirPath)
		return ListingLoadedMsg{Seq: seq, Path: dirPath, Listing: listing, Err: err}
	}
}

// Handle applies a listing result. Results of superseded requests are dropped
// and Handle reports false.
func (s *NavigationSession) Handle(msg ListingLoadedMsg) bool {
	if msg.Seq != s.seq || msg.Path != s.target {
		logrus.WithFields(logrus.Fields{
			"path":   msg.Path,
			"seq":    msg.Seq,
			"latest": s.seq,
		}).Debug("discarding superseded listing")
		return false
	}

	err := msg.Err
	if err == nil && msg.Listing == nil {
		err = ErrEmptyResponse
	}

	s.state.Loading = false
	if err != nil {
		logrus.WithError(err).WithField("path", msg.Path).Warn("failed to load directory")
		s.state.Listing = nil
		s.state.CurrentPath = msg.Path
		s.state.Err = ErrorMessage(err, s.tr, "errors.load_directory")
	} else {
		s.state.Listing = msg.Listing
		s.state.CurrentPath = msg.Listing.Path
		s.state.Err = ""
	}

	if s.OnNavigate != nil {
		s.OnNavigate(s.mark)
	}
	return true
}

// GoToParent navigates up; nil when there is no parent to go to
func (s *NavigationSession) GoToParent() tea.Cmd {
	if !s.state.Listing.HasParent() {
		return nil
	}
	return s.NavigateTo(*s.state.Listing.Parent)
}

// Refresh reloads the current directory. Cached scenes of its files are dropped
// so structures changed on the service are fetched again.
func (s *NavigationSession) Refresh() tea.Cmd {
	if invalidator, ok := s.backend.(api.SceneInvalidator); ok {
		invalidator.InvalidateDir(s.state.CurrentPath)
	}
	return s.NavigateTo(s.state.CurrentPath)
}

// Breadcrumbs derives the crumb trail from the current path. The root crumb
// always comes first with an empty path.
func (s *NavigationSession) Breadcrumbs() []Breadcrumb {
	current := strings.Trim(s.state.CurrentPath, "/")
	crumbs := []Breadcrumb{{
		Label:  s.tr.Translate("browser.root", nil),
		Path:   "",
		Active: current == "",
	}}
	if current == "" {
		return crumbs
	}

	var prefix string
	for _, segment := range strings.Split(current, "/") {
		if segment == "" {
			continue
		}
		if prefix == "" {
			prefix = segment
		} else {
			prefix = prefix + "/" + segment
		}
		crumbs = append(crumbs, Breadcrumb{
			Label:  segment,
			Path:   prefix,
			Active: prefix == current,
		})
	}
	return crumbs
}

// ActivateCrumb navigates to crumb i. The active crumb and unknown indexes do nothing.
func (s *NavigationSession) ActivateCrumb(i int) tea.Cmd {
	crumbs := s.Breadcrumbs()
	if i < 0 || i >= len(crumbs) || crumbs[i].Active {
		return nil
	}
	return s.NavigateTo(crumbs[i].Path)
}

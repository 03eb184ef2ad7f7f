package browser

import (
	"encoding/json"
	"strings"

	"github.com/HaiFongPan/xtal-cli/internal/api"
)

// NavigationState is the observable state of a NavigationSession
type NavigationState struct {
	CurrentPath string
	Listing     *api.DirectoryListing
	Loading     bool
	Err         string
}

// Breadcrumb is one segment of the current path
type Breadcrumb struct {
	Label  string
	Path   string
	Active bool
}

// Selection is what the browser currently shows for a file. Exactly one
// variant is active at a time.
type Selection interface {
	isSelection()
	// Target is the entry path the variant belongs to, empty for SelectionNone
	Target() string
}

type SelectionNone struct{}

type LoadingPreview struct {
	Path string
}

type Preview struct {
	Path      string
	Name      string
	Content   string
	Size      int64
	Truncated bool
}

type PreviewError struct {
	Path    string
	Message string
}

type LoadingStructure struct {
	Path string
}

type Structure struct {
	Path  string
	Name  string
	Scene json.RawMessage
}

type StructureError struct {
	Path    string
	Message string
}

// Downloading is transient; it resolves to SelectionNone and a notice
type Downloading struct {
	Path string
}

func (SelectionNone) isSelection()    {}
func (LoadingPreview) isSelection()   {}
func (Preview) isSelection()          {}
func (PreviewError) isSelection()     {}
func (LoadingStructure) isSelection() {}
func (Structure) isSelection()        {}
func (StructureError) isSelection()   {}
func (Downloading) isSelection()      {}

func (SelectionNone) Target() string      { return "" }
func (s LoadingPreview) Target() string   { return s.Path }
func (s Preview) Target() string          { return s.Path }
func (s PreviewError) Target() string     { return s.Path }
func (s LoadingStructure) Target() string { return s.Path }
func (s Structure) Target() string        { return s.Path }
func (s StructureError) Target() string   { return s.Path }
func (s Downloading) Target() string      { return s.Path }

// IsLoading reports whether sel is waiting on a fetch
func IsLoading(sel Selection) bool {
	switch sel.(type) {
	case LoadingPreview, LoadingStructure, Downloading:
		return true
	}
	return false
}

// NoticeKind classifies side-channel feedback
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeError
)

// Notice is transient feedback outside the selection, such as download results
type Notice struct {
	Kind NoticeKind
	Text string
	// Path is the local file a successful download was saved to
	Path string
}

func (n Notice) Empty() bool {
	return n.Kind == NoticeNone
}

func baseName(p string) string {
	p = strings.TrimSuffix(p, "/")
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

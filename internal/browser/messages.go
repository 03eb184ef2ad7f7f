package browser

import "github.com/HaiFongPan/xtal-cli/internal/api"

// ListingLoadedMsg carries a directory fetch result, tagged with its request
type ListingLoadedMsg struct {
	Seq     uint64
	Path    string
	Listing *api.DirectoryListing
	Err     error
}

// PreviewLoadedMsg carries a text preview fetch result
type PreviewLoadedMsg struct {
	Path    string
	Name    string
	Preview *api.FilePreview
	Err     error
}

// StructureLoadedMsg carries a structure scene fetch result
type StructureLoadedMsg struct {
	Path  string
	Name  string
	Scene *api.StructureScene
	Err   error
}

// DownloadFinishedMsg carries the outcome of a download
type DownloadFinishedMsg struct {
	Path  string
	Saved string
	Err   error
}

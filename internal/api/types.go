package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// EntryType is the kind of a remote directory entry
type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
	EntrySymlink   EntryType = "symlink"
)

// DirectoryEntry is one item of a directory listing. Entries are never modified
// after the backend returns them.
type DirectoryEntry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
	Size int64     `json:"size,omitempty"`
}

// IsDir reports whether the entry is a directory
func (e DirectoryEntry) IsDir() bool {
	return e.Type == EntryDirectory
}

// DirectoryListing is the result of one directory fetch
type DirectoryListing struct {
	Path              string           `json:"path"`
	Parent            *string          `json:"parent"`
	Entries           []DirectoryEntry `json:"entries"`
	AllowedExtensions []string         `json:"allowed_extensions,omitempty"`
}

// HasParent reports whether the listing can navigate up
func (l *DirectoryListing) HasParent() bool {
	return l != nil && l.Parent != nil
}

// FilePreview is the text preview of a remote file
type FilePreview struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Size      int64  `json:"size,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// StructureScene wraps the opaque scene payload produced by the service
type StructureScene struct {
	Scene json.RawMessage `json:"scene"`
}

// Empty reports whether the payload carries no usable scene
func (s *StructureScene) Empty() bool {
	if s == nil {
		return true
	}
	trimmed := bytes.TrimSpace(s.Scene)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// Backend is the remote file service
type Backend interface {
	ListDirectory(ctx context.Context, token, path string) (*DirectoryListing, error)
	GetFilePreview(ctx context.Context, token, path string) (*FilePreview, error)
	GetStructureScene(ctx context.Context, token, path string) (*StructureScene, error)
	// DownloadFile saves the remote file locally and returns the saved path
	DownloadFile(ctx context.Context, token, path string) (string, error)
}

// SceneInvalidator is implemented by backends that cache scenes
type SceneInvalidator interface {
	InvalidateDir(dirPath string)
}

// RequestError is returned by backends when a call fails. Detail carries the
// service-provided explanation when there is one.
type RequestError struct {
	StatusCode int
	Detail     string
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return ""
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

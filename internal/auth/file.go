package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FileSource reads the token from a file and reloads it whenever the file changes.
// The parent directory is watched so editors that replace the file are handled.
type FileSource struct {
	path string

	mu    sync.RWMutex
	token string

	watcher *fsnotify.Watcher
	done    chan struct{}
	once    sync.Once
}

// NewFileSource loads the token file. A missing file is not an error; the source
// simply has no token until the file appears.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("token file path is empty")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token file: %w", err)
	}

	s := &FileSource{path: absPath, done: make(chan struct{})}
	if err := s.reload(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *FileSource) GetToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Path returns the watched token file
func (s *FileSource) Path() string {
	return s.path
}

// Watch starts reloading the token on file changes until Close is called
func (s *FileSource) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create token watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch token directory: %w", err)
	}
	s.watcher = watcher

	go s.loop()
	return nil
}

func (s *FileSource) loop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				s.set("")
				logrus.WithField("path", s.path).Warn("token file removed")
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if err := s.reload(); err != nil {
					logrus.WithError(err).WithField("path", s.path).Warn("failed to reload token file")
					continue
				}
				logrus.WithField("path", s.path).Info("token reloaded")
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("token watcher error")
		}
	}
}

// Close stops the watcher. Safe to call more than once.
func (s *FileSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

func (s *FileSource) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	token := strings.TrimSpace(string(data))
	s.set(token)
	LogExpiry(token)
	return nil
}

func (s *FileSource) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

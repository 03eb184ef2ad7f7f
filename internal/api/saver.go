package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSaver writes downloaded files into a local directory
type FileSaver struct {
	dir string
}

func NewFileSaver(dir string) *FileSaver {
	return &FileSaver{dir: dir}
}

// Dir returns the target directory
func (s *FileSaver) Dir() string {
	return s.dir
}

// Save copies r into a new file named after name and returns its path
func (s *FileSaver) Save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	filename := filepath.Base(filepath.Clean("/" + name))
	if filename == "/" || filename == "." {
		filename = "download"
	}
	localPath := s.resolveFileNameConflict(filepath.Join(s.dir, filename))

	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}

	if _, err := copyFile(file, r); err != nil {
		file.Close()
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to close local file: %w", err)
	}

	logrus.Infof("File downloaded successfully to: %s", localPath)
	return localPath, nil
}

// copyFile is swapped in tests to simulate failing writes
var copyFile = func(dst *os.File, src io.Reader) (int64, error) {
	return io.Copy(dst, src)
}

func (s *FileSaver) resolveFileNameConflict(originalPath string) string {
	if _, err := os.Stat(originalPath); os.IsNotExist(err) {
		return originalPath
	}

	ext := filepath.Ext(originalPath)
	baseName := originalPath[:len(originalPath)-len(ext)]

	for i := 1; i < 1000; i++ {
		newPath := fmt.Sprintf("%s (%d)%s", baseName, i, ext)
		if _, err := os.Stat(newPath); os.IsNotExist(err) {
			return newPath
		}
	}

	return fmt.Sprintf("%s_%d%s", baseName, os.Getpid(), ext)
}

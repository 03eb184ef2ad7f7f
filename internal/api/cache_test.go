package api

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListDirectory(ctx context.Context, token, path string) (*DirectoryListing, error) {
	args := m.Called(ctx, token, path)
	listing, _ := args.Get(0).(*DirectoryListing)
	return listing, args.Error(1)
}

func (m *MockBackend) GetFilePreview(ctx context.Context, token, path string) (*FilePreview, error) {
	args := m.Called(ctx, token, path)
	preview, _ := args.Get(0).(*FilePreview)
	return preview, args.Error(1)
}

func (m *MockBackend) GetStructureScene(ctx context.Context, token, path string) (*StructureScene, error) {
	args := m.Called(ctx, token, path)
	scene, _ := args.Get(0).(*StructureScene)
	return scene, args.Error(1)
}

func (m *MockBackend) DownloadFile(ctx context.Context, token, path string) (string, error) {
	args := m.Called(ctx, token, path)
	return args.String(0), args.Error(1)
}

func TestCachingBackend_ServesFreshScenes(t *testing.T) {
	inner := &MockBackend{}
	scene := &StructureScene{Scene: []byte(`{"contents": []}`)}
	inner.On("GetStructureScene", mock.Anything, "tok", "a.cif").Return(scene, nil).Once()

	backend := NewCachingBackend(inner, time.Minute).(*CachingBackend)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return now }

	first, err := backend.GetStructureScene(context.Background(), "tok", "a.cif")
	require.NoError(t, err)
	second, err := backend.GetStructureScene(context.Background(), "tok", "a.cif")
	require.NoError(t, err)

	assert.Same(t, first, second)
	hits, misses := backend.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	inner.AssertExpectations(t)
}

func TestCachingBackend_ExpiresAndSkipsFailures(t *testing.T) {
	inner := &MockBackend{}
	scene := &StructureScene{Scene: []byte(`{"contents": []}`)}
	inner.On("GetStructureScene", mock.Anything, "tok", "a.cif").Return(scene, nil).Twice()
	inner.On("GetStructureScene", mock.Anything, "tok", "bad.cif").Return(nil, &RequestError{Detail: "Not found"}).Twice()

	backend := NewCachingBackend(inner, time.Minute).(*CachingBackend)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return now }

	_, err := backend.GetStructureScene(context.Background(), "tok", "a.cif")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = backend.GetStructureScene(context.Background(), "tok", "a.cif")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = backend.GetStructureScene(context.Background(), "tok", "bad.cif")
		var reqErr *RequestError
		require.True(t, errors.As(err, &reqErr))
	}
	assert.Equal(t, 1, backend.Len())

	backend.Invalidate("a.cif")
	assert.Equal(t, 0, backend.Len())
	inner.AssertExpectations(t)
}

func TestCachingBackend_InvalidateDir(t *testing.T) {
	inner := &MockBackend{}
	scene := &StructureScene{Scene: []byte(`{"contents": []}`)}
	paths := []string{"NaCl.cif", "data/cells/NaCl.cif", "data/cells/POSCAR", "data/cells/old/CONTCAR", "data/KCl.cif"}
	for _, p := range paths {
		inner.On("GetStructureScene", mock.Anything, "tok", p).Return(scene, nil)
	}

	backend := NewCachingBackend(inner, time.Minute).(*CachingBackend)
	for _, p := range paths {
		_, err := backend.GetStructureScene(context.Background(), "tok", p)
		require.NoError(t, err)
	}
	require.Equal(t, 5, backend.Len())

	backend.InvalidateDir("/data/cells/")
	assert.Equal(t, 3, backend.Len())

	// dropped entries are fetched again, the others stay cached
	_, err := backend.GetStructureScene(context.Background(), "tok", "data/cells/POSCAR")
	require.NoError(t, err)
	_, err = backend.GetStructureScene(context.Background(), "tok", "data/cells/old/CONTCAR")
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "GetStructureScene", 6)

	backend.InvalidateDir("")
	_, err = backend.GetStructureScene(context.Background(), "tok", "NaCl.cif")
	require.NoError(t, err)
	inner.AssertNumberOfCalls(t, "GetStructureScene", 7)

	var _ SceneInvalidator = backend
}

func TestNewCachingBackend_DisabledTTL(t *testing.T) {
	inner := &MockBackend{}
	assert.Same(t, inner, NewCachingBackend(inner, 0))
}

func TestFileSaver_ResolvesConflicts(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir)

	first, err := saver.Save("cell.cif", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := saver.Save("cell.cif", strings.NewReader("two"))
	require.NoError(t, err)
	escaped, err := saver.Save("../../etc/passwd", strings.NewReader("three"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cell.cif"), first)
	assert.Equal(t, filepath.Join(dir, "cell (1).cif"), second)
	assert.Equal(t, filepath.Join(dir, "passwd"), escaped)

	content, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "two", string(content))
}

func TestFileSaver_FailedCloseIsReported(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir)

	original := copyFile
	t.Cleanup(func() { copyFile = original })
	// the file is closed under the saver, so its own Close fails
	copyFile = func(dst *os.File, src io.Reader) (int64, error) {
		n, err := io.Copy(dst, src)
		dst.Close()
		return n, err
	}

	saved, err := saver.Save("CONTCAR", strings.NewReader("lattice"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close local file")
	assert.Empty(t, saved)
	assert.NoFileExists(t, filepath.Join(dir, "CONTCAR"))
}

func TestFileSaver_FailedWriteRemovesFile(t *testing.T) {
	dir := t.TempDir()
	saver := NewFileSaver(dir)

	_, err := saver.Save("OUTCAR", iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoFileExists(t, filepath.Join(dir, "OUTCAR"))
}

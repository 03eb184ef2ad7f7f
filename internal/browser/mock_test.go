package browser

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
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

type fixture struct {
	backend *MockBackend
	nav     *NavigationSession
	sel     *SelectionController
}

func newFixture(policy PreviewPolicy, token string) *fixture {
	backend := &MockBackend{}
	tokens := auth.NewStaticSource(token)
	tr := i18n.Default()
	nav := NewNavigationSession(backend, tokens, tr)
	return &fixture{
		backend: backend,
		nav:     nav,
		sel:     NewSelectionController(backend, tokens, tr, policy, nav),
	}
}

func strPtr(s string) *string {
	return &s
}

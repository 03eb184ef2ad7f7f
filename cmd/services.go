package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/api"
	"github.com/HaiFongPan/xtal-cli/internal/auth"
	"github.com/HaiFongPan/xtal-cli/internal/browser"
	"github.com/HaiFongPan/xtal-cli/internal/config"
	"github.com/HaiFongPan/xtal-cli/internal/i18n"
	"github.com/HaiFongPan/xtal-cli/internal/render"
	"github.com/HaiFongPan/xtal-cli/internal/scene"
)

// services are the collaborators shared by the browser and the subcommands
type services struct {
	cfg     *config.Config
	backend api.Backend
	tokens  auth.Source
	catalog *i18n.Catalog
	policy  browser.PreviewPolicy

	tokenFile *auth.FileSource
}

func newServices(cfg *config.Config) (*services, error) {
	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := i18n.Load(cfg.UI.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load message catalog: %w", err)
	}

	policy, err := browser.ParsePolicy(cfg.UI.PreviewPolicy)
	if err != nil {
		return nil, err
	}

	s := &services{
		cfg:     cfg,
		backend: backend,
		catalog: catalog,
		policy:  policy,
	}
	if err := s.initTokens(); err != nil {
		return nil, err
	}
	return s, nil
}

// newBackend creates the configured file service, wrapped in the scene cache
func newBackend(cfg *config.Config) (api.Backend, error) {
	saver := api.NewFileSaver(cfg.GetDownloadDir())

	var backend api.Backend
	switch strings.ToLower(cfg.Backend.Kind) {
	case "s3":
		s3Backend, err := api.NewS3Backend(&cfg.Backend.S3, saver)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 backend: %w", err)
		}
		backend = s3Backend
	default:
		backend = api.NewHTTPBackend(cfg, saver)
	}

	return api.NewCachingBackend(backend, time.Duration(cfg.General.SceneCacheTTL)*time.Second), nil
}

// initTokens chains the configured token with the watched token file
func (s *services) initTokens() error {
	chain := auth.Chain{auth.NewStaticSource(s.cfg.Auth.Token)}

	if s.cfg.Auth.TokenFile != "" {
		fileSource, err := auth.NewFileSource(s.cfg.Auth.TokenFile)
		if err != nil {
			return fmt.Errorf("failed to read token file: %w", err)
		}
		if err := fileSource.Watch(); err != nil {
			logrus.WithError(err).WithField("path", fileSource.Path()).Warn("token file changes will not be picked up")
		}
		s.tokenFile = fileSource
		chain = append(chain, fileSource)
	}

	if token, ok := chain.GetToken(); ok {
		auth.LogExpiry(token)
	} else {
		logrus.Warn("no authentication token configured")
	}
	s.tokens = chain
	return nil
}

// token returns the current token or the translated missing-token error
func (s *services) token() (string, error) {
	token, ok := s.tokens.GetToken()
	if !ok {
		return "", fmt.Errorf("%s: %w", s.catalog.Translate("errors.auth_missing", nil), browser.ErrAuthMissing)
	}
	return token, nil
}

// canvas creates the terminal structure renderer
func (s *services) canvas() *render.StructureCanvas {
	ui := s.cfg.UI
	protocol := render.ResolveProtocol(strings.ToLower(ui.RenderMode), render.DetectProtocol())
	logrus.WithField("protocol", protocol).Debug("structure canvas protocol")

	return render.NewStructureCanvas(render.CanvasOptions{
		Protocol:    protocol,
		AxesEnabled: ui.Axes.Enabled,
		Axes: scene.AxesOptions{
			Mode:       strings.ToLower(ui.Axes.Mode),
			Scale:      ui.Axes.Scale,
			HeadLength: ui.Axes.HeadLength,
			HeadWidth:  ui.Axes.HeadWidth,
			Radius:     ui.Axes.Radius,
		},
	})
}

func (s *services) Close() {
	if cache, ok := s.backend.(*api.CachingBackend); ok {
		hits, misses := cache.Stats()
		logrus.WithFields(logrus.Fields{
			"hits":   hits,
			"misses": misses,
			"cached": cache.Len(),
		}).Debug("scene cache stats")
	}
	if s.tokenFile != nil {
		if err := s.tokenFile.Close(); err != nil {
			logrus.WithError(err).Debug("failed to stop token file watcher")
		}
	}
}

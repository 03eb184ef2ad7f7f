package api

import (
	"context"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/sirupsen/logrus"
)

type cachedScene struct {
	scene     *StructureScene
	expiresAt time.Time
}

// CachingBackend wraps a Backend and keeps recently fetched scenes in memory.
// Scene requests run in command goroutines, so the cache is a concurrent map.
type CachingBackend struct {
	Backend
	ttl    time.Duration
	scenes *xsync.Map[string, cachedScene]
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachingBackend returns backend unchanged when ttl is not positive
func NewCachingBackend(backend Backend, ttl time.Duration) Backend {
	if ttl <= 0 {
		return backend
	}
	return &CachingBackend{
		Backend: backend,
		ttl:     ttl,
		scenes:  xsync.NewMap[string, cachedScene](),
		now:     time.Now,
	}
}

// GetStructureScene serves a cached scene when one is still fresh
func (c *CachingBackend) GetStructureScene(ctx context.Context, token, filePath string) (*StructureScene, error) {
	if entry, ok := c.scenes.Load(filePath); ok {
		if c.now().Before(entry.expiresAt) {
			c.hits.Add(1)
			logrus.WithField("path", filePath).Debug("scene served from cache")
			return entry.scene, nil
		}
		c.scenes.Delete(filePath)
	}

	c.misses.Add(1)
	scene, err := c.Backend.GetStructureScene(ctx, token, filePath)
	if err != nil {
		return nil, err
	}
	if !scene.Empty() {
		c.scenes.Store(filePath, cachedScene{scene: scene, expiresAt: c.now().Add(c.ttl)})
	}
	return scene, nil
}

// Invalidate drops the cached scene for a path
func (c *CachingBackend) Invalidate(filePath string) {
	c.scenes.Delete(filePath)
}

// InvalidateDir drops the cached scenes of the files directly inside dirPath
func (c *CachingBackend) InvalidateDir(dirPath string) {
	dir := cleanDir(dirPath)
	var dropped int
	c.scenes.Range(func(key string, _ cachedScene) bool {
		if cleanDir(path.Dir(strings.Trim(key, "/"))) == dir {
			c.Invalidate(key)
			dropped++
		}
		return true
	})
	logrus.WithFields(logrus.Fields{"dir": dir, "dropped": dropped}).Debug("scene cache invalidated")
}

func cleanDir(dirPath string) string {
	dir := strings.Trim(dirPath, "/")
	if dir == "." {
		return ""
	}
	return dir
}

// Stats returns cache hit and miss counts
func (c *CachingBackend) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached scenes
func (c *CachingBackend) Len() int {
	return c.scenes.Size()
}

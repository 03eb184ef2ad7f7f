package render

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/browser"
)

// MaxDiscoveryAttempts bounds the search for an engine's redraw handle per mount
const MaxDiscoveryAttempts = 6

// DiscoveryMsg asks the bridge to search for the redraw handle of a mount
type DiscoveryMsg struct {
	Generation uint64
}

// PaintedMsg is delivered after the engine paints the region
type PaintedMsg struct{}

type readyMsg struct {
	generation uint64
	handle     Redrawer
}

// Bridge keeps an Engine mounted in a Region in step with the effective scene
// and the region size. Only the bridge mounts, unmounts or redraws the region.
type Bridge struct {
	engine           Engine
	region           *Region
	coalescer        *ResizeCoalescer
	configuredHeight float64
	frameInterval    time.Duration

	current      browser.EffectiveScene
	mounted      bool
	mountedScene json.RawMessage
	mountedSize  int
	generation   uint64
	attempts     int
	handle       Redrawer
	torn         bool

	syncs int
}

// NewBridge creates a bridge for a fresh region
func NewBridge(engine Engine, configuredHeight float64, frameInterval time.Duration) *Bridge {
	if frameInterval <= 0 {
		frameInterval = 16 * time.Millisecond
	}
	return &Bridge{
		engine:           engine,
		region:           NewRegion(),
		coalescer:        NewResizeCoalescer(frameInterval),
		configuredHeight: configuredHeight,
		frameInterval:    frameInterval,
	}
}

func (b *Bridge) Region() *Region {
	return b.region
}

// Mounted reports whether the engine is mounted
func (b *Bridge) Mounted() bool {
	return b.mounted
}

// Attempts returns the discovery attempts made for the current mount
func (b *Bridge) Attempts() int {
	return b.attempts
}

// Handle returns the discovered redraw handle, if any
func (b *Bridge) Handle() (Redrawer, bool) {
	return b.handle, b.handle != nil
}

// Syncs returns how many times Sync has run
func (b *Bridge) Syncs() int {
	return b.syncs
}

// Sync brings the mount in line with eff. Unchanged scene bytes and size are a no-op.
func (b *Bridge) Sync(eff browser.EffectiveScene) tea.Cmd {
	if b.torn {
		return nil
	}
	b.syncs++
	b.current = eff

	if !eff.Renderable() {
		b.unmount()
		return nil
	}

	size := int(math.Round(ComputeDimensions(b.region.Box(), b.configuredHeight)))
	if b.mounted && b.mountedSize == size && bytes.Equal(b.mountedScene, eff.Scene) {
		return nil
	}

	if b.mounted {
		b.engine.Unmount(b.region)
		b.mounted = false
	}

	b.generation++
	b.attempts = 0
	b.handle = nil

	if err := b.engine.Mount(b.region, eff.Scene, size); err != nil {
		logrus.WithError(err).WithField("filename", eff.Filename).Warn("failed to mount structure")
		b.region.setRendered(false)
		return nil
	}
	b.mounted = true
	b.mountedScene = eff.Scene
	b.mountedSize = size
	b.region.setRendered(true)

	logrus.WithFields(logrus.Fields{
		"filename":   eff.Filename,
		"size":       size,
		"generation": b.generation,
	}).Debug("structure mounted")

	generation := b.generation
	if notifier, ok := b.engine.(ReadyNotifier); ok {
		ready := notifier.Ready(b.region)
		return func() tea.Msg {
			handle, ok := <-ready
			if !ok {
				return nil
			}
			return readyMsg{generation: generation, handle: handle}
		}
	}

	// first search runs after the current update has been applied
	return func() tea.Msg {
		return DiscoveryMsg{Generation: generation}
	}
}

// Resize records a new region box; the sync happens on the next frame
func (b *Bridge) Resize(box ContainerBox) tea.Cmd {
	if b.torn {
		return nil
	}
	return b.coalescer.Observe(box)
}

// Update handles the bridge's own messages. Other messages are ignored.
func (b *Bridge) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FrameMsg:
		box, ok := b.coalescer.Frame(msg)
		if !ok {
			return nil
		}
		b.region.SetBox(box)
		return b.Sync(b.current)
	case DiscoveryMsg:
		return b.discover(msg)
	case readyMsg:
		if b.torn || !b.mounted || msg.generation != b.generation || msg.handle == nil {
			return nil
		}
		b.handle = msg.handle
		b.handle.Redraw()
	}
	return nil
}

func (b *Bridge) discover(msg DiscoveryMsg) tea.Cmd {
	if b.torn || !b.mounted || msg.Generation != b.generation || b.handle != nil {
		return nil
	}
	if b.attempts >= MaxDiscoveryAttempts {
		return nil
	}

	b.attempts++
	if handle, ok := FindRedrawer(b.region.Tree()); ok {
		b.handle = handle
		handle.Redraw()
		logrus.WithField("attempts", b.attempts).Debug("redraw handle found")
		return nil
	}

	if b.attempts >= MaxDiscoveryAttempts {
		logrus.WithField("generation", b.generation).Debug("redraw handle not found, giving up")
		return nil
	}

	generation := b.generation
	return tea.Tick(b.frameInterval, func(time.Time) tea.Msg {
		return DiscoveryMsg{Generation: generation}
	})
}

// WaitForPaint returns a command that resolves when the region is painted
func (b *Bridge) WaitForPaint() tea.Cmd {
	painted := b.region.Painted()
	return func() tea.Msg {
		<-painted
		return PaintedMsg{}
	}
}

// Rotate turns the view of the mounted structure when the handle supports it
func (b *Bridge) Rotate(yaw, pitch float64) bool {
	rotator, ok := b.handle.(Rotator)
	if !ok || !b.mounted {
		return false
	}
	rotator.Rotate(yaw, pitch)
	b.handle.Redraw()
	return true
}

// Teardown unmounts the engine and stops observing resizes. Safe to call repeatedly.
func (b *Bridge) Teardown() {
	if b.torn {
		return
	}
	b.unmount()
	b.coalescer.Disconnect()
	b.torn = true
}

func (b *Bridge) unmount() {
	if b.mounted {
		b.engine.Unmount(b.region)
		b.generation++
		logrus.WithField("generation", b.generation).Debug("structure unmounted")
	}
	b.mounted = false
	b.mountedScene = nil
	b.mountedSize = 0
	b.attempts = 0
	b.handle = nil
	b.region.setRendered(false)
}

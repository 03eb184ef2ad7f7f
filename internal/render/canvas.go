package render

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/xtal-cli/internal/scene"
)

// Pixel size of one terminal cell when a graphics protocol is used
const (
	cellPixelWidth  = 8
	cellPixelHeight = 16
)

// CanvasOptions configures a StructureCanvas
type CanvasOptions struct {
	Protocol    GraphicsProtocol
	AxesEnabled bool
	Axes        scene.AxesOptions
}

// StructureCanvas draws CrystalToolkit scenes into terminal regions. Mount
// returns at once; decoding and drawing happen on a separate goroutine which
// paints the region and commits the canvas node when done.
type StructureCanvas struct {
	opts CanvasOptions

	mu        sync.Mutex
	instances map[*Region]*canvasInstance
}

func NewStructureCanvas(opts CanvasOptions) *StructureCanvas {
	return &StructureCanvas{
		opts:      opts,
		instances: make(map[*Region]*canvasInstance),
	}
}

func (c *StructureCanvas) Mount(region *Region, data json.RawMessage, size int) error {
	if region == nil {
		return fmt.Errorf("no region to mount into")
	}
	if size < 1 {
		return fmt.Errorf("invalid canvas size: %d", size)
	}

	inst := &canvasInstance{
		region:   region,
		protocol: c.opts.Protocol,
		size:     size,
		view:     DefaultView(),
	}

	c.mu.Lock()
	previous := c.instances[region]
	c.instances[region] = inst
	c.mu.Unlock()

	if previous != nil {
		previous.cancel()
	}

	go inst.run(data, c.opts)
	return nil
}

func (c *StructureCanvas) Unmount(region *Region) {
	c.mu.Lock()
	inst := c.instances[region]
	delete(c.instances, region)
	c.mu.Unlock()

	if inst != nil {
		inst.cancel()
	}
}

// canvasInstance is one mount of the canvas. It becomes the redraw handle.
type canvasInstance struct {
	region   *Region
	protocol GraphicsProtocol

	mu        sync.Mutex
	scene     *scene.Scene
	size      int
	view      View
	node      *Node
	cancelled bool
}

func (i *canvasInstance) run(data json.RawMessage, opts CanvasOptions) {
	s, err := scene.Decode(data)
	if err != nil {
		logrus.WithError(err).Warn("failed to decode structure scene")
		i.mu.Lock()
		if !i.cancelled {
			i.region.Paint(fmt.Sprintf("unable to draw structure: %v", err))
		}
		i.mu.Unlock()
		return
	}
	if opts.AxesEnabled {
		scene.AppendAxes(s, s.Lattice, opts.Axes)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancelled {
		return
	}
	i.scene = s
	i.paintLocked()

	ref := &Ref{Current: i}
	node := &Node{
		Name:  "structure-canvas",
		State: Slots(s.Name, i.size, ref),
	}
	node.Alternate = &Node{Name: "structure-canvas", Alternate: node}
	i.node = node
	i.region.Tree().Commit(node)

	logrus.WithFields(logrus.Fields{
		"scene":      s.Name,
		"primitives": s.Count(),
	}).Debug("structure canvas committed")
}

// Redraw repaints at the region's current size
func (i *canvasInstance) Redraw() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cancelled || i.scene == nil {
		return
	}
	i.size = int(ComputeDimensions(i.region.Box(), float64(i.size)))
	i.paintLocked()
}

// Rotate turns the view by the given angles in degrees
func (i *canvasInstance) Rotate(yaw, pitch float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.view.Yaw += yaw
	i.view.Pitch += pitch
	if i.view.Pitch > 90 {
		i.view.Pitch = 90
	}
	if i.view.Pitch < -90 {
		i.view.Pitch = -90
	}
}

func (i *canvasInstance) cancel() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cancelled = true
	if i.node != nil {
		i.region.Tree().Remove(i.node)
		i.node = nil
	}
}

func (i *canvasInstance) paintLocked() {
	cols, rows := i.cells()
	if i.protocol == ProtocolNone || i.protocol == "" {
		img := Rasterize(i.scene, i.view, cols, rows*2)
		i.region.Paint(EncodeANSI(img, cols, rows))
		return
	}

	img := Rasterize(i.scene, i.view, cols*cellPixelWidth, rows*cellPixelHeight)
	out, err := EncodeGraphics(img, i.protocol, cols, rows)
	if err != nil {
		logrus.WithError(err).WithField("protocol", i.protocol).Warn("graphics encoding failed, falling back to text")
		i.protocol = ProtocolNone
		img = Rasterize(i.scene, i.view, cols, rows*2)
		out = EncodeANSI(img, cols, rows)
	}
	i.region.Paint(out)
}

// cells returns the canvas grid: size columns by half as many rows, capped by the region height
func (i *canvasInstance) cells() (int, int) {
	cols := i.size
	if cols < 2 {
		cols = 2
	}
	rows := cols / 2
	if h := int(i.region.Box().Height); h > 0 && rows > h {
		rows = h
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

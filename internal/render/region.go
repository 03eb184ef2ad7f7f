package render

import (
	"math"
	"sync"
)

// ContainerBox is the measured box of the host region, in terminal cells
type ContainerBox struct {
	Width        float64
	Height       float64
	ClientWidth  float64
	PaddingLeft  float64
	PaddingRight float64
}

// ComputeDimensions picks the square size handed to the engine: the content
// width when positive, else the client width when positive, else the
// configured height. Non-finite or non-positive results fall back as well.
func ComputeDimensions(box ContainerBox, configuredHeight float64) float64 {
	size := box.Width - box.PaddingLeft - box.PaddingRight
	if !usable(size) {
		size = box.ClientWidth
	}
	if !usable(size) {
		size = configuredHeight
	}
	if !usable(size) {
		return configuredHeight
	}
	return size
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Region is the host area an engine is mounted into. Engines paint their
// output and commit nodes into its tree; the UI reads both.
type Region struct {
	mu       sync.RWMutex
	box      ContainerBox
	rendered bool
	output   string

	tree    *Tree
	painted chan struct{}
}

func NewRegion() *Region {
	return &Region{
		tree:    NewTree(),
		painted: make(chan struct{}, 1),
	}
}

func (r *Region) Tree() *Tree {
	return r.tree
}

func (r *Region) Box() ContainerBox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.box
}

func (r *Region) SetBox(box ContainerBox) {
	r.mu.Lock()
	r.box = box
	r.mu.Unlock()
}

// Rendered reports whether an engine is currently mounted into the region
func (r *Region) Rendered() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rendered
}

func (r *Region) setRendered(rendered bool) {
	r.mu.Lock()
	r.rendered = rendered
	if !rendered {
		r.output = ""
	}
	r.mu.Unlock()
}

// Output returns the last painted frame
func (r *Region) Output() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.output
}

// Paint replaces the region output and wakes anyone waiting in Painted
func (r *Region) Paint(output string) {
	r.mu.Lock()
	r.output = output
	r.mu.Unlock()

	select {
	case r.painted <- struct{}{}:
	default:
	}
}

// Painted signals after each Paint. Bursts collapse into one signal.
func (r *Region) Painted() <-chan struct{} {
	return r.painted
}

package render

import "encoding/json"

// Engine draws scenes into a region. Mount returns before drawing finishes;
// the engine commits its nodes into the region tree whenever it is ready.
type Engine interface {
	Mount(region *Region, scene json.RawMessage, size int) error
	Unmount(region *Region)
}

// Rotator is implemented by redraw handles that support changing the view
type Rotator interface {
	Rotate(yaw, pitch float64)
}

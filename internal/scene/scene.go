// Package scene models the CrystalToolkit scene JSON the file service produces
// for structure files.
package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Primitive types understood by the terminal canvas
const (
	TypeSpheres   = "spheres"
	TypeCylinders = "cylinders"
	TypeArrows    = "arrows"
	TypeLines     = "lines"
	TypeCubes     = "cubes"
	TypeConvex    = "convex"
)

// ErrEmptyScene is returned when the payload has no scene object
var ErrEmptyScene = errors.New("scene payload is empty")

// Vec3 is a cartesian position
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{v[0] * f, v[1] * f, v[2] * f}
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Node is either a group (Contents set, Type empty) or a primitive (Type set).
// Both shapes share one struct because CrystalToolkit mixes them in contents arrays.
type Node struct {
	Name     string `json:"name,omitempty"`
	Contents []Node `json:"contents,omitempty"`
	Origin   *Vec3  `json:"origin,omitempty"`
	Visible  *bool  `json:"visible,omitempty"`

	Type          string    `json:"type,omitempty"`
	Positions     []Vec3    `json:"positions,omitempty"`
	PositionPairs [][2]Vec3 `json:"positionPairs,omitempty"`
	Color         string    `json:"color,omitempty"`
	Radius        float64   `json:"radius,omitempty"`
	Width         float64   `json:"width,omitempty"`
	HeadLength    float64   `json:"headLength,omitempty"`
	HeadWidth     float64   `json:"headWidth,omitempty"`
	Clickable     *bool     `json:"clickable,omitempty"`
}

// IsPrimitive reports whether the node draws something itself
func (n *Node) IsPrimitive() bool {
	return n.Type != ""
}

// IsVisible treats an absent visible flag as visible
func (n *Node) IsVisible() bool {
	return n.Visible == nil || *n.Visible
}

// Lattice carries the unit cell vectors when the service includes them
type Lattice struct {
	Matrix [3]Vec3 `json:"matrix"`
}

// Scene is the root of a decoded payload
type Scene struct {
	Node
	Lattice *Lattice `json:"lattice,omitempty"`
}

// Decode parses a scene payload. Empty payloads, null and non-object JSON are rejected.
func Decode(data []byte) (*Scene, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, ErrEmptyScene
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("scene payload must be a JSON object")
	}

	var s Scene
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &s, nil
}

// Encode serializes the scene back to JSON
func (s *Scene) Encode() (json.RawMessage, error) {
	return json.Marshal(s)
}

// Group returns the first direct child group with the given name
func (s *Scene) Group(name string) *Node {
	for i := range s.Contents {
		if !s.Contents[i].IsPrimitive() && s.Contents[i].Name == name {
			return &s.Contents[i]
		}
	}
	return nil
}

// Walk visits every visible primitive with the accumulated origin offset of its groups
func (s *Scene) Walk(fn func(prim *Node, offset Vec3)) {
	walk(&s.Node, Vec3{}, fn)
}

func walk(n *Node, offset Vec3, fn func(*Node, Vec3)) {
	if !n.IsVisible() {
		return
	}
	if n.IsPrimitive() {
		fn(n, offset)
		return
	}
	if n.Origin != nil {
		offset = offset.Add(*n.Origin)
	}
	for i := range n.Contents {
		walk(&n.Contents[i], offset, fn)
	}
}

// Bounds returns the axis-aligned box around every visible position
func (s *Scene) Bounds() (min, max Vec3, ok bool) {
	first := true
	extend := func(p Vec3) {
		if first {
			min, max, first = p, p, false
			return
		}
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], p[i])
			max[i] = math.Max(max[i], p[i])
		}
	}

	s.Walk(func(prim *Node, offset Vec3) {
		for _, p := range prim.Positions {
			extend(p.Add(offset))
		}
		for _, pair := range prim.PositionPairs {
			extend(pair[0].Add(offset))
			extend(pair[1].Add(offset))
		}
	})
	return min, max, !first
}

// Count returns the number of visible primitives by type
func (s *Scene) Count() map[string]int {
	counts := make(map[string]int)
	s.Walk(func(prim *Node, _ Vec3) {
		counts[prim.Type]++
	})
	return counts
}

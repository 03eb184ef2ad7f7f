package scene

import "strings"

// AxesGroupName names the group AppendAxes adds
const AxesGroupName = "axes"

// Axes modes
const (
	AxesLattice   = "lattice"
	AxesCartesian = "cartesian"
)

// AxesOptions controls the arrows drawn for the crystal axes
type AxesOptions struct {
	Mode       string
	Scale      float64
	HeadLength float64
	HeadWidth  float64
	Radius     float64
}

// DefaultAxesOptions matches the service's own axes rendering
func DefaultAxesOptions() AxesOptions {
	return AxesOptions{
		Mode:       AxesLattice,
		Scale:      1.6,
		HeadLength: 0.32,
		HeadWidth:  0.18,
		Radius:     0.07,
	}
}

var axesColors = [3]string{"red", "green", "blue"}

// AppendAxes adds an axes group of three arrows. In lattice mode each arrow follows a
// normalized lattice vector; without a lattice nothing is added, as with the service.
// Scenes that already carry an axes group are left alone. It reports whether a group was added.
func AppendAxes(s *Scene, lattice *Lattice, opts AxesOptions) bool {
	if s == nil || lattice == nil || s.Group(AxesGroupName) != nil {
		return false
	}

	var vectors [3]Vec3
	if strings.ToLower(opts.Mode) == AxesCartesian {
		vectors = [3]Vec3{{opts.Scale, 0, 0}, {0, opts.Scale, 0}, {0, 0, opts.Scale}}
	} else {
		for i, row := range lattice.Matrix {
			norm := row.Norm()
			if norm == 0 {
				norm = 1
			}
			vectors[i] = row.Scale(opts.Scale / norm)
		}
	}

	notClickable := false
	contents := make([]Node, 0, 3)
	for i, vec := range vectors {
		contents = append(contents, Node{
			Type:          TypeArrows,
			PositionPairs: [][2]Vec3{{{0, 0, 0}, vec}},
			Color:         axesColors[i],
			Radius:        opts.Radius,
			HeadLength:    opts.HeadLength,
			HeadWidth:     opts.HeadWidth,
			Clickable:     &notClickable,
		})
	}

	origin := Vec3{}
	if s.Origin != nil {
		origin = *s.Origin
	}
	visible := true
	s.Contents = append(s.Contents, Node{
		Name:     AxesGroupName,
		Contents: contents,
		Origin:   &origin,
		Visible:  &visible,
	})
	return true
}

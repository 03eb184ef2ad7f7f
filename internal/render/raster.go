package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"

	"github.com/HaiFongPan/xtal-cli/internal/scene"
)

const supersample = 2

var backgroundColor = color.NRGBA{R: 0x12, G: 0x12, B: 0x18, A: 0xff}

// View is the camera orientation in degrees
type View struct {
	Yaw   float64
	Pitch float64
}

// DefaultView looks at the cell slightly from above and to the side
func DefaultView() View {
	return View{Yaw: 30, Pitch: 20}
}

type projector struct {
	center scene.Vec3
	scale  float64
	half   float64
	cy, sy float64
	cp, sp float64
}

func newProjector(s *scene.Scene, view View, pixels int) projector {
	min, max, ok := s.Bounds()
	p := projector{scale: 1, half: float64(pixels) / 2}
	yaw := view.Yaw * math.Pi / 180
	pitch := view.Pitch * math.Pi / 180
	p.cy, p.sy = math.Cos(yaw), math.Sin(yaw)
	p.cp, p.sp = math.Cos(pitch), math.Sin(pitch)
	if !ok {
		return p
	}
	p.center = min.Add(max).Scale(0.5)
	radius := max.Sub(min).Norm()/2 + 1
	p.scale = p.half * 0.9 / radius
	return p
}

// project returns screen x, y and depth (larger is closer)
func (p projector) project(v scene.Vec3) (float64, float64, float64) {
	d := v.Sub(p.center)
	x := d[0]*p.cy - d[1]*p.sy
	y := d[0]*p.sy + d[1]*p.cy
	z := d[2]
	y, z = y*p.cp-z*p.sp, y*p.sp+z*p.cp
	return p.half + x*p.scale, p.half - z*p.scale, y
}

type drawable struct {
	depth float64
	draw  func(img *image.NRGBA)
}

// Rasterize draws the scene orthographically into a width x height image.
// Drawing happens at a higher resolution and is scaled down for smoother edges.
func Rasterize(s *scene.Scene, view View, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	side := width
	if height > side {
		side = height
	}
	pixels := side * supersample

	canvas := imaging.New(pixels, pixels, backgroundColor)
	p := newProjector(s, view, pixels)

	var items []drawable
	s.Walk(func(prim *scene.Node, offset scene.Vec3) {
		items = append(items, primitiveDrawables(prim, offset, p)...)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].depth > items[j].depth
	})
	for _, item := range items {
		item.draw(canvas)
	}

	scaled := imaging.Resize(canvas, side, side, imaging.Lanczos)
	return imaging.CropCenter(scaled, width, height)
}

func primitiveDrawables(prim *scene.Node, offset scene.Vec3, p projector) []drawable {
	c := scene.ParseColor(prim.Color)
	var items []drawable

	switch prim.Type {
	case scene.TypeSpheres, scene.TypeConvex:
		radius := prim.Radius
		if radius <= 0 {
			radius = 0.5
		}
		if prim.Type == scene.TypeConvex {
			radius = 0.08
		}
		for _, pos := range prim.Positions {
			x, y, depth := p.project(pos.Add(offset))
			r := math.Max(radius*p.scale, 1)
			items = append(items, drawable{depth: depth, draw: func(img *image.NRGBA) {
				fillSphere(img, x, y, r, c)
			}})
		}
	case scene.TypeCubes:
		width := prim.Width
		if width <= 0 {
			width = 0.5
		}
		for _, pos := range prim.Positions {
			x, y, depth := p.project(pos.Add(offset))
			h := math.Max(width*p.scale/2, 1)
			items = append(items, drawable{depth: depth, draw: func(img *image.NRGBA) {
				fillRect(img, x-h, y-h, x+h, y+h, c)
			}})
		}
	case scene.TypeCylinders, scene.TypeArrows:
		radius := prim.Radius
		if radius <= 0 {
			radius = 0.1
		}
		for _, pair := range prim.PositionPairs {
			items = append(items, segment(p, pair[0].Add(offset), pair[1].Add(offset), radius, c))
			if prim.Type == scene.TypeArrows && prim.HeadWidth > 0 {
				tip := pair[1].Add(offset)
				x, y, depth := p.project(tip)
				r := math.Max(prim.HeadWidth*p.scale/2, 1)
				items = append(items, drawable{depth: depth, draw: func(img *image.NRGBA) {
					fillDisc(img, x, y, r, c)
				}})
			}
		}
	case scene.TypeLines:
		for i := 0; i+1 < len(prim.Positions); i += 2 {
			items = append(items, segment(p, prim.Positions[i].Add(offset), prim.Positions[i+1].Add(offset), 0.02, c))
		}
	}
	return items
}

func segment(p projector, a, b scene.Vec3, radius float64, c color.RGBA) drawable {
	x0, y0, d0 := p.project(a)
	x1, y1, d1 := p.project(b)
	thickness := math.Max(radius*p.scale, 0.75)
	return drawable{depth: (d0 + d1) / 2, draw: func(img *image.NRGBA) {
		drawThickLine(img, x0, y0, x1, y1, thickness, c)
	}}
}

func fillSphere(img *image.NRGBA, cx, cy, r float64, c color.RGBA) {
	bounds := img.Bounds()
	x0, x1 := clampInt(int(cx-r), bounds.Min.X, bounds.Max.X), clampInt(int(cx+r)+1, bounds.Min.X, bounds.Max.X)
	y0, y1 := clampInt(int(cy-r), bounds.Min.Y, bounds.Max.Y), clampInt(int(cy+r)+1, bounds.Min.Y, bounds.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dx := (float64(x) + 0.5 - cx) / r
			dy := (float64(y) + 0.5 - cy) / r
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			// light from the upper left
			nz := math.Sqrt(1 - d2)
			light := 0.35 + 0.65*math.Max(0, -0.4*dx-0.4*dy+0.82*nz)
			img.SetNRGBA(x, y, shade(c, light))
		}
	}
}

func fillDisc(img *image.NRGBA, cx, cy, r float64, c color.RGBA) {
	bounds := img.Bounds()
	col := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	for y := clampInt(int(cy-r), bounds.Min.Y, bounds.Max.Y); y < clampInt(int(cy+r)+1, bounds.Min.Y, bounds.Max.Y); y++ {
		for x := clampInt(int(cx-r), bounds.Min.X, bounds.Max.X); x < clampInt(int(cx+r)+1, bounds.Min.X, bounds.Max.X); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, col)
			}
		}
	}
}

func fillRect(img *image.NRGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	bounds := img.Bounds()
	col := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	for y := clampInt(int(y0), bounds.Min.Y, bounds.Max.Y); y < clampInt(int(y1)+1, bounds.Min.Y, bounds.Max.Y); y++ {
		for x := clampInt(int(x0), bounds.Min.X, bounds.Max.X); x < clampInt(int(x1)+1, bounds.Min.X, bounds.Max.X); x++ {
			img.SetNRGBA(x, y, col)
		}
	}
}

func drawThickLine(img *image.NRGBA, x0, y0, x1, y1, thickness float64, c color.RGBA) {
	length := math.Hypot(x1-x0, y1-y0)
	steps := int(length) + 1
	r := thickness / 2
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fillDisc(img, x0+(x1-x0)*t, y0+(y1-y0)*t, math.Max(r, 0.5), shadeRGBA(c, 0.85))
	}
}

func shade(c color.RGBA, light float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Min(255, float64(c.R)*light)),
		G: uint8(math.Min(255, float64(c.G)*light)),
		B: uint8(math.Min(255, float64(c.B)*light)),
		A: 0xff,
	}
}

func shadeRGBA(c color.RGBA, light float64) color.RGBA {
	n := shade(c, light)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

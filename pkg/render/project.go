package render

import "github.com/taigrr/scanline/pkg/math3d"

// RenderMode selects between wireframe edges and scanline-filled interiors.
// The numeric values double as the wire codes of the binary scene format.
type RenderMode int

const (
	Wireframe RenderMode = 1
	Fill      RenderMode = 2
)

// Projection selects how scene points map onto the view window.
type Projection int

const (
	Isometric   Projection = 1
	Perspective Projection = 2
)

// Config holds the per-call render parameters. D is the distance to the near
// plane; ViewWidth and ViewHeight are the extents of the view window at
// z = D, which maps onto the full canvas.
type Config struct {
	D          float64
	ViewWidth  float64
	ViewHeight float64
	Mode       RenderMode
	Projection Projection
}

// line is a segment in scene space.
type line struct {
	begin, end math3d.Vec3
}

// toCanvas maps view-window coordinates onto canvas pixels. The conversion
// truncates toward zero.
func (r *Renderer) toCanvas(w, h int, x, y float64) CanvasPoint {
	return CanvasPoint{
		X: int(x / r.config.ViewWidth * float64(w)),
		Y: int(y / r.config.ViewHeight * float64(h)),
	}
}

// project maps a scene point to a canvas point under the configured
// projection. Perspective division assumes p.Z > 0; clipped geometry
// satisfies that.
func (r *Renderer) project(w, h int, p math3d.Vec3) CanvasPoint {
	if r.config.Projection == Isometric {
		return r.toCanvas(w, h, p.X, p.Y)
	}
	return r.toCanvas(w, h, p.X*r.config.D/p.Z, p.Y*r.config.D/p.Z)
}

// outOfRange reports whether p is on the camera side of the near plane.
func (r *Renderer) outOfRange(p math3d.Vec3) bool {
	return p.Z <= r.config.D
}

// clipLine replaces the endpoint behind the near plane with the segment's
// intersection at z = D. Exactly one endpoint should be behind; when the
// intersection parameter falls outside the segment, it is returned unchanged.
func (r *Renderer) clipLine(l line) line {
	delta := l.end.Sub(l.begin)
	t := (r.config.D - l.begin.Z) / delta.Z
	p := l.begin.Add(delta.Scale(t))

	if t >= 0 && t <= 1 {
		if delta.Z > 0 {
			return line{p, l.end}
		}
		return line{l.begin, p}
	}

	return l
}

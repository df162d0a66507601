// Package render implements a software scanline rasterizer: projection,
// near-plane clipping, backface culling and a z-buffered fill with
// per-vertex Gouraud illumination.
package render

import (
	"sort"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Triangle is a colored triangle with per-vertex normals. Point order
// determines facing: a triangle whose normal (P1-P0 × P2-P0) points away
// from its centroid as seen from the origin is culled in fill mode.
// Specular is the Phong exponent; 0 disables the specular term.
type Triangle struct {
	Points   [3]math3d.Vec3
	Normals  [3]math3d.Vec3
	Color    Color
	Specular float64
}

// withPoints returns a copy of t with replaced corner points. Normals, color
// and specular carry over, which matches how the clipper reuses the original
// vertex attributes for clipped corners.
func (t Triangle) withPoints(a, b, c math3d.Vec3) Triangle {
	t.Points = [3]math3d.Vec3{a, b, c}
	return t
}

// Renderer rasterizes triangles into a Viewport. A Renderer holds only its
// Config; every Render call allocates a fresh depth buffer and keeps no
// state between calls, so independent (renderer, viewport) pairs may be
// used concurrently.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with the given configuration.
func NewRenderer(config Config) *Renderer {
	return &Renderer{config: config}
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Render draws the triangles into vp under the configured mode and
// projection. Lights are consulted only in fill mode; wireframe edges use
// the triangle's flat color.
func (r *Renderer) Render(vp Viewport, triangles []Triangle, lights []Light) {
	dvp := newDepthViewport(vp)

	for _, t := range triangles {
		if r.config.Mode == Wireframe {
			r.drawWireTriangle(dvp, t)
		} else {
			r.drawFilledTriangle(dvp, t, lights)
		}
	}
}

// interpolate returns the linear sequence of dependent values over the
// integer range [i0, i1], one entry per step. i0 must not exceed i1; callers
// enforce this by sorting endpoints first.
func interpolate(i0 int, d0 float64, i1 int, d1 float64) []float64 {
	if i0 == i1 {
		return []float64{d0}
	}

	values := make([]float64, i1-i0+1)
	a := (d1 - d0) / float64(i1-i0)
	d := d0
	for i := range values {
		values[i] = d
		d += a
	}
	return values
}

// edgeConcat joins the two short-edge runs into one array spanning the same
// scanlines as the long edge, dropping the duplicated row at the shared
// middle vertex.
func edgeConcat(top, bottom []float64) []float64 {
	return append(top[:len(top)-1], bottom...)
}

// backFacing reports whether the triangle faces away from the camera at the
// origin: the face normal and the centroid direction point opposite ways.
func backFacing(t Triangle) bool {
	v := t.Points[1].Sub(t.Points[0])
	w := t.Points[2].Sub(t.Points[0])
	n := v.Cross(w)
	h := t.Points[0].Add(t.Points[1]).Add(t.Points[2]).Scale(1.0 / 3.0)
	return h.Dot(n) < 0
}

// drawWireTriangle emits the three edges as depth-tested line segments.
func (r *Renderer) drawWireTriangle(vp *depthViewport, t Triangle) {
	r.drawLine(vp, line{t.Points[0], t.Points[1]}, t.Color)
	r.drawLine(vp, line{t.Points[1], t.Points[2]}, t.Color)
	r.drawLine(vp, line{t.Points[2], t.Points[0]}, t.Color)
}

// drawLine clips the segment against the near plane, projects it and walks
// its dominant axis, interpolating the other coordinate and depth.
func (r *Renderer) drawLine(vp *depthViewport, l line, c Color) {
	beginOut, endOut := r.outOfRange(l.begin), r.outOfRange(l.end)
	if beginOut && endOut {
		return
	}
	if beginOut || endOut {
		l = r.clipLine(l)
	}

	w, h := vp.width, vp.height
	ap, az := r.project(w, h, l.begin), l.begin.Z
	bp, bz := r.project(w, h, l.end), l.end.Z

	switch {
	case ap == bp:
		vp.PutPixel(ap, az, c)

	case abs(ap.X-bp.X) > abs(ap.Y-bp.Y):
		if ap.X > bp.X {
			ap, bp = bp, ap
			az, bz = bz, az
		}
		ys := interpolate(ap.X, float64(ap.Y), bp.X, float64(bp.Y))
		zs := interpolate(ap.X, az, bp.X, bz)
		for i := 0; i <= bp.X-ap.X; i++ {
			vp.PutPixel(CanvasPoint{ap.X + i, int(ys[i])}, zs[i], c)
		}

	default:
		if ap.Y > bp.Y {
			ap, bp = bp, ap
			az, bz = bz, az
		}
		xs := interpolate(ap.Y, float64(ap.X), bp.Y, float64(bp.X))
		zs := interpolate(ap.Y, az, bp.Y, bz)
		for i := 0; i <= bp.Y-ap.Y; i++ {
			vp.PutPixel(CanvasPoint{int(xs[i]), ap.Y + i}, zs[i], c)
		}
	}
}

// drawFilledTriangle clips the triangle against the near plane and fills the
// visible pieces. The vertex count behind the plane selects the case: one
// behind yields two triangles fanned over the far edge, two behind yields a
// single shrunken triangle, three behind drops the input.
func (r *Renderer) drawFilledTriangle(vp *depthViewport, t Triangle, lights []Light) {
	a, b, c := t.Points[0], t.Points[1], t.Points[2]
	aOut, bOut, cOut := r.outOfRange(a), r.outOfRange(b), r.outOfRange(c)

	switch {
	case aOut && bOut && cOut:
		return

	case aOut && bOut:
		a = r.clipLine(line{a, c}).begin
		b = r.clipLine(line{b, c}).begin
		r.fillTriangle(vp, t.withPoints(a, b, c), lights)

	case aOut && cOut:
		a = r.clipLine(line{a, b}).begin
		c = r.clipLine(line{b, c}).end
		r.fillTriangle(vp, t.withPoints(a, b, c), lights)

	case bOut && cOut:
		b = r.clipLine(line{a, b}).end
		c = r.clipLine(line{a, c}).end
		r.fillTriangle(vp, t.withPoints(a, b, c), lights)

	case aOut:
		a1 := r.clipLine(line{a, b}).begin
		a2 := r.clipLine(line{a, c}).begin
		r.fillTriangle(vp, t.withPoints(a1, b, c), lights)
		r.fillTriangle(vp, t.withPoints(a2, b, c), lights)

	case bOut:
		b1 := r.clipLine(line{a, b}).end
		b2 := r.clipLine(line{b, c}).begin
		r.fillTriangle(vp, t.withPoints(a, b1, c), lights)
		r.fillTriangle(vp, t.withPoints(a, b2, c), lights)

	case cOut:
		c1 := r.clipLine(line{a, c}).end
		c2 := r.clipLine(line{b, c}).end
		r.fillTriangle(vp, t.withPoints(a, b, c1), lights)
		r.fillTriangle(vp, t.withPoints(a, b, c2), lights)

	default:
		r.fillTriangle(vp, t, lights)
	}
}

// fillVertex is a projected vertex with its scene depth and lighting.
type fillVertex struct {
	p CanvasPoint
	z float64
	l float64
}

// fillTriangle scanline-fills an already clipped triangle. Vertices are
// sorted by canvas y; x, reciprocal depth and intensity are interpolated
// down the long edge and the concatenated short edges, then across each
// span. Depth is interpolated as 1/z so the depth test favors near
// geometry under the buffer's strictly-greater rule.
func (r *Renderer) fillTriangle(vp *depthViewport, t Triangle, lights []Light) {
	if backFacing(t) {
		return
	}

	w, h := vp.width, vp.height
	var verts [3]fillVertex
	for i := range verts {
		verts[i] = fillVertex{
			p: r.project(w, h, t.Points[i]),
			z: t.Points[i].Z,
			l: ComputeLighting(t.Points[i], t.Normals[i], lights, t.Specular),
		}
	}

	sort.Slice(verts[:], func(i, j int) bool { return verts[i].p.Y < verts[j].p.Y })
	p0, p1, p2 := verts[0].p, verts[1].p, verts[2].p

	x02 := interpolate(p0.Y, float64(p0.X), p2.Y, float64(p2.X))
	x012 := edgeConcat(
		interpolate(p0.Y, float64(p0.X), p1.Y, float64(p1.X)),
		interpolate(p1.Y, float64(p1.X), p2.Y, float64(p2.X)),
	)

	z02 := interpolate(p0.Y, 1/verts[0].z, p2.Y, 1/verts[2].z)
	z012 := edgeConcat(
		interpolate(p0.Y, 1/verts[0].z, p1.Y, 1/verts[1].z),
		interpolate(p1.Y, 1/verts[1].z, p2.Y, 1/verts[2].z),
	)

	l02 := interpolate(p0.Y, verts[0].l, p2.Y, verts[2].l)
	l012 := edgeConcat(
		interpolate(p0.Y, verts[0].l, p1.Y, verts[1].l),
		interpolate(p1.Y, verts[1].l, p2.Y, verts[2].l),
	)

	for i := 0; i <= p2.Y-p0.Y; i++ {
		xl, xr := int(x02[i]), int(x012[i])
		zl, zr := z02[i], z012[i]
		ll, lr := l02[i], l012[i]

		if xr < xl {
			xl, xr = xr, xl
			zl, zr = zr, zl
			ll, lr = lr, ll
		}

		zs := interpolate(xl, zl, xr, zr)
		ls := interpolate(xl, ll, xr, lr)

		for j := 0; j <= xr-xl; j++ {
			vp.PutPixel(CanvasPoint{xl + j, p0.Y + i}, zs[j], Modulate(t.Color, ls[j]))
		}
	}
}

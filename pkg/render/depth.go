package render

// CanvasPoint is an integer canvas coordinate with the origin at the canvas
// center, +x right and +y up.
type CanvasPoint struct {
	X, Y int
}

// Viewport is the pixel sink the renderer draws into. Coordinates are
// centered; implementations translate to their own indexing and handle the
// +y-up flip. Writes outside the canvas must be silently dropped.
type Viewport interface {
	PutPixel(p CanvasPoint, c Color)
	Width() int
	Height() int
}

// depthViewport wraps a Viewport with a z-buffer. A write goes through only
// when its depth value is strictly greater than the stored one, so the very
// first write to a pixel must carry a positive depth. The buffer is a flat
// width*height slice indexed y*width+x.
type depthViewport struct {
	viewport Viewport
	depth    []float64
	width    int
	height   int
}

func newDepthViewport(vp Viewport) *depthViewport {
	w, h := vp.Width(), vp.Height()
	return &depthViewport{
		viewport: vp,
		depth:    make([]float64, w*h),
		width:    w,
		height:   h,
	}
}

// PutPixel depth-tests the write and forwards it to the wrapped viewport on
// success. Out-of-range writes are dropped.
func (d *depthViewport) PutPixel(p CanvasPoint, z float64, c Color) {
	x, y := p.X+d.width/2, p.Y+d.height/2
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}

	i := y*d.width + x
	if z <= d.depth[i] {
		return
	}
	d.depth[i] = z
	d.viewport.PutPixel(p, c)
}

package render

import "testing"

func TestDepthTestStrict(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	dvp := newDepthViewport(fb)
	origin := CanvasPoint{0, 0}

	// The buffer starts at zero and the test is strict, so z=0 is rejected.
	dvp.PutPixel(origin, 0, ColorRed)
	if fb.GetPixel(5, 5) == ColorRed {
		t.Error("write with z=0 should be rejected by the strict depth test")
	}

	dvp.PutPixel(origin, 0.5, ColorRed)
	if fb.GetPixel(5, 5) != ColorRed {
		t.Error("write with z=0.5 into empty buffer should pass")
	}

	// Lower depth loses.
	dvp.PutPixel(origin, 0.4, ColorBlue)
	if fb.GetPixel(5, 5) != ColorRed {
		t.Error("write with lower depth should be dropped")
	}

	// Equal depth loses too.
	dvp.PutPixel(origin, 0.5, ColorBlue)
	if fb.GetPixel(5, 5) != ColorRed {
		t.Error("write with equal depth should be dropped")
	}

	// Higher depth wins.
	dvp.PutPixel(origin, 0.6, ColorGreen)
	if fb.GetPixel(5, 5) != ColorGreen {
		t.Error("write with higher depth should replace the pixel")
	}
}

func TestDepthViewportBounds(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	dvp := newDepthViewport(fb)

	// Centered x spans [-5, 4] for width 10.
	for _, p := range []CanvasPoint{{-6, 0}, {5, 0}, {0, -6}, {0, 5}, {100, 100}} {
		dvp.PutPixel(p, 1, ColorRed) // must not panic or write
	}
	for i, px := range fb.Pixels {
		if px != (Color{}) {
			t.Fatalf("out-of-range write landed at pixel %d", i)
		}
	}

	dvp.PutPixel(CanvasPoint{-5, 0}, 1, ColorRed)
	dvp.PutPixel(CanvasPoint{4, 0}, 1, ColorRed)
	if countColored(fb, ColorRed) != 2 {
		t.Error("edge-of-range writes should land")
	}
}

func TestDepthBufferPerPixel(t *testing.T) {
	fb := NewFramebuffer(10, 10)
	dvp := newDepthViewport(fb)

	// Depth at one pixel must not shadow another.
	dvp.PutPixel(CanvasPoint{0, 0}, 5, ColorRed)
	dvp.PutPixel(CanvasPoint{1, 0}, 1, ColorBlue)

	if fb.GetPixel(5, 5) != ColorRed || fb.GetPixel(6, 5) != ColorBlue {
		t.Error("depth entries must be independent per pixel")
	}
}

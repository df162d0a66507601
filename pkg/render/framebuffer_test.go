package render

import (
	"path/filepath"
	"testing"
)

func TestPutPixelCentered(t *testing.T) {
	fb := NewFramebuffer(100, 100)

	// The canvas center maps to buffer (50, 50).
	fb.PutPixel(CanvasPoint{0, 0}, ColorRed)
	if fb.GetPixel(50, 50) != ColorRed {
		t.Error("center PutPixel did not land at (50, 50)")
	}

	// +y is up: positive y moves toward smaller buffer rows.
	fb.PutPixel(CanvasPoint{1, 2}, ColorGreen)
	if fb.GetPixel(51, 48) != ColorGreen {
		t.Error("PutPixel(1, 2) did not land at (51, 48)")
	}

	fb.PutPixel(CanvasPoint{-3, -4}, ColorBlue)
	if fb.GetPixel(47, 54) != ColorBlue {
		t.Error("PutPixel(-3, -4) did not land at (47, 54)")
	}
}

func TestPutPixelOutOfRange(t *testing.T) {
	fb := NewFramebuffer(20, 20)
	for _, p := range []CanvasPoint{{-11, 0}, {10, 0}, {0, 11}, {0, -10}} {
		fb.PutPixel(p, ColorRed) // silently dropped
	}
	if countColored(fb, ColorRed) != 0 {
		t.Error("out-of-range PutPixel modified the buffer")
	}
}

func TestClear(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(ColorCyan)
	for i, p := range fb.Pixels {
		if p != ColorCyan {
			t.Fatalf("pixel %d not cleared", i)
		}
	}
}

func TestToImage(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.SetPixel(1, 2, ColorMagenta)

	img := fb.ToImage()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}
	if img.RGBAAt(1, 2) != ColorMagenta {
		t.Error("pixel did not survive image conversion")
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(ColorYellow)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
}

func TestSaveWebP(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.Clear(ColorYellow)

	path := filepath.Join(t.TempDir(), "out.webp")
	if err := fb.SaveWebP(path); err != nil {
		t.Fatalf("SaveWebP: %v", err)
	}
}

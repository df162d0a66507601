package render

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"
)

// Framebuffer is a row-major RGBA pixel canvas. Storage is top-left indexed
// like an image; the Viewport implementation accepts centered coordinates
// with +y up and performs the translation and vertical flip.
type Framebuffer struct {
	width  int
	height int
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Width returns the canvas width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the canvas height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// PutPixel writes a pixel addressed in centered canvas coordinates, +y up.
// Out-of-range writes are silently dropped.
func (fb *Framebuffer) PutPixel(p CanvasPoint, c Color) {
	fb.SetPixel(p.X+fb.width/2, fb.height/2-p.Y, c)
}

// SetPixel sets a pixel at buffer position (x, y), top-left origin.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return
	}
	fb.Pixels[y*fb.width+x] = c
}

// GetPixel returns the color at buffer position (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.width || y < 0 || y >= fb.height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

// SaveWebP saves the framebuffer as a lossless WebP file.
func (fb *Framebuffer) SaveWebP(path string) error {
	img := image.NewNRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			p := fb.Pixels[y*fb.width+x]
			img.SetNRGBA(x, y, color.NRGBA{p.R, p.G, p.B, p.A})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return nativewebp.Encode(f, img, nil)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

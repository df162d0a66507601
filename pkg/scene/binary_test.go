package scene

import (
	"bytes"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

func sampleFile() *File {
	n := math3d.V3(0, 0, -1)
	return &File{
		Config: render.Config{
			D:          1,
			ViewWidth:  2,
			ViewHeight: 2,
			Mode:       render.Fill,
			Projection: render.Perspective,
		},
		Width:  100,
		Height: 100,
		Lights: []render.Light{
			render.AmbientLight(0.25),
			render.PointLight(0.5, math3d.V3(2, 1, 0)),
			render.DirectionalLight(0.25, math3d.V3(1, 4, 4)),
		},
		Triangles: []render.Triangle{{
			Points:   [3]math3d.Vec3{{X: -1, Y: -1, Z: 2}, {X: 1, Y: -1, Z: 2}, {X: 0, Y: 1, Z: 2}},
			Normals:  [3]math3d.Vec3{n, n, n},
			Color:    render.RGBA(255, 20, 0, 200),
			Specular: 80,
		}},
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	orig := sampleFile()

	var buf bytes.Buffer
	if err := orig.EncodeBinary(&buf); err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}

	back, err := DecodeBinary(&buf)
	if err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}

	if back.Config != orig.Config {
		t.Errorf("config changed: %+v vs %+v", back.Config, orig.Config)
	}
	if back.Width != orig.Width || back.Height != orig.Height {
		t.Errorf("canvas size changed")
	}

	if len(back.Lights) != 3 {
		t.Fatalf("got %d lights", len(back.Lights))
	}
	for i := range back.Lights {
		if back.Lights[i] != orig.Lights[i] {
			t.Errorf("light %d changed: %+v vs %+v", i, back.Lights[i], orig.Lights[i])
		}
	}

	if len(back.Triangles) != 1 {
		t.Fatalf("got %d triangles", len(back.Triangles))
	}
	a, b := back.Triangles[0], orig.Triangles[0]
	for i := range a.Points {
		if !vecNear(a.Points[i], b.Points[i]) || !vecNear(a.Normals[i], b.Normals[i]) {
			t.Errorf("vertex %d changed", i)
		}
	}
	if a.Color != b.Color {
		t.Errorf("color changed: %v vs %v", a.Color, b.Color)
	}
	if math.Abs(a.Specular-b.Specular) > 1e-6 {
		t.Errorf("specular changed: %v vs %v", a.Specular, b.Specular)
	}
}

func TestBinaryWireSize(t *testing.T) {
	// The block layout is fixed: 20-byte config, 8-byte canvas size, then
	// counted 80-byte triangles and 20-byte lights.
	f := sampleFile()

	var buf bytes.Buffer
	if err := f.EncodeBinary(&buf); err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}

	want := 20 + 8 + 4 + 80*len(f.Triangles) + 4 + 20*len(f.Lights)
	if buf.Len() != want {
		t.Errorf("encoded %d bytes, want %d", buf.Len(), want)
	}
}

func TestBinaryDecodeErrors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		if _, err := DecodeBinary(bytes.NewReader([]byte{1, 2, 3})); err == nil {
			t.Error("expected error for truncated input")
		}
	})

	t.Run("bad mode code", func(t *testing.T) {
		f := sampleFile()
		f.Config.Mode = 9
		var buf bytes.Buffer
		if err := f.EncodeBinary(&buf); err != nil {
			t.Fatalf("EncodeBinary: %v", err)
		}
		if _, err := DecodeBinary(&buf); err == nil {
			t.Error("expected error for unknown mode code")
		}
	})
}

package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

const lightEps = 1e-6

func TestAmbientLight(t *testing.T) {
	p, n := math3d.V3(1, 2, 3), math3d.V3(0, 1, 0)
	got := ComputeLighting(p, n, []Light{AmbientLight(0.7)}, 0)
	if math.Abs(got-0.7) > lightEps {
		t.Errorf("ambient lighting = %v, want 0.7", got)
	}
}

func TestPointLightDiffuse(t *testing.T) {
	// Surface at z=1 facing the camera, light at the origin: head-on.
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := PointLight(2, math3d.Zero3())

	got := ComputeLighting(p, n, []Light{l}, 0)
	if math.Abs(got-2) > lightEps {
		t.Errorf("head-on point light = %v, want 2", got)
	}
}

func TestPointLightBehindSurface(t *testing.T) {
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := PointLight(1, math3d.V3(0, 0, 2)) // behind the surface

	if got := ComputeLighting(p, n, []Light{l}, 0); got != 0 {
		t.Errorf("light behind surface contributed %v, want 0", got)
	}
}

func TestPointLightUnnormalizedInputs(t *testing.T) {
	// Scaling the normal must not change the result: lengths divide out.
	p := math3d.V3(0.3, -0.2, 2)
	l := []Light{PointLight(1, math3d.V3(1, 2, 0))}

	a := ComputeLighting(p, math3d.V3(0, 0, -1), l, 0)
	b := ComputeLighting(p, math3d.V3(0, 0, -5), l, 0)
	if math.Abs(a-b) > lightEps {
		t.Errorf("lighting depends on normal length: %v vs %v", a, b)
	}
}

func TestPointLightSpecular(t *testing.T) {
	// Mirror geometry: reflection of L about N lands exactly on the view
	// vector, so the specular term contributes its full strength.
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := PointLight(1, math3d.Zero3())

	diffuseOnly := ComputeLighting(p, n, []Light{l}, 0)
	withSpecular := ComputeLighting(p, n, []Light{l}, 10)

	if math.Abs(diffuseOnly-1) > lightEps {
		t.Errorf("diffuse = %v, want 1", diffuseOnly)
	}
	if math.Abs(withSpecular-2) > lightEps {
		t.Errorf("diffuse+specular = %v, want 2", withSpecular)
	}
}

func TestSpecularZeroDisables(t *testing.T) {
	// With the mirror geometry of TestPointLightSpecular, a zero exponent
	// must leave only the diffuse term.
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := []Light{PointLight(1, math3d.Zero3())}

	got := ComputeLighting(p, n, l, 0)
	if math.Abs(got-1) > lightEps {
		t.Errorf("lighting with specular disabled = %v, want 1", got)
	}
}

func TestDirectionalLight(t *testing.T) {
	// The directional variant folds its own intensity into the diffuse term
	// in addition to the aggregator's scaling; the doubled scaling is kept
	// deliberately.
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := DirectionalLight(0.5, math3d.V3(0, 0, -1))

	got := ComputeLighting(p, n, []Light{l}, 0)
	if math.Abs(got-0.25) > lightEps {
		t.Errorf("directional lighting = %v, want 0.25 (intensity applied twice)", got)
	}
}

func TestDirectionalLightContributes(t *testing.T) {
	// Regression guard: the directional variant must return its accumulator
	// rather than dropping it.
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	l := DirectionalLight(1, math3d.V3(0, 0, -1))

	if got := ComputeLighting(p, n, []Light{l}, 0); got <= 0 {
		t.Errorf("directional light contributed %v, want > 0", got)
	}
}

func TestComputeLightingSums(t *testing.T) {
	p := math3d.V3(0, 0, 1)
	n := math3d.V3(0, 0, -1)
	lights := []Light{
		AmbientLight(0.25),
		PointLight(0.5, math3d.Zero3()),
	}

	got := ComputeLighting(p, n, lights, 0)
	if math.Abs(got-0.75) > lightEps {
		t.Errorf("summed lighting = %v, want 0.75", got)
	}
}

func TestModulate(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		k    float64
		want Color
	}{
		{"halved", RGB(100, 200, 50), 0.5, Color{R: 50, G: 100, B: 25, A: 255}},
		{"saturates", RGB(200, 10, 0), 2, Color{R: 255, G: 20, B: 0, A: 255}},
		{"alpha passthrough", RGBA(100, 100, 100, 42), 1.5, Color{R: 150, G: 150, B: 150, A: 42}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Modulate(tc.c, tc.k); got != tc.want {
				t.Errorf("Modulate(%v, %v) = %v, want %v", tc.c, tc.k, got, tc.want)
			}
		})
	}
}

package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// LightKind discriminates the light variants. The numeric values double as
// the wire codes of the binary scene format.
type LightKind int

const (
	LightAmbient     LightKind = 0
	LightPoint       LightKind = 1
	LightDirectional LightKind = 2
)

// Light is a tagged variant: ambient, point or directional. Position is
// meaningful for point lights, Direction for directional ones. Lights are
// immutable during a render call and safe to share between triangles.
type Light struct {
	Kind      LightKind
	Intensity float64
	Position  math3d.Vec3
	Direction math3d.Vec3
}

// AmbientLight creates a light that illuminates every surface equally.
func AmbientLight(intensity float64) Light {
	return Light{Kind: LightAmbient, Intensity: intensity}
}

// PointLight creates a light radiating from a position in scene space.
func PointLight(intensity float64, position math3d.Vec3) Light {
	return Light{Kind: LightPoint, Intensity: intensity, Position: position}
}

// DirectionalLight creates a light arriving from a fixed direction. The
// direction points from the surface toward the light, so a surface whose
// normal is aligned with it is lit head-on.
func DirectionalLight(intensity float64, direction math3d.Vec3) Light {
	return Light{Kind: LightDirectional, Intensity: intensity, Direction: direction}
}

// intensityAt returns the raw intensity coefficient of the light at surface
// point p with normal n. ComputeLighting scales the result by Intensity;
// the directional variant additionally folds its own Intensity into the
// diffuse term, which is a quirk kept for compatibility with the scenes
// this engine was built against.
func (l Light) intensityAt(p, n math3d.Vec3, specular float64) float64 {
	switch l.Kind {
	case LightAmbient:
		return 1.0
	case LightPoint:
		return diffuseSpecular(p, n, l.Position.Sub(p), 1.0, specular)
	default:
		return diffuseSpecular(p, n, l.Direction, l.Intensity, specular)
	}
}

// diffuseSpecular evaluates the Lambert diffuse term plus, when the surface
// has a nonzero specular exponent, the Phong reflection term. toLight is the
// unnormalized vector toward the light; the normal and toLight lengths are
// divided out, so neither needs to be unit length. The viewer sits at the
// origin, so the view vector is -p.
func diffuseSpecular(p, n, toLight math3d.Vec3, diffuseScale, specular float64) float64 {
	result := 0.0

	if nl := n.Dot(toLight); nl > 0 {
		result += diffuseScale * nl / (n.Len() * toLight.Len())
	}

	if specular != 0 {
		r := n.Scale(2 * n.Dot(toLight)).Sub(toLight)
		if rv := r.Dot(p.Negate()); rv > 0 {
			result += math.Pow(rv/(r.Len()*p.Len()), specular)
		}
	}

	return result
}

// ComputeLighting returns the total intensity at surface point p with normal
// n under the given lights. The result scales the triangle's base color.
func ComputeLighting(p, n math3d.Vec3, lights []Light, specular float64) float64 {
	total := 0.0
	for _, l := range lights {
		total += l.Intensity * l.intensityAt(p, n, specular)
	}
	return total
}

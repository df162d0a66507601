// Package scene builds renderable triangle lists from meshes, positioned
// objects and light sources, and reads the scene file formats.
package scene

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Mesh is a bag of triangles in model-local coordinates.
type Mesh []render.Triangle

// Bounds returns the axis-aligned bounding box of the mesh points.
func (m Mesh) Bounds() (min, max math3d.Vec3) {
	if len(m) == 0 {
		return math3d.Zero3(), math3d.Zero3()
	}
	min, max = m[0].Points[0], m[0].Points[0]
	for _, t := range m {
		for _, p := range t.Points {
			min = min.Min(p)
			max = max.Max(p)
		}
	}
	return min, max
}

// Center returns the center of the mesh bounding box.
func (m Mesh) Center() math3d.Vec3 {
	min, max := m.Bounds()
	return min.Add(max).Scale(0.5)
}

// MaxDim returns the largest bounding box extent.
func (m Mesh) MaxDim() float64 {
	min, max := m.Bounds()
	size := max.Sub(min)
	return math.Max(size.X, math.Max(size.Y, size.Z))
}

// Object places a mesh in the scene. Rotation holds Euler angles in radians,
// applied about X, then Y, then Z; Scale is uniform.
type Object struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3
	Scale    float64
	Mesh     Mesh
}

// NewObject creates an object at the origin with unit scale.
func NewObject(name string, mesh Mesh) *Object {
	return &Object{Name: name, Scale: 1, Mesh: mesh}
}

// triangles applies the object transform (scale, rotate, translate) to the
// mesh. Normals are rotated but neither scaled nor translated; the lighting
// model divides lengths out, so they stay unnormalized.
func (o *Object) triangles() []render.Triangle {
	rot := math3d.RotationZ(o.Rotation.Z).
		Mul(math3d.RotationY(o.Rotation.Y)).
		Mul(math3d.RotationX(o.Rotation.X))

	out := make([]render.Triangle, 0, len(o.Mesh))
	for _, t := range o.Mesh {
		for i := range t.Points {
			t.Points[i] = rot.MulVec3(t.Points[i].Scale(o.Scale)).Add(o.Position)
			t.Normals[i] = rot.MulVec3(t.Normals[i])
		}
		out = append(out, t)
	}
	return out
}

// Scene is a collection of objects and lights.
type Scene struct {
	objects []*Object
	lights  []render.Light
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddObject appends an object to the scene.
func (s *Scene) AddObject(o *Object) {
	s.objects = append(s.objects, o)
}

// AddLight appends a light to the scene.
func (s *Scene) AddLight(l render.Light) {
	s.lights = append(s.lights, l)
}

// Lights returns the scene's light sources.
func (s *Scene) Lights() []render.Light {
	return s.lights
}

// Objects returns the scene's objects.
func (s *Scene) Objects() []*Object {
	return s.objects
}

// Flatten dumps every object into one world-space triangle list, ready for
// a render call.
func (s *Scene) Flatten() []render.Triangle {
	var out []render.Triangle
	for _, o := range s.objects {
		out = append(out, o.triangles()...)
	}
	return out
}

// faceNormal returns the unnormalized face normal of a point triple.
func faceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

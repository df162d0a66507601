package scene

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Cylinder builds a closed cylinder of radius r and height h around the
// origin, its axis along +z, from n rim samples. Cap triangles fan from the
// first rim point; side quads split into two triangles each. Normals reuse
// the rim positions, giving a rounded shading across the side wall.
func Cylinder(r, h float64, n int, color render.Color, specular float64) Mesh {
	top := make([]math3d.Vec3, n)
	bottom := make([]math3d.Vec3, n)

	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n-1)
		p := math3d.V3(r*math.Cos(angle), r*math.Sin(angle), 0)
		top[i] = p.Add(math3d.V3(0, 0, h/2))
		bottom[i] = p.Sub(math3d.V3(0, 0, h/2))
	}

	var mesh Mesh

	tri := func(a, b, c math3d.Vec3) {
		mesh = append(mesh, render.Triangle{
			Points:   [3]math3d.Vec3{a, b, c},
			Normals:  [3]math3d.Vec3{a, b, c},
			Color:    color,
			Specular: specular,
		})
	}

	for i := 1; i < n-1; i++ {
		tri(top[i], top[0], top[i+1])
		tri(bottom[0], bottom[i], bottom[i+1])
	}

	for i := 0; i < n-1; i++ {
		tri(bottom[i], top[i], top[i+1])
		tri(bottom[i+1], bottom[i], top[i+1])
	}

	return mesh
}

// Grid builds a flat w×h sheet of triangles on the z=0 plane with the given
// sampling step. Each cell splits into two triangles; normals are the face
// normals.
func Grid(w, h, step float64, color render.Color, specular float64) Mesh {
	var rows [][]math3d.Vec3
	for y := -h / 2; y <= h/2+step/2; y += step {
		var row []math3d.Vec3
		for x := -w / 2; x <= w/2+step/2; x += step {
			row = append(row, math3d.V3(x, y, 0))
		}
		rows = append(rows, row)
	}

	var mesh Mesh

	tri := func(a, b, c math3d.Vec3) {
		n := faceNormal(a, b, c)
		mesh = append(mesh, render.Triangle{
			Points:   [3]math3d.Vec3{a, b, c},
			Normals:  [3]math3d.Vec3{n, n, n},
			Color:    color,
			Specular: specular,
		})
	}

	for j := 0; j+1 < len(rows); j++ {
		for i := 0; i+1 < len(rows[j]); i++ {
			tri(rows[j][i], rows[j][i+1], rows[j+1][i])
			tri(rows[j+1][i], rows[j][i+1], rows[j+1][i+1])
		}
	}

	return mesh
}

// cubeFaces lists each face as four corner indices; the face quad splits
// into triangles (0,1,2) and (0,2,3).
var cubeFaces = [6][4]int{
	{0, 1, 2, 3}, // back
	{5, 4, 7, 6}, // front
	{4, 0, 3, 7}, // left
	{1, 5, 6, 2}, // right
	{3, 2, 6, 7}, // top
	{4, 5, 1, 0}, // bottom
}

var cubeNormals = [6]math3d.Vec3{
	{X: 0, Y: 0, Z: -1},
	{X: 0, Y: 0, Z: 1},
	{X: -1, Y: 0, Z: 0},
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: -1, Z: 0},
}

// Cube builds an axis-aligned cube of the given edge length centered at the
// origin, with per-face normals.
func Cube(size float64, color render.Color, specular float64) Mesh {
	s := size / 2
	verts := [8]math3d.Vec3{
		{X: -s, Y: -s, Z: -s},
		{X: s, Y: -s, Z: -s},
		{X: s, Y: s, Z: -s},
		{X: -s, Y: s, Z: -s},
		{X: -s, Y: -s, Z: s},
		{X: s, Y: -s, Z: s},
		{X: s, Y: s, Z: s},
		{X: -s, Y: s, Z: s},
	}

	var mesh Mesh
	for fi, f := range cubeFaces {
		n := cubeNormals[fi]
		for _, idx := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
			mesh = append(mesh, render.Triangle{
				Points:   [3]math3d.Vec3{verts[f[idx[0]]], verts[f[idx[1]]], verts[f[idx[2]]]},
				Normals:  [3]math3d.Vec3{n, n, n},
				Color:    color,
				Specular: specular,
			})
		}
	}
	return mesh
}

package scene

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// defaultGLTFColor is used for primitives without a material.
var defaultGLTFColor = render.RGB(200, 200, 200)

// LoadGLTF loads a glTF or GLB file into a flat-colored mesh. Each
// primitive takes its material's base color factor; per-vertex normals come
// from the NORMAL accessor, or from face normals when the file omits it.
func LoadGLTF(path string) (Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var mesh Mesh
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			tris, err := loadPrimitive(doc, prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
			mesh = append(mesh, tris...)
		}
	}
	return mesh, nil
}

func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive) ([]render.Triangle, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		return nil, nil // lines, points etc.
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals []math3d.Vec3
	if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = readVec3Accessor(doc, normIdx)
		if err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}

	var indices []int
	if prim.Indices != nil {
		indices, err = readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	color := primitiveColor(doc, prim)

	var tris []render.Triangle
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= len(positions) || b >= len(positions) || c >= len(positions) {
			return nil, fmt.Errorf("index out of range: %d/%d/%d of %d", a, b, c, len(positions))
		}

		t := render.Triangle{
			Points: [3]math3d.Vec3{positions[a], positions[b], positions[c]},
			Color:  color,
		}
		if len(normals) == len(positions) {
			t.Normals = [3]math3d.Vec3{normals[a], normals[b], normals[c]}
		} else {
			n := faceNormal(positions[a], positions[b], positions[c])
			t.Normals = [3]math3d.Vec3{n, n, n}
		}
		tris = append(tris, t)
	}
	return tris, nil
}

// primitiveColor resolves the material base color factor to an RGBA color.
func primitiveColor(doc *gltf.Document, prim *gltf.Primitive) render.Color {
	if prim.Material == nil {
		return defaultGLTFColor
	}
	mat := doc.Materials[*prim.Material]
	if mat.PBRMetallicRoughness == nil {
		return defaultGLTFColor
	}
	f := mat.PBRMetallicRoughness.BaseColorFactorOrDefault()
	return render.RGBA(
		uint8(f[0]*255),
		uint8(f[1]*255),
		uint8(f[2]*255),
		uint8(f[3]*255),
	)
}

// readVec3Accessor reads VEC3 float data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = 12 // 3 floats
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		off := i * stride
		result[i] = math3d.V3(
			float64(readFloat32(data[off:])),
			float64(readFloat32(data[off+4:])),
			float64(readFloat32(data[off+8:])),
		)
	}
	return result, nil
}

// readIndices reads scalar index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		if stride == 0 {
			stride = 1
		}
		for i := range result {
			result[i] = int(data[i*stride])
		}
	case gltf.ComponentUshort:
		if stride == 0 {
			stride = 2
		}
		for i := range result {
			off := i * stride
			result[i] = int(uint16(data[off]) | uint16(data[off+1])<<8)
		}
	case gltf.ComponentUint:
		if stride == 0 {
			stride = 4
		}
		for i := range result {
			off := i * stride
			result[i] = int(uint32(data[off]) | uint32(data[off+1])<<8 |
				uint32(data[off+2])<<16 | uint32(data[off+3])<<24)
		}
	default:
		return nil, fmt.Errorf("unsupported index component type: %v", accessor.ComponentType)
	}
	return result, nil
}

// accessorBytes returns the accessor's backing bytes and byte stride.
// Only embedded (GLB) buffers are supported.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no embedded data")
	}

	start := view.ByteOffset + accessor.ByteOffset
	return buffer.Data[start:], view.ByteStride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

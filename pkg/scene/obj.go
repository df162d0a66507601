package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// LoadOBJ reads a Wavefront OBJ file in the dialect this project uses:
// v, f and usemtl records, plus inline newmtl records whose following line
// carries the diffuse color. Faces with more than three vertices are
// triangulated as a fan; normals are the face normals.
func LoadOBJ(path string) (Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

// ParseOBJ reads the OBJ dialect from r. See LoadOBJ.
func ParseOBJ(r io.Reader) (Mesh, error) {
	var (
		vertices  []math3d.Vec3
		materials = map[string]render.Color{}
		current   string
		mesh      Mesh
	)

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", lineNo)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			vertices = append(vertices, v)

		case "usemtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("obj line %d: usemtl needs a name", lineNo)
			}
			current = fields[1]

		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("obj line %d: newmtl needs a name", lineNo)
			}
			if !sc.Scan() {
				return nil, fmt.Errorf("obj line %d: newmtl %s missing color line", lineNo, fields[1])
			}
			lineNo++
			color, err := parseMaterialColor(strings.Fields(sc.Text()))
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			materials[fields[1]] = color

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj line %d: face needs at least 3 vertices", lineNo)
			}
			corners := make([]math3d.Vec3, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				// Only the vertex index matters; drop /vt/vn suffixes.
				tok = strings.SplitN(tok, "/", 2)[0]
				idx, err := strconv.Atoi(tok)
				if err != nil {
					return nil, fmt.Errorf("obj line %d: bad index %q", lineNo, tok)
				}
				if idx < 0 {
					idx = len(vertices) + idx
				} else {
					idx--
				}
				if idx < 0 || idx >= len(vertices) {
					return nil, fmt.Errorf("obj line %d: index %s out of range", lineNo, tok)
				}
				corners = append(corners, vertices[idx])
			}

			color, ok := materials[current]
			if !ok {
				color = render.RGB(0, 0, 0)
			}
			for i := 1; i+1 < len(corners); i++ {
				n := faceNormal(corners[0], corners[i], corners[i+1])
				mesh = append(mesh, render.Triangle{
					Points:  [3]math3d.Vec3{corners[0], corners[i], corners[i+1]},
					Normals: [3]math3d.Vec3{n, n, n},
					Color:   color,
				})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	var out [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("bad coordinate %q", f)
		}
		out[i] = v
	}
	return math3d.V3(out[0], out[1], out[2]), nil
}

// parseMaterialColor reads the line after a newmtl record: a keyword
// followed by three color components in [0, 1] and an optional alpha.
func parseMaterialColor(fields []string) (render.Color, error) {
	if len(fields) < 4 {
		return render.Color{}, fmt.Errorf("material color needs 3 components")
	}

	var comp [3]float64
	for i, f := range fields[1:4] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return render.Color{}, fmt.Errorf("bad color component %q", f)
		}
		comp[i] = v
	}

	alpha := 1.0
	if len(fields) >= 5 {
		v, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return render.Color{}, fmt.Errorf("bad alpha %q", fields[4])
		}
		alpha = v
	}

	return render.RGBA(
		uint8(comp[0]*255),
		uint8(comp[1]*255),
		uint8(comp[2]*255),
		uint8(alpha*255),
	), nil
}

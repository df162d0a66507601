package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// File bundles everything a render call needs, as read from a scene file:
// the render configuration, the canvas size and the fully flattened triangle
// and light lists.
type File struct {
	Config    render.Config
	Width     int
	Height    int
	Lights    []render.Light
	Triangles []render.Triangle
}

// The textual scene format is line oriented:
//
//	d
//	vw vh
//	wireframe|fill
//	isometric|perspective
//	W H
//	<light count>, then per light: type word, intensity, optional x y z
//	<triangle count>, then per triangle: nine point floats, R G B, specular
//
// Triangle normals are not part of the format; the parser derives face
// normals from the point winding.

// LoadFile reads a textual scene file from disk.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the textual scene format from r.
func Parse(r io.Reader) (*File, error) {
	tok := newTokenizer(r)
	out := &File{}

	var err error
	if out.Config.D, err = tok.float(); err != nil {
		return nil, fmt.Errorf("near plane: %w", err)
	}
	if out.Config.ViewWidth, err = tok.float(); err != nil {
		return nil, fmt.Errorf("view width: %w", err)
	}
	if out.Config.ViewHeight, err = tok.float(); err != nil {
		return nil, fmt.Errorf("view height: %w", err)
	}

	mode, err := tok.word()
	if err != nil {
		return nil, fmt.Errorf("render mode: %w", err)
	}
	switch mode {
	case "wireframe":
		out.Config.Mode = render.Wireframe
	case "fill":
		out.Config.Mode = render.Fill
	default:
		return nil, fmt.Errorf("unknown render mode %q", mode)
	}

	projection, err := tok.word()
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	switch projection {
	case "isometric":
		out.Config.Projection = render.Isometric
	case "perspective":
		out.Config.Projection = render.Perspective
	default:
		return nil, fmt.Errorf("unknown projection %q", projection)
	}

	if out.Width, err = tok.integer(); err != nil {
		return nil, fmt.Errorf("canvas width: %w", err)
	}
	if out.Height, err = tok.integer(); err != nil {
		return nil, fmt.Errorf("canvas height: %w", err)
	}

	lightCount, err := tok.integer()
	if err != nil {
		return nil, fmt.Errorf("light count: %w", err)
	}
	for i := 0; i < lightCount; i++ {
		light, err := parseLight(tok)
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		out.Lights = append(out.Lights, light)
	}

	triCount, err := tok.integer()
	if err != nil {
		return nil, fmt.Errorf("triangle count: %w", err)
	}
	for i := 0; i < triCount; i++ {
		tri, err := parseTriangle(tok)
		if err != nil {
			return nil, fmt.Errorf("triangle %d: %w", i, err)
		}
		out.Triangles = append(out.Triangles, tri)
	}

	return out, nil
}

func parseLight(tok *tokenizer) (render.Light, error) {
	kind, err := tok.word()
	if err != nil {
		return render.Light{}, err
	}
	intensity, err := tok.float()
	if err != nil {
		return render.Light{}, fmt.Errorf("intensity: %w", err)
	}

	switch kind {
	case "ambient":
		return render.AmbientLight(intensity), nil
	case "point", "directional":
		v, err := tok.vec3()
		if err != nil {
			return render.Light{}, err
		}
		if kind == "point" {
			return render.PointLight(intensity, v), nil
		}
		return render.DirectionalLight(intensity, v), nil
	default:
		return render.Light{}, fmt.Errorf("unknown light type %q", kind)
	}
}

func parseTriangle(tok *tokenizer) (render.Triangle, error) {
	var points [3]math3d.Vec3
	for i := range points {
		v, err := tok.vec3()
		if err != nil {
			return render.Triangle{}, fmt.Errorf("point %d: %w", i, err)
		}
		points[i] = v
	}

	var rgb [3]int
	for i := range rgb {
		c, err := tok.integer()
		if err != nil {
			return render.Triangle{}, fmt.Errorf("color: %w", err)
		}
		rgb[i] = c
	}

	specular, err := tok.float()
	if err != nil {
		return render.Triangle{}, fmt.Errorf("specular: %w", err)
	}

	n := faceNormal(points[0], points[1], points[2])
	return render.Triangle{
		Points:   points,
		Normals:  [3]math3d.Vec3{n, n, n},
		Color:    render.RGB(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2])),
		Specular: specular,
	}, nil
}

// Encode writes the scene back out in the textual format. Normals are not
// written; they are reconstructed on parse.
func (f *File) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%g\n", f.Config.D)
	fmt.Fprintf(bw, "%g %g\n", f.Config.ViewWidth, f.Config.ViewHeight)

	if f.Config.Mode == render.Wireframe {
		fmt.Fprintln(bw, "wireframe")
	} else {
		fmt.Fprintln(bw, "fill")
	}
	if f.Config.Projection == render.Isometric {
		fmt.Fprintln(bw, "isometric")
	} else {
		fmt.Fprintln(bw, "perspective")
	}

	fmt.Fprintf(bw, "%d %d\n", f.Width, f.Height)

	fmt.Fprintf(bw, "%d\n", len(f.Lights))
	for _, l := range f.Lights {
		switch l.Kind {
		case render.LightAmbient:
			fmt.Fprintf(bw, "ambient %g\n", l.Intensity)
		case render.LightPoint:
			fmt.Fprintf(bw, "point %g %g %g %g\n", l.Intensity, l.Position.X, l.Position.Y, l.Position.Z)
		case render.LightDirectional:
			fmt.Fprintf(bw, "directional %g %g %g %g\n", l.Intensity, l.Direction.X, l.Direction.Y, l.Direction.Z)
		}
	}

	fmt.Fprintf(bw, "%d\n", len(f.Triangles))
	for _, t := range f.Triangles {
		for _, p := range t.Points {
			fmt.Fprintf(bw, "%g %g %g ", p.X, p.Y, p.Z)
		}
		fmt.Fprintf(bw, "%d %d %d %g\n", t.Color.R, t.Color.G, t.Color.B, t.Specular)
	}

	return bw.Flush()
}

// tokenizer reads whitespace-separated tokens.
type tokenizer struct {
	sc *bufio.Scanner
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) word() (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return t.sc.Text(), nil
}

func (t *tokenizer) float() (float64, error) {
	w, err := t.word()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", w)
	}
	return v, nil
}

func (t *tokenizer) integer() (int, error) {
	w, err := t.word()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(w)
	if err != nil {
		return 0, fmt.Errorf("expected integer, got %q", w)
	}
	return v, nil
}

func (t *tokenizer) vec3() (math3d.Vec3, error) {
	var out [3]float64
	for i := range out {
		v, err := t.float()
		if err != nil {
			return math3d.Vec3{}, err
		}
		out[i] = v
	}
	return math3d.V3(out[0], out[1], out[2]), nil
}

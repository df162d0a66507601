package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// The binary scene block is little-endian and mirrors the DTO layout of the
// renderer's C heritage: a config record (d, view extents as float32, mode
// and projection as int32 codes), the canvas size, then counted triangle and
// light arrays. Scene values travel as float32 and widen on decode.

type configDTO struct {
	D          float32
	ViewWidth  float32
	ViewHeight float32
	Mode       int32
	Projection int32
}

type triangleDTO struct {
	Points   [3][3]float32
	Normals  [3][3]float32
	Color    [4]uint8
	Specular float32
}

type lightDTO struct {
	Kind      int32
	Intensity float32
	Position  [3]float32
}

// LoadBinary reads a binary scene block from disk.
func LoadBinary(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return DecodeBinary(f)
}

// DecodeBinary reads the binary scene block from r.
func DecodeBinary(r io.Reader) (*File, error) {
	var cfg configDTO
	if err := binary.Read(r, binary.LittleEndian, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	mode := render.RenderMode(cfg.Mode)
	if mode != render.Wireframe && mode != render.Fill {
		return nil, fmt.Errorf("unknown render mode code %d", cfg.Mode)
	}
	projection := render.Projection(cfg.Projection)
	if projection != render.Isometric && projection != render.Perspective {
		return nil, fmt.Errorf("unknown projection code %d", cfg.Projection)
	}

	out := &File{
		Config: render.Config{
			D:          float64(cfg.D),
			ViewWidth:  float64(cfg.ViewWidth),
			ViewHeight: float64(cfg.ViewHeight),
			Mode:       mode,
			Projection: projection,
		},
	}

	var size [2]int32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("read canvas size: %w", err)
	}
	out.Width, out.Height = int(size[0]), int(size[1])

	var triCount uint32
	if err := binary.Read(r, binary.LittleEndian, &triCount); err != nil {
		return nil, fmt.Errorf("read triangle count: %w", err)
	}
	for i := uint32(0); i < triCount; i++ {
		var dto triangleDTO
		if err := binary.Read(r, binary.LittleEndian, &dto); err != nil {
			return nil, fmt.Errorf("read triangle %d: %w", i, err)
		}
		out.Triangles = append(out.Triangles, dto.triangle())
	}

	var lightCount uint32
	if err := binary.Read(r, binary.LittleEndian, &lightCount); err != nil {
		return nil, fmt.Errorf("read light count: %w", err)
	}
	for i := uint32(0); i < lightCount; i++ {
		var dto lightDTO
		if err := binary.Read(r, binary.LittleEndian, &dto); err != nil {
			return nil, fmt.Errorf("read light %d: %w", i, err)
		}
		light, err := dto.light()
		if err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
		out.Lights = append(out.Lights, light)
	}

	return out, nil
}

// EncodeBinary writes the scene as a binary block.
func (f *File) EncodeBinary(w io.Writer) error {
	cfg := configDTO{
		D:          float32(f.Config.D),
		ViewWidth:  float32(f.Config.ViewWidth),
		ViewHeight: float32(f.Config.ViewHeight),
		Mode:       int32(f.Config.Mode),
		Projection: int32(f.Config.Projection),
	}
	if err := binary.Write(w, binary.LittleEndian, cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	size := [2]int32{int32(f.Width), int32(f.Height)}
	if err := binary.Write(w, binary.LittleEndian, size); err != nil {
		return fmt.Errorf("write canvas size: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.Triangles))); err != nil {
		return fmt.Errorf("write triangle count: %w", err)
	}
	for i, t := range f.Triangles {
		if err := binary.Write(w, binary.LittleEndian, newTriangleDTO(t)); err != nil {
			return fmt.Errorf("write triangle %d: %w", i, err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.Lights))); err != nil {
		return fmt.Errorf("write light count: %w", err)
	}
	for i, l := range f.Lights {
		if err := binary.Write(w, binary.LittleEndian, newLightDTO(l)); err != nil {
			return fmt.Errorf("write light %d: %w", i, err)
		}
	}

	return nil
}

func vecDTO(v math3d.Vec3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func vecFromDTO(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

func newTriangleDTO(t render.Triangle) triangleDTO {
	var dto triangleDTO
	for i := range t.Points {
		dto.Points[i] = vecDTO(t.Points[i])
		dto.Normals[i] = vecDTO(t.Normals[i])
	}
	dto.Color = [4]uint8{t.Color.R, t.Color.G, t.Color.B, t.Color.A}
	dto.Specular = float32(t.Specular)
	return dto
}

func (dto triangleDTO) triangle() render.Triangle {
	var t render.Triangle
	for i := range dto.Points {
		t.Points[i] = vecFromDTO(dto.Points[i])
		t.Normals[i] = vecFromDTO(dto.Normals[i])
	}
	t.Color = render.RGBA(dto.Color[0], dto.Color[1], dto.Color[2], dto.Color[3])
	t.Specular = float64(dto.Specular)
	return t
}

func newLightDTO(l render.Light) lightDTO {
	dto := lightDTO{
		Kind:      int32(l.Kind),
		Intensity: float32(l.Intensity),
	}
	switch l.Kind {
	case render.LightPoint:
		dto.Position = vecDTO(l.Position)
	case render.LightDirectional:
		dto.Position = vecDTO(l.Direction)
	}
	return dto
}

func (dto lightDTO) light() (render.Light, error) {
	intensity := float64(dto.Intensity)
	switch render.LightKind(dto.Kind) {
	case render.LightAmbient:
		return render.AmbientLight(intensity), nil
	case render.LightPoint:
		return render.PointLight(intensity, vecFromDTO(dto.Position)), nil
	case render.LightDirectional:
		return render.DirectionalLight(intensity, vecFromDTO(dto.Position)), nil
	default:
		return render.Light{}, fmt.Errorf("unknown light type code %d", dto.Kind)
	}
}

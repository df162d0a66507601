// scanline - software triangle rasterizer
// Render scene files and 3D models to PNG/WebP or view them in the terminal.
//
// Controls:
//
//	Mouse drag  - Rotate object (yaw/pitch)
//	Scroll      - Scale object
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation and scale
//	X           - Toggle wireframe/fill
//	P           - Toggle perspective/isometric
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

var (
	modeFlag       = flag.String("mode", "", "Render mode (wireframe|fill)")
	projectionFlag = flag.String("projection", "", "Projection (perspective|isometric)")
	nearFlag       = flag.Float64("d", 1, "Near plane distance")
	viewFlag       = flag.String("view", "2x2", "View window extents (VWxVH)")
	sizeFlag       = flag.String("size", "400x400", "Output canvas size for -o (WxH)")
	outFlag        = flag.String("o", "", "Render once to this PNG/WebP file and exit")
	targetFPS      = flag.Int("fps", 60, "Target FPS for the interactive viewer")
	bgColor        = flag.String("bg", "30,30,40", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scanline - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scanline [options] <scene.scene|scene.bin|model.glb|model.obj>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate object\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Scale object\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  P           - Toggle projection\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis with
// spring decay.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with a harmonica spring for smooth
// velocity decay.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds rotation with harmonica spring physics.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// loaded bundles everything read from the input file.
type loaded struct {
	scene  *scene.Scene
	object *scene.Object // the object user input manipulates
	config render.Config
	width  int
	height int
}

// defaultLights approximate a studio setup: soft ambient fill, a key point
// light and a weak directional back light.
func defaultLights(s *scene.Scene) {
	s.AddLight(render.AmbientLight(0.2))
	s.AddLight(render.PointLight(0.6, math3d.V3(2, 1, 0)))
	s.AddLight(render.DirectionalLight(0.2, math3d.V3(1, 4, 4)))
}

// load reads a scene or model file. Model files get a default light rig and
// an object transform that centers the mesh in view.
func load(path string) (*loaded, error) {
	out := &loaded{
		config: render.Config{
			D:          1,
			ViewWidth:  2,
			ViewHeight: 2,
			Mode:       render.Fill,
			Projection: render.Perspective,
		},
		width:  400,
		height: 400,
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".scene", ".txt", ".bin":
		var f *scene.File
		var err error
		if ext == ".bin" {
			f, err = scene.LoadBinary(path)
		} else {
			f, err = scene.LoadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}

		out.config = f.Config
		out.width, out.height = f.Width, f.Height
		out.scene = scene.New()
		out.object = scene.NewObject(filepath.Base(path), scene.Mesh(f.Triangles))
		out.scene.AddObject(out.object)
		for _, l := range f.Lights {
			out.scene.AddLight(l)
		}

	case ".glb", ".gltf", ".obj":
		var mesh scene.Mesh
		var err error
		if ext == ".obj" {
			mesh, err = scene.LoadOBJ(path)
		} else {
			mesh, err = scene.LoadGLTF(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if len(mesh) == 0 {
			return nil, fmt.Errorf("model %s has no triangles", path)
		}

		// Center the mesh at the origin and scale it to a unit-ish size so
		// the stock camera setup frames it.
		center := mesh.Center()
		for i := range mesh {
			for j := range mesh[i].Points {
				mesh[i].Points[j] = mesh[i].Points[j].Sub(center)
			}
		}

		out.object = scene.NewObject(filepath.Base(path), mesh)
		if maxDim := mesh.MaxDim(); maxDim > 0 {
			out.object.Scale = 2.0 / maxDim
		}
		out.object.Position = math3d.V3(0, 0, 3.5)

		out.scene = scene.New()
		out.scene.AddObject(out.object)
		defaultLights(out.scene)

	default:
		return nil, fmt.Errorf("unsupported format: %s (use .scene, .bin, .obj or .glb)", ext)
	}

	return out, applyFlags(out)
}

// applyFlags lets explicitly passed command-line options override what the
// file specified. Defaults never clobber a scene file's own config.
func applyFlags(l *loaded) error {
	provided := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { provided[f.Name] = true })

	switch *modeFlag {
	case "":
	case "wireframe":
		l.config.Mode = render.Wireframe
	case "fill":
		l.config.Mode = render.Fill
	default:
		return fmt.Errorf("unknown mode %q", *modeFlag)
	}

	switch *projectionFlag {
	case "":
	case "perspective":
		l.config.Projection = render.Perspective
	case "isometric":
		l.config.Projection = render.Isometric
	default:
		return fmt.Errorf("unknown projection %q", *projectionFlag)
	}

	if provided["d"] && *nearFlag > 0 {
		l.config.D = *nearFlag
	}

	if provided["view"] {
		var vw, vh float64
		if n, _ := fmt.Sscanf(*viewFlag, "%gx%g", &vw, &vh); n == 2 && vw > 0 && vh > 0 {
			l.config.ViewWidth, l.config.ViewHeight = vw, vh
		} else {
			return fmt.Errorf("bad view extents %q", *viewFlag)
		}
	}

	if provided["size"] {
		var w, h int
		if n, _ := fmt.Sscanf(*sizeFlag, "%dx%d", &w, &h); n == 2 && w > 0 && h > 0 {
			l.width, l.height = w, h
		} else {
			return fmt.Errorf("bad canvas size %q", *sizeFlag)
		}
	}

	return nil
}

func parseBG() render.Color {
	var r, g, b uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &r, &g, &b)
	return render.RGB(r, g, b)
}

func run(path string) error {
	l, err := load(path)
	if err != nil {
		return err
	}

	if *outFlag != "" {
		return snapshot(l, *outFlag)
	}
	return view(l)
}

// snapshot renders the scene once and writes it to an image file.
func snapshot(l *loaded, out string) error {
	fb := render.NewFramebuffer(l.width, l.height)
	fb.Clear(parseBG())

	renderer := render.NewRenderer(l.config)
	renderer.Render(fb, l.scene.Flatten(), l.scene.Lights())

	switch strings.ToLower(filepath.Ext(out)) {
	case ".webp":
		err := fb.SaveWebP(out)
		if err != nil {
			return fmt.Errorf("save webp: %w", err)
		}
	case ".png":
		err := fb.SavePNG(out)
		if err != nil {
			return fmt.Errorf("save png: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s (use .png or .webp)", out)
	}

	fmt.Fprintf(os.Stderr, "Rendered %d triangles to %s (%dx%d)\n",
		len(l.scene.Flatten()), out, l.width, l.height)
	return nil
}

// view runs the interactive terminal session.
func view(l *loaded) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()
	fb := render.NewFramebuffer(fbWidth, fbHeight)

	bg := parseBG()
	baseScale := l.object.Scale
	scale := baseScale
	rotation := NewRotationState(*targetFPS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Input state
	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				termRenderer = render.NewTerminalRenderer(term, width, height)
				fbWidth, fbHeight = termRenderer.FramebufferSize()
				fb = render.NewFramebuffer(fbWidth, fbHeight)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
					cancel()
					return
				case ev.MatchString("q"):
					inputTorque.roll = -torqueStrength
				case ev.MatchString("e"):
					inputTorque.roll = torqueStrength
				case ev.MatchString("w", "up"):
					inputTorque.pitch = -torqueStrength
				case ev.MatchString("s", "down"):
					inputTorque.pitch = torqueStrength
				case ev.MatchString("a", "left"):
					inputTorque.yaw = -torqueStrength
				case ev.MatchString("d", "right"):
					inputTorque.yaw = torqueStrength
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
						(rand.Float64()-0.5)*1.5,
					)
				case ev.MatchString("r"):
					rotation.Reset()
					scale = baseScale
				case ev.MatchString("x"):
					if l.config.Mode == render.Wireframe {
						l.config.Mode = render.Fill
					} else {
						l.config.Mode = render.Wireframe
					}
				case ev.MatchString("p"):
					if l.config.Projection == render.Perspective {
						l.config.Projection = render.Isometric
					} else {
						l.config.Projection = render.Perspective
					}
				case ev.MatchString("+", "="):
					scale *= 1.1
				case ev.MatchString("-", "_"):
					scale /= 1.1
				}

			case uv.KeyReleaseEvent:
				switch {
				case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
					inputTorque.pitch = 0
				case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
					inputTorque.yaw = 0
				case ev.MatchString("q"), ev.MatchString("e"):
					inputTorque.roll = 0
				}

			case uv.MouseClickEvent:
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				if mouseDown {
					dx := ev.X - lastMouseX
					dy := ev.Y - lastMouseY
					rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					scale *= 1.1
				case uv.MouseWheelDown:
					scale /= 1.1
				}
			}
		}
	}()

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastStatus := ""

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		default:
		}

		now := time.Now()

		// Apply held-key torque and decay it (release events are unreliable).
		dt := targetDuration.Seconds()
		rotation.ApplyImpulse(
			inputTorque.pitch*dt,
			inputTorque.yaw*dt,
			inputTorque.roll*dt,
		)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9
		inputTorque.roll *= 0.9

		rotation.Update()

		l.object.Rotation = math3d.V3(
			rotation.Pitch.Position,
			rotation.Yaw.Position,
			rotation.Roll.Position,
		)
		l.object.Scale = scale

		// The view window follows the terminal aspect ratio so the object
		// is not squashed.
		cfg := l.config
		if fbHeight > 0 {
			cfg.ViewWidth = cfg.ViewHeight * float64(fbWidth) / float64(fbHeight)
		}

		fb.Clear(bg)
		render.NewRenderer(cfg).Render(fb, l.scene.Flatten(), l.scene.Lights())

		termRenderer.Render(fb)
		if err := termRenderer.Flush(); err != nil {
			cleanup()
			return fmt.Errorf("flush: %w", err)
		}

		// One-line status bar at the bottom.
		status := statusLine(l.object.Name, len(l.object.Mesh), cfg)
		if status != lastStatus {
			fmt.Printf("\x1b[%d;1H\x1b[2K%s", height, status)
			lastStatus = status
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

func statusLine(name string, triangles int, cfg render.Config) string {
	mode := "fill"
	if cfg.Mode == render.Wireframe {
		mode = "wireframe"
	}
	projection := "perspective"
	if cfg.Projection == render.Isometric {
		projection = "isometric"
	}
	return fmt.Sprintf(" %s | %d tris | %s | %s | d=%s ",
		name, triangles, mode, projection, trimFloat(cfg.D))
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

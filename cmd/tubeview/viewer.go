package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/config"
	"github.com/Faultbox/tubemesh/internal/engine/camera"
	"github.com/Faultbox/tubemesh/internal/engine/debug"
	"github.com/Faultbox/tubemesh/internal/engine/input"
	"github.com/Faultbox/tubemesh/internal/engine/picking"
	"github.com/Faultbox/tubemesh/internal/engine/renderer"
	"github.com/Faultbox/tubemesh/internal/engine/window"
	"github.com/Faultbox/tubemesh/internal/logger"
	"github.com/Faultbox/tubemesh/internal/pathcfg"
	"github.com/Faultbox/tubemesh/internal/tube"
	"github.com/Faultbox/tubemesh/internal/tube/modifier"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

var (
	tubeTint     = [3]float32{0.95, 0.75, 0.45}
	pathColor    = [3]float32{0.4, 0.6, 1.0}
	markerColor  = [3]float32{0.9, 0.9, 0.9}
	selectColor  = [3]float32{1.0, 0.3, 0.3}
	boundsColor  = [3]float32{0.35, 0.35, 0.4}
	pickPixelTol = float32(12)
)

// viewer owns the window, the path being edited and its tube builder.
type viewer struct {
	cfg *config.Config
	log *zap.Logger

	win     *window.Window
	in      *input.Input
	render  *renderer.Renderer
	cam     *camera.OrbitCamera
	gpuMesh *renderer.GPUMesh
	shots   *debug.Screenshotter

	path    *pathcfg.Config
	builder *tube.Builder

	selected int
	dragging bool
	overlay  bool
	running  bool
	wantShot bool

	frames    int
	lastTitle uint64
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{
		cfg:     cfg,
		log:     logger.Named("viewer"),
		in:      input.New(),
		cam:     camera.NewOrbitCamera(),
		shots:   debug.NewScreenshotter("screenshots", "tubeview"),
		overlay: true,
		running: true,
	}

	var err error
	v.win, err = window.New(window.Config{
		Title:      "tubeview",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	w, h := v.win.Size()
	v.render, err = renderer.New(renderer.Config{Width: w, Height: h})
	if err != nil {
		v.win.Close()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	v.gpuMesh = renderer.NewGPUMesh(v.log)

	pipeline, err := modifier.FromConfig(cfg.Modifiers)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("modifiers: %w", err)
	}
	v.path = pathcfg.New(cfg.Tube.Vec3Points(), cfg.Tube.FaceCount, cfg.Tube.Radius)
	v.builder = tube.NewBuilder(v.path,
		tube.WithModifiers(pipeline...),
		tube.WithTarget(v.gpuMesh),
		tube.WithLogger(logger.Named("tube")),
	)
	v.builder.FullRebuild()
	v.fitCamera()
	return v, nil
}

// Close releases GPU and window resources.
func (v *viewer) Close() {
	if v.gpuMesh != nil {
		v.gpuMesh.Delete()
	}
	if v.render != nil {
		v.render.Close()
	}
	if v.win != nil {
		v.win.Close()
	}
}

// Run loops until the window closes. Path edits from input are applied with
// one IncrementalUpdate per frame however many arrived.
func (v *viewer) Run() {
	for v.running {
		if v.in.Update() {
			break
		}
		v.handleInput()
		v.builder.IncrementalUpdate()
		v.draw()
		if v.wantShot {
			v.screenshot()
			v.wantShot = false
		}
		v.win.SwapBuffers()
		v.updateTitle()
	}
}

func (v *viewer) draw() {
	w, h := v.render.Size()
	vp := v.cam.ViewProjection(w, h)

	v.render.Begin()
	v.render.DrawMesh(v.gpuMesh, vp, tubeTint)
	if !v.overlay {
		return
	}

	points := v.path.Points()
	size := v.markerSize()
	b := v.builder.Mesh().Bounds
	v.render.DrawLines(debug.BoxLines(b.Min, b.Max, 0), vp, boundsColor)
	v.render.DrawLines(debug.PolylineLines(points), vp, pathColor)
	v.render.DrawLines(debug.MarkerLines(points, size), vp, markerColor)
	if p, ok := v.path.GetPoint(v.selected); ok {
		v.render.DrawLines(debug.MarkerLines([]pmath.Vec3{p}, size*2), vp, selectColor)
	}
}

func (v *viewer) markerSize() float32 {
	return max(v.path.Radius()*1.5, v.cam.Distance*0.01)
}

func (v *viewer) updateTitle() {
	v.frames++
	now := window.Ticks()
	if now-v.lastTitle < 500 {
		return
	}
	fps := float64(v.frames) * 1000 / float64(now-v.lastTitle)
	v.frames, v.lastTitle = 0, now

	m := v.builder.Mesh()
	v.win.SetTitle(fmt.Sprintf("tubeview - %d points, %d segments, %d tris, point %d - %.0f fps",
		v.path.PointCount(), v.builder.SegmentCount(), m.TriangleCount(), v.selected, fps))
}

func (v *viewer) fitCamera() {
	b := v.builder.Mesh().Bounds
	v.cam.FitBounds(b.Min, b.Max)
}

func (v *viewer) handleInput() {
	for _, e := range v.in.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.win.Size()
			v.render.Resize(w, h)
		case input.EventKeyDown:
			v.handleKey(e)
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.pick(e.MouseX, e.MouseY)
			}
		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}
		case input.EventMouseMove:
			switch {
			case v.dragging:
				v.drag(e.MouseX, e.MouseY)
			case v.in.IsButtonHeld(sdl.BUTTON_RIGHT):
				v.cam.HandleDrag(e.DeltaX, e.DeltaY)
			}
		case input.EventMouseWheel:
			v.cam.HandleZoom(e.DeltaY)
		}
	}
}

func (v *viewer) handleKey(e input.Event) {
	step := v.cfg.Viewer.MoveStep
	switch e.Key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_TAB:
		delta := 1
		if e.Shift {
			delta = -1
		}
		v.selected = wrapIndex(v.selected, delta, v.path.PointCount())
	case sdl.SCANCODE_LEFT:
		v.nudge(pmath.Vec3{X: -step})
	case sdl.SCANCODE_RIGHT:
		v.nudge(pmath.Vec3{X: step})
	case sdl.SCANCODE_UP:
		v.nudge(pmath.Vec3{Z: -step})
	case sdl.SCANCODE_DOWN:
		v.nudge(pmath.Vec3{Z: step})
	case sdl.SCANCODE_PAGEUP:
		v.nudge(pmath.Vec3{Y: step})
	case sdl.SCANCODE_PAGEDOWN:
		v.nudge(pmath.Vec3{Y: -step})
	case sdl.SCANCODE_A:
		v.path.AddPoint(appendPosition(v.path.Points(), step*5))
		v.selected = v.path.PointCount() - 1
	case sdl.SCANCODE_I:
		at, pos := insertPosition(v.path.Points(), v.selected, step*5)
		if v.path.InsertPoint(at, pos) {
			v.selected = at
		}
	case sdl.SCANCODE_DELETE, sdl.SCANCODE_BACKSPACE, sdl.SCANCODE_X:
		if v.path.RemovePoint(v.selected) {
			v.selected = min(v.selected, v.path.PointCount()-1)
		}
	case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
		v.path.SetFaceCount(v.path.FaceCount() + 2)
	case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
		v.path.SetFaceCount(v.path.FaceCount() - 2)
	case sdl.SCANCODE_RIGHTBRACKET:
		v.path.SetRadius(v.path.Radius() * 1.1)
	case sdl.SCANCODE_LEFTBRACKET:
		v.path.SetRadius(v.path.Radius() / 1.1)
	case sdl.SCANCODE_F:
		v.fitCamera()
	case sdl.SCANCODE_W:
		v.render.Wireframe = !v.render.Wireframe
	case sdl.SCANCODE_O:
		v.overlay = !v.overlay
	case sdl.SCANCODE_F12:
		v.wantShot = true
	}
}

func (v *viewer) nudge(delta pmath.Vec3) {
	p, ok := v.path.GetPoint(v.selected)
	if !ok {
		return
	}
	v.path.UpdatePointPosition(v.selected, p.Add(delta))
}

func (v *viewer) ray(x, y int) (picking.Ray, bool) {
	w, h := v.render.Size()
	inv, ok := v.cam.ViewProjection(w, h).Inverse()
	if !ok {
		return picking.Ray{}, false
	}
	return picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv), true
}

// pick selects the anchor under the cursor and starts dragging it.
func (v *viewer) pick(x, y int) {
	r, ok := v.ray(x, y)
	if !ok {
		return
	}
	_, h := v.render.Size()
	// Pixel tolerance at the orbit center, converted to world units.
	worldPerPixel := 2 * v.cam.Distance * math32.Tan(v.cam.FovY/2) / float32(max(h, 1))
	if i, ok := picking.PickPoint(r, v.path.Points(), pickPixelTol*worldPerPixel); ok {
		v.selected = i
		v.dragging = true
		v.log.Debug("point picked", zap.Int("index", i))
	}
}

// drag moves the selected point within the plane facing the camera.
func (v *viewer) drag(x, y int) {
	p, ok := v.path.GetPoint(v.selected)
	if !ok {
		return
	}
	r, ok := v.ray(x, y)
	if !ok {
		return
	}
	normal := v.cam.Position().Sub(v.cam.Center).Normalize()
	if hit, ok := r.IntersectPlane(p, normal); ok {
		v.path.UpdatePointPosition(v.selected, hit)
	}
}

func (v *viewer) screenshot() {
	w, h := v.render.Size()
	name, err := v.shots.Save(v.render.ReadPixels(), w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

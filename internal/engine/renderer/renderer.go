// Package renderer draws tube meshes and line overlays with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/engine/lighting"
	"github.com/Faultbox/tubemesh/internal/engine/shader"
	"github.com/Faultbox/tubemesh/internal/logger"
	pmath "github.com/Faultbox/tubemesh/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	tubeProgram *shader.Program
	lineProgram *shader.Program
	checker     uint32
	lines       *lineBuffer

	Light     lighting.Light
	Wireframe bool
}

// New creates a renderer. It must be called after the OpenGL context exists.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		Light:  lighting.DefaultLight(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	if r.tubeProgram, err = shader.New(tubeVertexShader, tubeFragmentShader); err != nil {
		return nil, fmt.Errorf("tube shader: %w", err)
	}
	if r.lineProgram, err = shader.New(lineVertexShader, lineFragmentShader); err != nil {
		r.tubeProgram.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.checker = uploadTexture(Checker(256, 8))
	r.lines = newLineBuffer()
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.lines.delete()
	gl.DeleteTextures(1, &r.checker)
	r.lineProgram.Delete()
	r.tubeProgram.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawMesh draws m textured with a checker pattern so UV tiling shows.
func (r *Renderer) DrawMesh(m *GPUMesh, viewProj pmath.Mat4, tint [3]float32) {
	p := r.tubeProgram
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetVec3("uLightDir", r.Light.Direction)
	p.SetColor("uAmbient", r.Light.Ambient)
	p.SetColor("uDiffuse", r.Light.Diffuse)
	p.SetColor("uTint", tint)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.checker)
	p.SetInt("uTexture", 0)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	m.Draw()
}

// DrawLines draws line vertices (x, y, z per vertex, two per line) on top
// of the scene.
func (r *Renderer) DrawLines(vertices []float32, viewProj pmath.Mat4, rgb [3]float32) {
	r.lines.upload(vertices)
	p := r.lineProgram
	p.Use()
	p.SetMat4("uViewProj", viewProj)
	p.SetColor("uColor", rgb)

	gl.Disable(gl.DEPTH_TEST)
	r.lines.draw()
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels returns the framebuffer as bottom-up RGBA.
func (r *Renderer) ReadPixels() []byte {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Checker returns a size×size grey checkerboard of cells×cells squares.
func Checker(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/cells, 1)
	light := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.RGBA{R: 150, G: 150, B: 160, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func uploadTexture(img *image.RGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	b := img.Bounds()
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/tubemesh/internal/tube"
)

// floatsPerVertex is position, normal and uv interleaved.
const floatsPerVertex = 3 + 3 + 2

// GPUMesh holds a tube mesh in GPU buffers. It implements tube.Target so a
// Builder can commit straight into it.
type GPUMesh struct {
	vao, vbo, ebo uint32

	vertexCap  int
	indexCap   int
	indexCount int32

	scratch []float32
	log     *zap.Logger
}

// NewGPUMesh allocates the vertex array and its buffers.
func NewGPUMesh(log *zap.Logger) *GPUMesh {
	m := &GPUMesh{log: log}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BindVertexArray(0)
	return m
}

// Commit uploads m, growing the buffers only when it no longer fits.
func (g *GPUMesh) Commit(m *tube.Mesh) {
	g.scratch = Interleave(m, g.scratch[:0])
	g.indexCount = int32(len(m.Triangles))
	if len(g.scratch) == 0 || len(m.Triangles) == 0 {
		g.indexCount = 0
		return
	}

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if n := len(g.scratch); n > g.vertexCap {
		g.vertexCap = growCap(n)
		gl.BufferData(gl.ARRAY_BUFFER, g.vertexCap*4, nil, gl.DYNAMIC_DRAW)
		g.log.Debug("vertex buffer grown", zap.Int("floats", g.vertexCap))
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(g.scratch)*4, gl.Ptr(g.scratch))

	if n := len(m.Triangles); n > g.indexCap {
		g.indexCap = growCap(n)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, g.indexCap*4, nil, gl.DYNAMIC_DRAW)
		g.log.Debug("index buffer grown", zap.Int("indices", g.indexCap))
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(m.Triangles)*4, gl.Ptr(m.Triangles))

	gl.BindVertexArray(0)
}

// Draw issues the indexed draw call with whatever program is bound.
func (g *GPUMesh) Draw() {
	if g.indexCount == 0 {
		return
	}
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete frees the GPU buffers.
func (g *GPUMesh) Delete() {
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	gl.DeleteVertexArrays(1, &g.vao)
}

// Interleave appends position, normal and uv for every vertex of m to dst.
func Interleave(m *tube.Mesh, dst []float32) []float32 {
	for i, v := range m.Vertices {
		n := m.Normals[i]
		uv := m.UVs[i]
		dst = append(dst, v.X, v.Y, v.Z, n.X, n.Y, n.Z, uv.X, uv.Y)
	}
	return dst
}

// growCap rounds n up with headroom so small edits do not reallocate.
func growCap(n int) int {
	c := 1024
	for c < n {
		c *= 2
	}
	return c
}

// lineBuffer streams line vertices for overlays.
type lineBuffer struct {
	vao, vbo uint32
	cap      int
	count    int32
}

func newLineBuffer() *lineBuffer {
	b := &lineBuffer{}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return b
}

func (b *lineBuffer) upload(vertices []float32) {
	b.count = int32(len(vertices) / 3)
	if len(vertices) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(vertices) > b.cap {
		b.cap = growCap(len(vertices))
		gl.BufferData(gl.ARRAY_BUFFER, b.cap*4, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
}

func (b *lineBuffer) draw() {
	if b.count == 0 {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.LINES, 0, b.count)
	gl.BindVertexArray(0)
}

func (b *lineBuffer) delete() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
}

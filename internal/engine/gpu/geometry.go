package gpu

import "fmt"

// Geometry owns the vertex/index buffers of one indexed triangle list.
type Geometry struct {
	dev        Device
	va         VertexArray
	indexCount int32
}

// NewGeometry uploads interleaved vertices and triangle indices.
func NewGeometry(dev Device, name string, vertices []float32, layout VertexLayout, indices []uint32) (*Geometry, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, &ResourceError{Kind: "vertex array", Name: name, Err: fmt.Errorf("empty geometry")}
	}
	if layout.Stride <= 0 || len(vertices)%layout.Stride != 0 {
		return nil, &ResourceError{Kind: "vertex array", Name: name,
			Err: fmt.Errorf("%d floats do not divide into stride %d", len(vertices), layout.Stride)}
	}
	va, err := dev.CreateVertexArray(vertices, layout, indices)
	if err != nil {
		return nil, &ResourceError{Kind: "vertex array", Name: name, Err: err}
	}
	return &Geometry{dev: dev, va: va, indexCount: int32(len(indices))}, nil
}

// IndexCount returns the number of indices drawn by Draw.
func (g *Geometry) IndexCount() int32 { return g.indexCount }

// VertexArray returns the driver handles.
func (g *Geometry) VertexArray() VertexArray { return g.va }

// Bind binds the vertex array and its buffers.
func (g *Geometry) Bind() {
	g.dev.BindVertexArray(g.va.VAO)
}

// Draw issues one indexed triangle-list draw. The geometry must be bound.
func (g *Geometry) Draw() {
	g.dev.DrawElements(g.indexCount)
}

// Destroy deletes the buffers. Safe to call more than once.
func (g *Geometry) Destroy() {
	if g.va.VAO != 0 {
		g.dev.DeleteVertexArray(g.va)
		g.va = VertexArray{}
	}
}

// Framebuffer is a render target whose only attachment is a layered 3D texture.
type Framebuffer struct {
	dev Device
	id  uint32
}

// NewLayeredFramebuffer attaches every layer of tex.
func NewLayeredFramebuffer(dev Device, name string, tex *Texture) (*Framebuffer, error) {
	id, err := dev.CreateLayeredFramebuffer(tex.ID())
	if err != nil {
		return nil, &ResourceError{Kind: "framebuffer", Name: name, Err: err}
	}
	return &Framebuffer{dev: dev, id: id}, nil
}

// ID returns the driver handle.
func (f *Framebuffer) ID() uint32 { return f.id }

// Bind makes the framebuffer the current render target.
func (f *Framebuffer) Bind() {
	f.dev.BindFramebuffer(f.id)
}

// Destroy deletes the framebuffer. Safe to call more than once.
func (f *Framebuffer) Destroy() {
	if f.id != 0 {
		f.dev.DeleteFramebuffer(f.id)
		f.id = 0
	}
}

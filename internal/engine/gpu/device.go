// Package gpu is the thin ownership layer over GPU objects: shader programs,
// textures and vertex/index buffers. All calls go through a Device so the
// pipeline can be driven by OpenGL in the application and by a recorder in tests.
package gpu

import "image"

// TextureTarget selects the dimensionality of a texture binding.
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	Texture3D
)

// String returns the GL-style name of the target.
func (t TextureTarget) String() string {
	if t == Texture3D {
		return "TEXTURE_3D"
	}
	return "TEXTURE_2D"
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil

	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// Capability is a toggleable pipeline state.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
	Blend
	ScissorTest
)

// String returns the GL-style name of the capability.
func (c Capability) String() string {
	switch c {
	case CullFace:
		return "CULL_FACE"
	case Blend:
		return "BLEND"
	case ScissorTest:
		return "SCISSOR_TEST"
	default:
		return "DEPTH_TEST"
	}
}

// ShaderSources holds the GLSL stages of one program. Geometry is optional.
type ShaderSources struct {
	Name     string
	Vertex   string
	Geometry string
	Fragment string
}

// VertexAttrib describes one float attribute inside an interleaved vertex.
type VertexAttrib struct {
	Location uint32
	Size     int32 // component count
	Offset   int   // in floats
}

// VertexLayout describes an interleaved float vertex buffer.
type VertexLayout struct {
	Stride  int // in floats
	Attribs []VertexAttrib
}

// VertexArray is the set of handles backing one indexed geometry.
type VertexArray struct {
	VAO uint32
	VBO uint32
	EBO uint32
}

// Info describes the device driver.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
}

// Device is the set of graphics driver entry points the engine uses.
// Every call blocks until the driver returns; none are safe for concurrent use.
type Device interface {
	Info() Info

	CompileProgram(src ShaderSources) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v [3]float32)
	UniformMatrix4(location int32, m [16]float32)

	CreateTexture2D(img *image.RGBA) (uint32, error)
	CreateTexture3D(size int32) (uint32, error)
	DeleteTexture(tex uint32)
	BindTexture(unit uint32, target TextureTarget, tex uint32)
	BindImageTexture(unit uint32, tex uint32)
	GenerateMipmap(target TextureTarget, tex uint32)

	CreateVertexArray(vertices []float32, layout VertexLayout, indices []uint32) (VertexArray, error)
	DeleteVertexArray(va VertexArray)
	BindVertexArray(vao uint32)
	DrawElements(count int32)

	CreateLayeredFramebuffer(tex uint32) (uint32, error)
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	ColorMask(enabled bool)
	FrontFaceCW()
	MemoryBarrier()
	ReadPixels(width, height int32) []byte
}

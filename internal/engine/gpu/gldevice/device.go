// Package gldevice implements gpu.Device on OpenGL 4.3 core.
package gldevice

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/go-gl/gl/v4.3-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

// Device drives the OpenGL context current on the calling thread.
type Device struct {
	info gpu.Info
}

// New loads the GL entry points for the current context.
// IMPORTANT: Must be called AFTER the OpenGL context is created and made current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		info: gpu.Info{
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		},
	}
	logger.Info("OpenGL initialized",
		zap.String("version", d.info.Version),
		zap.String("renderer", d.info.Renderer),
		zap.String("vendor", d.info.Vendor),
	)
	return d, nil
}

// Info returns the driver strings read at initialization.
func (d *Device) Info() gpu.Info { return d.info }

// CompileProgram compiles and links the given stages.
func (d *Device) CompileProgram(src gpu.ShaderSources) (uint32, error) {
	return compileProgram(src)
}

// DeleteProgram releases a linked program.
func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// UseProgram makes program current for draws and uniform uploads.
func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

// UniformLocation returns the location of name in program, or -1.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// Uniform1i sets an int or sampler uniform of the current program.
func (d *Device) Uniform1i(location int32, v int32) { gl.Uniform1i(location, v) }

// Uniform1f sets a float uniform of the current program.
func (d *Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

// Uniform3f sets a vec3 uniform of the current program.
func (d *Device) Uniform3f(location int32, v [3]float32) { gl.Uniform3f(location, v[0], v[1], v[2]) }

// UniformMatrix4 sets a mat4 uniform from column-major values.
func (d *Device) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// CreateTexture2D uploads img as a mipmapped RGBA8 texture with repeat wrapping.
func (d *Device) CreateTexture2D(img *image.RGBA) (uint32, error) {
	b := img.Bounds()
	width, height := int32(b.Dx()), int32(b.Dy())

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("glGenTextures returned no handle")
	}
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := checkError("texture upload"); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return tex, nil
}

// CreateTexture3D allocates immutable RGBA8 storage for a size^3 volume
// with a full mip chain, clamped to the border on every axis.
func (d *Device) CreateTexture3D(size int32) (uint32, error) {
	levels := int32(bits.Len32(uint32(size)))

	var tex uint32
	gl.GenTextures(1, &tex)
	if tex == 0 {
		return 0, fmt.Errorf("glGenTextures returned no handle")
	}
	gl.BindTexture(gl.TEXTURE_3D, tex)
	gl.TexStorage3D(gl.TEXTURE_3D, levels, gl.RGBA8, size, size, size)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_3D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_3D, 0)

	if err := checkError("3D texture storage"); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return tex, nil
}

// DeleteTexture releases a 2D or 3D texture.
func (d *Device) DeleteTexture(tex uint32) { gl.DeleteTextures(1, &tex) }

// BindTexture binds tex to target on texture unit.
func (d *Device) BindTexture(unit uint32, target gpu.TextureTarget, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(glTarget(target), tex)
}

// BindImageTexture binds level 0 of a 3D texture, all layers, as a
// write-only RGBA8 image on unit.
func (d *Device) BindImageTexture(unit uint32, tex uint32) {
	gl.BindImageTexture(unit, tex, 0, true, 0, gl.WRITE_ONLY, gl.RGBA8)
}

// GenerateMipmap rebuilds the mip chain of tex. It leaves tex bound.
func (d *Device) GenerateMipmap(target gpu.TextureTarget, tex uint32) {
	t := glTarget(target)
	gl.BindTexture(t, tex)
	gl.GenerateMipmap(t)
}

// CreateVertexArray uploads interleaved float vertices and uint32 indices
// into a new vertex array described by layout.
func (d *Device) CreateVertexArray(vertices []float32, layout gpu.VertexLayout, indices []uint32) (gpu.VertexArray, error) {
	var va gpu.VertexArray

	gl.GenVertexArrays(1, &va.VAO)
	gl.BindVertexArray(va.VAO)

	gl.GenBuffers(1, &va.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(layout.Stride * 4)
	for _, a := range layout.Attribs {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride, uintptr(a.Offset*4))
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.GenBuffers(1, &va.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if err := checkError("vertex array upload"); err != nil {
		d.DeleteVertexArray(va)
		return gpu.VertexArray{}, err
	}
	return va, nil
}

// DeleteVertexArray releases the array and its buffers. Zero handles are skipped.
func (d *Device) DeleteVertexArray(va gpu.VertexArray) {
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
	if va.VBO != 0 {
		gl.DeleteBuffers(1, &va.VBO)
	}
	if va.EBO != 0 {
		gl.DeleteBuffers(1, &va.EBO)
	}
}

// BindVertexArray binds vao for the next draw. Zero unbinds.
func (d *Device) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

// DrawElements draws count uint32 indices of the bound array as triangles.
func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

// Viewport sets the viewport rectangle in pixels.
func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

// ClearColor sets the color used by Clear.
func (d *Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

// Clear clears the buffers selected by mask in the bound framebuffer.
func (d *Device) Clear(mask gpu.ClearMask) {
	var bitsMask uint32
	if mask&gpu.ClearColor != 0 {
		bitsMask |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bitsMask |= gl.DEPTH_BUFFER_BIT
	}
	if mask&gpu.ClearStencil != 0 {
		bitsMask |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bitsMask)
}

// Enable turns a pipeline capability on.
func (d *Device) Enable(c gpu.Capability) { gl.Enable(glCapability(c)) }

// Disable turns a pipeline capability off.
func (d *Device) Disable(c gpu.Capability) { gl.Disable(glCapability(c)) }

// ColorMask enables or disables writes to every color channel.
func (d *Device) ColorMask(enabled bool) { gl.ColorMask(enabled, enabled, enabled, enabled) }

// FrontFaceCW treats clockwise triangles as front facing.
func (d *Device) FrontFaceCW() { gl.FrontFace(gl.CW) }

// MemoryBarrier orders image stores before later image loads and texture fetches.
func (d *Device) MemoryBarrier() {
	gl.MemoryBarrier(gl.SHADER_IMAGE_ACCESS_BARRIER_BIT | gl.TEXTURE_FETCH_BARRIER_BIT)
}

// ReadPixels reads the bound framebuffer's color buffer as bottom-up RGBA rows.
func (d *Device) ReadPixels(width, height int32) []byte {
	pixels := make([]byte, int(width)*int(height)*4)
	if len(pixels) == 0 {
		return pixels
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

func glTarget(t gpu.TextureTarget) uint32 {
	if t == gpu.Texture3D {
		return gl.TEXTURE_3D
	}
	return gl.TEXTURE_2D
}

func glCapability(c gpu.Capability) uint32 {
	switch c {
	case gpu.CullFace:
		return gl.CULL_FACE
	case gpu.Blend:
		return gl.BLEND
	case gpu.ScissorTest:
		return gl.SCISSOR_TEST
	default:
		return gl.DEPTH_TEST
	}
}

// checkError drains the GL error queue and reports the first error.
func checkError(op string) error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return fmt.Errorf("%s: GL error 0x%x", op, first)
	}
	return nil
}

var _ gpu.Device = (*Device)(nil)

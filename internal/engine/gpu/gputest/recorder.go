// Package gputest provides a gpu.Device that records calls instead of driving a GPU.
package gputest

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
)

// ErrInjected is returned by calls configured to fail.
var ErrInjected = errors.New("injected failure")

// Recorder implements gpu.Device. Every state-changing call is appended to Calls
// as one formatted line; creations hand out increasing handles starting at 1.
type Recorder struct {
	Calls []string

	// MissingUniforms makes UniformLocation return -1 for these names.
	MissingUniforms map[string]bool
	// FailPrograms makes CompileProgram fail for these program names.
	FailPrograms map[string]bool
	// FailTextureAt makes the n-th (1-based) texture creation fail. Zero disables.
	FailTextureAt int
	// FailVertexArrayAt makes the n-th (1-based) vertex array creation fail. Zero disables.
	FailVertexArrayAt int

	nextHandle     uint32
	textureCreates int
	vertexCreates  int
	uploads2D      int
	uniformNames   map[uint32]map[string]int32
	live           map[string]map[uint32]bool
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		MissingUniforms: make(map[string]bool),
		FailPrograms:    make(map[string]bool),
		uniformNames:    make(map[uint32]map[string]int32),
		live:            make(map[string]map[uint32]bool),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) alloc(kind string) uint32 {
	r.nextHandle++
	if r.live[kind] == nil {
		r.live[kind] = make(map[uint32]bool)
	}
	r.live[kind][r.nextHandle] = true
	return r.nextHandle
}

func (r *Recorder) free(kind string, id uint32) {
	delete(r.live[kind], id)
}

// Reset forgets the recorded calls but keeps handles and live objects.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Live returns how many objects of a kind ("program", "texture", "vertexarray",
// "framebuffer") are allocated and not yet deleted.
func (r *Recorder) Live(kind string) int {
	return len(r.live[kind])
}

// Uploads2D returns how many 2D textures were created.
func (r *Recorder) Uploads2D() int {
	return r.uploads2D
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// Info implements gpu.Device.
func (r *Recorder) Info() gpu.Info {
	return gpu.Info{Version: "4.3 recorder", Renderer: "gputest", Vendor: "voxel-gi"}
}

// CompileProgram implements gpu.Device.
func (r *Recorder) CompileProgram(src gpu.ShaderSources) (uint32, error) {
	if r.FailPrograms[src.Name] {
		r.record("CompileProgram %s failed", src.Name)
		return 0, ErrInjected
	}
	id := r.alloc("program")
	r.record("CompileProgram %s -> %d", src.Name, id)
	return id, nil
}

// DeleteProgram implements gpu.Device.
func (r *Recorder) DeleteProgram(program uint32) {
	r.free("program", program)
	r.record("DeleteProgram %d", program)
}

// UseProgram implements gpu.Device.
func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram %d", program)
}

// UniformLocation implements gpu.Device.
func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	if r.MissingUniforms[name] {
		return -1
	}
	names := r.uniformNames[program]
	if names == nil {
		names = make(map[string]int32)
		r.uniformNames[program] = names
	}
	loc, ok := names[name]
	if !ok {
		loc = int32(len(names))
		names[name] = loc
	}
	return loc
}

// UniformName returns the name a location was handed out for in program.
func (r *Recorder) UniformName(program uint32, loc int32) string {
	for name, l := range r.uniformNames[program] {
		if l == loc {
			return name
		}
	}
	return ""
}

// Uniform1i implements gpu.Device.
func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i %d %d", location, v)
}

// Uniform1f implements gpu.Device.
func (r *Recorder) Uniform1f(location int32, v float32) {
	r.record("Uniform1f %d %g", location, v)
}

// Uniform3f implements gpu.Device.
func (r *Recorder) Uniform3f(location int32, v [3]float32) {
	r.record("Uniform3f %d %g %g %g", location, v[0], v[1], v[2])
}

// UniformMatrix4 implements gpu.Device.
func (r *Recorder) UniformMatrix4(location int32, m [16]float32) {
	r.record("UniformMatrix4 %d %v", location, m)
}

// CreateTexture2D implements gpu.Device.
func (r *Recorder) CreateTexture2D(img *image.RGBA) (uint32, error) {
	r.textureCreates++
	if r.FailTextureAt > 0 && r.textureCreates == r.FailTextureAt {
		r.record("CreateTexture2D failed")
		return 0, ErrInjected
	}
	r.uploads2D++
	id := r.alloc("texture")
	b := img.Bounds()
	r.record("CreateTexture2D %dx%d -> %d", b.Dx(), b.Dy(), id)
	return id, nil
}

// CreateTexture3D implements gpu.Device.
func (r *Recorder) CreateTexture3D(size int32) (uint32, error) {
	r.textureCreates++
	if r.FailTextureAt > 0 && r.textureCreates == r.FailTextureAt {
		r.record("CreateTexture3D failed")
		return 0, ErrInjected
	}
	id := r.alloc("texture")
	r.record("CreateTexture3D %d -> %d", size, id)
	return id, nil
}

// DeleteTexture implements gpu.Device.
func (r *Recorder) DeleteTexture(tex uint32) {
	r.free("texture", tex)
	r.record("DeleteTexture %d", tex)
}

// BindTexture implements gpu.Device.
func (r *Recorder) BindTexture(unit uint32, target gpu.TextureTarget, tex uint32) {
	r.record("BindTexture %d %s %d", unit, target, tex)
}

// BindImageTexture implements gpu.Device.
func (r *Recorder) BindImageTexture(unit uint32, tex uint32) {
	r.record("BindImageTexture %d %d", unit, tex)
}

// GenerateMipmap implements gpu.Device.
func (r *Recorder) GenerateMipmap(target gpu.TextureTarget, tex uint32) {
	r.record("GenerateMipmap %s %d", target, tex)
}

// CreateVertexArray implements gpu.Device.
func (r *Recorder) CreateVertexArray(vertices []float32, layout gpu.VertexLayout, indices []uint32) (gpu.VertexArray, error) {
	r.vertexCreates++
	if r.FailVertexArrayAt > 0 && r.vertexCreates == r.FailVertexArrayAt {
		r.record("CreateVertexArray failed")
		return gpu.VertexArray{}, ErrInjected
	}
	vao := r.alloc("vertexarray")
	r.nextHandle += 2
	va := gpu.VertexArray{VAO: vao, VBO: vao + 1, EBO: vao + 2}
	r.record("CreateVertexArray vertices=%d stride=%d attribs=%d indices=%d -> %d",
		len(vertices)/layout.Stride, layout.Stride, len(layout.Attribs), len(indices), vao)
	return va, nil
}

// DeleteVertexArray implements gpu.Device.
func (r *Recorder) DeleteVertexArray(va gpu.VertexArray) {
	r.free("vertexarray", va.VAO)
	r.record("DeleteVertexArray %d", va.VAO)
}

// BindVertexArray implements gpu.Device.
func (r *Recorder) BindVertexArray(vao uint32) {
	r.record("BindVertexArray %d", vao)
}

// DrawElements implements gpu.Device.
func (r *Recorder) DrawElements(count int32) {
	r.record("DrawElements %d", count)
}

// CreateLayeredFramebuffer implements gpu.Device.
func (r *Recorder) CreateLayeredFramebuffer(tex uint32) (uint32, error) {
	id := r.alloc("framebuffer")
	r.record("CreateLayeredFramebuffer %d -> %d", tex, id)
	return id, nil
}

// DeleteFramebuffer implements gpu.Device.
func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.free("framebuffer", fbo)
	r.record("DeleteFramebuffer %d", fbo)
}

// BindFramebuffer implements gpu.Device.
func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.record("BindFramebuffer %d", fbo)
}

// Viewport implements gpu.Device.
func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport %d %d %d %d", x, y, width, height)
}

// ClearColor implements gpu.Device.
func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor %g %g %g %g", red, green, blue, alpha)
}

// Clear implements gpu.Device.
func (r *Recorder) Clear(mask gpu.ClearMask) {
	r.record("Clear %d", mask)
}

// Enable implements gpu.Device.
func (r *Recorder) Enable(c gpu.Capability) {
	r.record("Enable %s", c)
}

// Disable implements gpu.Device.
func (r *Recorder) Disable(c gpu.Capability) {
	r.record("Disable %s", c)
}

// ColorMask implements gpu.Device.
func (r *Recorder) ColorMask(enabled bool) {
	r.record("ColorMask %t", enabled)
}

// FrontFaceCW implements gpu.Device.
func (r *Recorder) FrontFaceCW() {
	r.record("FrontFaceCW")
}

// MemoryBarrier implements gpu.Device.
func (r *Recorder) MemoryBarrier() {
	r.record("MemoryBarrier")
}

// ReadPixels returns a deterministic gradient of width*height RGBA pixels.
func (r *Recorder) ReadPixels(width, height int32) []byte {
	r.record("ReadPixels %d %d", width, height)
	pixels := make([]byte, int(width)*int(height)*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	return pixels
}

var _ gpu.Device = (*Recorder)(nil)

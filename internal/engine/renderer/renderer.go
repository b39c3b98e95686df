// Package renderer turns submitted scene meshes into GPU objects and draws
// them every frame: an optional voxelization pass, the main shading pass and
// a voxel visualization pass.
package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/engine/debug"
	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/engine/lighting"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/engine/shader"
	"github.com/Faultbox/voxel-gi/internal/engine/texture"
	"github.com/Faultbox/voxel-gi/internal/engine/voxel"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

// ErrEmptyMesh is returned when submitting a mesh without primitives.
var ErrEmptyMesh = errors.New("mesh has no primitives")

// ErrClosed is returned by operations on a renderer after Close.
var ErrClosed = errors.New("renderer is closed")

// Camera is the read-only view the renderer needs each frame.
type Camera interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	Eye() mgl32.Vec3
}

// Config holds renderer configuration.
type Config struct {
	Width           int32
	Height          int32
	VoxelResolution int32
	ClearColor      mgl32.Vec4
	DiagnosticsDir  string
}

// DefaultConfig returns the configuration used by the viewer.
func DefaultConfig() Config {
	return Config{
		Width:           1280,
		Height:          720,
		VoxelResolution: 64,
		ClearColor:      mgl32.Vec4{0.1, 0.1, 0.1, 1},
		DiagnosticsDir:  "diagnostics",
	}
}

// Stats summarizes renderer state.
type Stats struct {
	Meshes      int
	Primitives  int
	Textures    texture.Stats
	Frames      uint64
	DrawCalls   int // in the last frame
	VoxelPasses uint64
	Resolution  int32 // of the allocated voxel target, 0 if none
}

// voxelTarget is the 3D texture the voxelization pass writes into.
type voxelTarget struct {
	texture     *gpu.Texture
	framebuffer *gpu.Framebuffer
	resolution  int32
}

func (t *voxelTarget) destroy() {
	t.framebuffer.Destroy()
	t.texture.Destroy()
}

// Renderer owns every GPU object of the scene. It is not safe for concurrent use;
// all calls must come from the thread that owns the graphics context.
type Renderer struct {
	dev    gpu.Device
	config Config
	log    *zap.Logger

	pbr       *pbrProgram
	voxelize  [2]*voxelizeProgram // indexed by VoxelizationMode
	voxelView *viewProgram
	viewBox   *gpu.Geometry

	textures *texture.Cache
	meshes   []*GpuMesh

	volume *voxel.Volume
	target *voxelTarget
	lights []*lighting.Light

	width, height int32

	voxelSkipped bool
	lastParams   FrameParams
	frames       uint64
	drawCalls    int
	voxelPasses  uint64

	dumper *debug.Dumper
	closed bool
}

// New sets the default pipeline state, compiles every program and allocates
// the voxel target for cfg.VoxelResolution. Any missing uniform fails with
// *gpu.UniformError and any allocation failure with *gpu.ResourceError.
// IMPORTANT: Must be called AFTER the graphics context is current.
func New(dev gpu.Device, cfg Config) (*Renderer, error) {
	r := &Renderer{
		dev:      dev,
		config:   cfg,
		log:      logger.Named("renderer"),
		textures: texture.NewCache(dev),
		volume:   voxel.New(mgl32.Vec3{}, mgl32.Vec3{10, 10, 10}, cfg.VoxelResolution),
		lights:   []*lighting.Light{lighting.NewSun()},
		width:    cfg.Width,
		height:   cfg.Height,
		dumper:   debug.NewDumper(cfg.DiagnosticsDir),
	}
	ok := false
	defer func() {
		if !ok {
			r.Close()
		}
	}()

	info := dev.Info()
	r.log.Info("creating renderer",
		zap.String("gl_version", info.Version),
		zap.String("gl_renderer", info.Renderer),
		zap.Int32("width", cfg.Width),
		zap.Int32("height", cfg.Height),
	)

	dev.Enable(gpu.DepthTest)
	dev.Disable(gpu.CullFace)
	dev.FrontFaceCW()
	dev.Viewport(0, 0, r.width, r.height)

	var err error
	if r.pbr, err = newPBRProgram(dev); err != nil {
		return nil, fmt.Errorf("creating pbr program: %w", err)
	}
	for mode, name := range [...]string{
		VoxelizeFragmentOnly: shader.VoxelizeFragment,
		VoxelizeHybrid:       shader.VoxelizeHybrid,
	} {
		if r.voxelize[mode], err = newVoxelizeProgram(dev, name); err != nil {
			return nil, fmt.Errorf("creating %s program: %w", name, err)
		}
	}
	if r.voxelView, err = newViewProgram(dev); err != nil {
		return nil, fmt.Errorf("creating voxel view program: %w", err)
	}

	cube := scene.Cube()
	var cubeVertices []float32
	for _, v := range cube.Vertices {
		cubeVertices = v.AppendFloats(cubeVertices)
	}
	if r.viewBox, err = gpu.NewGeometry(dev, "view box", cubeVertices, vertexLayout, cube.Indices); err != nil {
		return nil, err
	}

	if r.volume.Valid() == nil {
		if err = r.ensureVoxelTarget(r.volume.Resolution()); err != nil {
			return nil, err
		}
	}

	ok = true
	return r, nil
}

// SubmitMesh uploads every primitive of mesh and appends it to the scene.
// Either the whole mesh is uploaded or, on error, nothing is kept.
func (r *Renderer) SubmitMesh(mesh *scene.Mesh) (MeshID, error) {
	if r.closed {
		return -1, ErrClosed
	}
	if mesh == nil || len(mesh.Primitives) == 0 {
		return -1, ErrEmptyMesh
	}

	gm := &GpuMesh{
		id:         MeshID(len(r.meshes)),
		source:     mesh.Source,
		bounds:     mesh.Bounds(),
		primitives: make([]*GpuPrimitive, 0, len(mesh.Primitives)),
	}
	checkpoint := r.textures.Checkpoint()

	for i, sp := range mesh.Primitives {
		name := fmt.Sprintf("%s#%d", mesh.Source, i)
		gp, err := r.uploadPrimitive(sp, name)
		if err != nil {
			gm.destroy()
			r.textures.Rollback(checkpoint)
			r.log.Error("mesh submission failed", zap.String("source", mesh.Source), zap.Error(err))
			return -1, fmt.Errorf("submitting %s: %w", mesh.Source, err)
		}
		gm.primitives = append(gm.primitives, gp)
	}

	r.meshes = append(r.meshes, gm)
	r.log.Info("mesh submitted",
		zap.Int("id", int(gm.id)),
		zap.String("source", mesh.Source),
		zap.Int("primitives", len(gm.primitives)),
		zap.Int("textures", r.textures.Len()),
	)
	return gm.id, nil
}

// Meshes returns the submitted meshes in submission order.
func (r *Renderer) Meshes() []*GpuMesh { return r.meshes }

// Mesh returns a submitted mesh by id.
func (r *Renderer) Mesh(id MeshID) (*GpuMesh, bool) {
	if id < 0 || int(id) >= len(r.meshes) {
		return nil, false
	}
	return r.meshes[id], true
}

// Primitives returns every primitive of every mesh in draw order.
func (r *Renderer) Primitives() []*GpuPrimitive {
	var out []*GpuPrimitive
	for _, m := range r.meshes {
		out = append(out, m.primitives...)
	}
	return out
}

// Volume returns the voxel volume for reading and editing.
func (r *Renderer) Volume() *voxel.Volume { return r.volume }

// Light returns light i, or nil if there is none.
func (r *Renderer) Light(i int) *lighting.Light {
	if i < 0 || i >= len(r.lights) {
		return nil
	}
	return r.lights[i]
}

// LightCount returns the number of lights.
func (r *Renderer) LightCount() int { return len(r.lights) }

// SetViewportSize sets the size applied to the default framebuffer from the next
// frame on. Negative sizes are ignored and the previous size is kept.
func (r *Renderer) SetViewportSize(width, height int32) {
	if width < 0 || height < 0 {
		r.log.Warn("negative viewport size ignored", zap.Int32("width", width), zap.Int32("height", height))
		return
	}
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	r.log.Debug("viewport resized", zap.Int32("width", width), zap.Int32("height", height))
}

// ViewportSize returns the current viewport size.
func (r *Renderer) ViewportSize() (width, height int32) { return r.width, r.height }

// Textures returns the texture cache shared by all meshes.
func (r *Renderer) Textures() *texture.Cache { return r.textures }

// Stats returns renderer counters.
func (r *Renderer) Stats() Stats {
	s := Stats{
		Meshes:      len(r.meshes),
		Textures:    r.textures.Stats(),
		Frames:      r.frames,
		DrawCalls:   r.drawCalls,
		VoxelPasses: r.voxelPasses,
	}
	for _, m := range r.meshes {
		s.Primitives += len(m.primitives)
	}
	if r.target != nil {
		s.Resolution = r.target.resolution
	}
	return s
}

// Close releases every GPU object. Safe to call more than once.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true

	for _, m := range r.meshes {
		m.destroy()
	}
	r.meshes = nil
	r.textures.Destroy()

	if r.target != nil {
		r.target.destroy()
		r.target = nil
	}
	if r.viewBox != nil {
		r.viewBox.Destroy()
	}
	if r.pbr != nil {
		r.pbr.prog.Destroy()
	}
	for _, p := range r.voxelize {
		if p != nil {
			p.prog.Destroy()
		}
	}
	if r.voxelView != nil {
		r.voxelView.prog.Destroy()
	}
	r.log.Info("renderer closed")
}

package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/engine/gpu"
	"github.com/Faultbox/voxel-gi/internal/engine/gpu/gputest"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/engine/texture"
)

type testCamera struct{}

func (testCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0})
}

func (testCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(45), 4.0/3.0, 0.1, 100)
}

func (testCamera) Eye() mgl32.Vec3 { return mgl32.Vec3{0, 5, 10} }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 640, 480
	return cfg
}

func newTestRenderer(t *testing.T) (*Renderer, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	r, err := New(rec, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(r.Close)
	return r, rec
}

func cubeMesh(t *testing.T, source string) *scene.Mesh {
	t.Helper()
	m, err := scene.NewMesh(scene.CubeLoader(), source, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, scene.NewResources())
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	return m
}

func multiMesh(source string, n int) *scene.Mesh {
	m := &scene.Mesh{Source: source, Scaling: mgl32.Vec3{1, 1, 1}}
	for i := 0; i < n; i++ {
		m.Primitives = append(m.Primitives, scene.Cube())
	}
	return m
}

func contains(calls []string, want string) bool {
	for _, c := range calls {
		if c == want {
			return true
		}
	}
	return false
}

// indexOf returns the position of the first call equal to want at or after from.
func indexOf(calls []string, want string, from int) int {
	for i := from; i < len(calls); i++ {
		if calls[i] == want {
			return i
		}
	}
	return -1
}

func TestSubmitCube(t *testing.T) {
	r, _ := newTestRenderer(t)

	id, err := r.SubmitMesh(cubeMesh(t, "cube"))
	if err != nil {
		t.Fatalf("SubmitMesh: %v", err)
	}

	prims := r.Primitives()
	if len(prims) != 1 {
		t.Fatalf("primitives = %d, want 1", len(prims))
	}
	if prims[0].IndexCount() != 36 {
		t.Errorf("index count = %d, want 36", prims[0].IndexCount())
	}
	m, ok := r.Mesh(id)
	if !ok || m.Source() != "cube" || m.ID() != id {
		t.Errorf("Mesh(%d) = %v, %v", id, m, ok)
	}
	if _, ok := r.Mesh(id + 1); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestPrimitiveCountPreserved(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			r, _ := newTestRenderer(t)
			id, err := r.SubmitMesh(multiMesh("multi", n))
			if err != nil {
				t.Fatalf("SubmitMesh: %v", err)
			}
			m, _ := r.Mesh(id)
			if len(m.Primitives()) != n {
				t.Errorf("gpu primitives = %d, want %d", len(m.Primitives()), n)
			}
			if r.Stats().Primitives != n {
				t.Errorf("Stats.Primitives = %d, want %d", r.Stats().Primitives, n)
			}
		})
	}
}

func TestSubmitEmptyMesh(t *testing.T) {
	r, _ := newTestRenderer(t)
	if _, err := r.SubmitMesh(&scene.Mesh{Source: "empty"}); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("error = %v, want ErrEmptyMesh", err)
	}
	if len(r.Meshes()) != 0 {
		t.Error("empty mesh should not be appended")
	}
}

func TestTextureDedup(t *testing.T) {
	r, rec := newTestRenderer(t)

	if _, err := r.SubmitMesh(cubeMesh(t, "a")); err != nil {
		t.Fatalf("SubmitMesh a: %v", err)
	}
	if got := rec.Uploads2D(); got != 4 {
		t.Fatalf("uploads after first cube = %d, want 4 defaults", got)
	}

	brick := scene.NewImage("textures/brick.png", texture.Solid(color.RGBA{R: 200, A: 255}))
	shared := multiMesh("b", 3)
	for _, p := range shared.Primitives {
		p.Material.Albedo = brick
	}
	if _, err := r.SubmitMesh(shared); err != nil {
		t.Fatalf("SubmitMesh b: %v", err)
	}

	if got := rec.Uploads2D(); got != 5 {
		t.Errorf("uploads = %d, want 5 (4 defaults + brick)", got)
	}

	prims := r.Primitives()
	if prims[1].Textures()[unitAlbedo] != prims[3].Textures()[unitAlbedo] {
		t.Error("primitives with the same albedo should share one texture")
	}
	if prims[0].Textures()[unitNormal] != prims[2].Textures()[unitNormal] {
		t.Error("default normal map should be shared across meshes")
	}
	if prims[0].Textures()[unitAlbedo] == prims[1].Textures()[unitAlbedo] {
		t.Error("different sources must not share a texture")
	}
}

func TestRenderDeterministic(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "a"))
	r.SubmitMesh(multiMesh("b", 2))

	for _, mode := range RenderingModes {
		t.Run(mode.String(), func(t *testing.T) {
			params := FrameParams{Time: 1.5, Rendering: mode, Voxelization: VoxelizeHybrid}

			rec.Reset()
			if err := r.Render(testCamera{}, params); err != nil {
				t.Fatalf("Render: %v", err)
			}
			first := append([]string(nil), rec.Calls...)

			rec.Reset()
			if err := r.Render(testCamera{}, params); err != nil {
				t.Fatalf("Render: %v", err)
			}

			if !reflect.DeepEqual(first, rec.Calls) {
				t.Errorf("second frame differs:\nfirst:  %v\nsecond: %v", first, rec.Calls)
			}
			if rec.Count("DrawElements") == 0 {
				t.Error("no draws issued")
			}
		})
	}
}

func TestModeSwitchKeepsResources(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "cube"))
	loc := r.pbr.renderingMode.Location()

	r.Render(testCamera{}, FrameParams{Rendering: ModeAlbedo})
	rec.Reset()
	r.Render(testCamera{}, FrameParams{Rendering: ModeNormal})

	if n := rec.Count("Create"); n != 0 {
		t.Errorf("mode switch allocated %d objects", n)
	}
	if n := rec.Count("Delete"); n != 0 {
		t.Errorf("mode switch deleted %d objects", n)
	}
	if !contains(rec.Calls, fmt.Sprintf("Uniform1i %d %d", loc, ModeNormal)) {
		t.Error("rendering_mode uniform not updated to normal")
	}

	rec.Reset()
	r.Render(testCamera{}, FrameParams{Rendering: ModeNormal, Voxelization: VoxelizeHybrid})
	if rec.Count("Create") != 0 {
		t.Error("voxelization mode switch allocated objects")
	}
	hybrid := fmt.Sprintf("UseProgram %d", r.voxelize[VoxelizeHybrid].prog.ID())
	if !contains(rec.Calls, hybrid) {
		t.Error("hybrid voxelization program not used")
	}
}

func TestViewportResize(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "cube"))

	r.SetViewportSize(800, 600)
	if w, h := r.ViewportSize(); w != 800 || h != 600 {
		t.Errorf("ViewportSize = %dx%d", w, h)
	}

	rec.Reset()
	r.Render(testCamera{}, FrameParams{})

	clear := indexOf(rec.Calls, fmt.Sprintf("Clear %d", gpu.ClearAll), 0)
	if clear < 1 {
		t.Fatalf("main pass clear not found in %v", rec.Calls)
	}
	if !contains(rec.Calls[:clear], "Viewport 0 0 800 600") {
		t.Error("main pass does not use the resized viewport")
	}
	if contains(rec.Calls, "Viewport 0 0 640 480") {
		t.Error("stale viewport still applied")
	}
}

func TestNegativeViewportIgnored(t *testing.T) {
	tests := []struct {
		name          string
		width, height int32
	}{
		{"negative width", -5, 0},
		{"negative height", 320, -1},
		{"both negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestRenderer(t)
			r.SubmitMesh(cubeMesh(t, "cube"))

			r.SetViewportSize(tt.width, tt.height)
			if w, h := r.ViewportSize(); w != 640 || h != 480 {
				t.Errorf("ViewportSize = %dx%d, want 640x480", w, h)
			}

			rec.Reset()
			if err := r.Render(testCamera{}, FrameParams{}); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !contains(rec.Calls, "Viewport 0 0 640 480") {
				t.Error("main pass does not keep the previous viewport")
			}
			for _, c := range rec.Calls {
				if strings.HasPrefix(c, "Viewport") && strings.Contains(c, "-") {
					t.Errorf("negative viewport issued: %q", c)
				}
			}
		})
	}
}

func TestInvalidVolumeSkipsVoxelPass(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Renderer)
	}{
		{"zero resolution", func(r *Renderer) { r.Volume().SetResolution(0) }},
		{"negative resolution", func(r *Renderer) { r.Volume().SetResolution(-64) }},
		{"negative scaling", func(r *Renderer) { r.Volume().SetScaling(mgl32.Vec3{-1, 10, 10}) }},
		{"zero view scaling", func(r *Renderer) { r.Volume().SetViewScaling(mgl32.Vec3{}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestRenderer(t)
			r.SubmitMesh(cubeMesh(t, "cube"))
			tt.modify(r)

			rec.Reset()
			if err := r.Render(testCamera{}, FrameParams{Rendering: ModeAlbedo}); err != nil {
				t.Fatalf("Render: %v", err)
			}

			if rec.Count("BindImageTexture") != 0 || rec.Count("MemoryBarrier") != 0 {
				t.Error("voxel pass ran on an invalid volume")
			}
			if rec.Count("Create") != 0 {
				t.Error("invalid volume triggered an allocation")
			}
			if got := r.Stats().DrawCalls; got != 1 {
				t.Errorf("draw calls = %d, want 1 (main pass only)", got)
			}
			loc := r.pbr.voxelEnabled.Location()
			if !contains(rec.Calls, fmt.Sprintf("Uniform1i %d 0", loc)) {
				t.Error("main pass should disable voxel sampling")
			}
		})
	}
}

func TestVoxelPassResumesAndReallocates(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "cube"))

	r.Volume().SetResolution(0)
	r.Render(testCamera{}, FrameParams{})

	r.Volume().SetResolution(128)
	rec.Reset()
	r.Render(testCamera{}, FrameParams{})

	if rec.Count("CreateTexture3D 128") != 1 {
		t.Errorf("expected one 128^3 allocation, calls: %v", rec.Calls)
	}
	if rec.Count("MemoryBarrier") != 1 {
		t.Error("voxel pass did not resume")
	}
	if rec.Live("texture") != 5 {
		t.Errorf("live textures = %d, want 4 material + 1 voxel", rec.Live("texture"))
	}
	if r.Stats().Resolution != 128 {
		t.Errorf("allocated resolution = %d", r.Stats().Resolution)
	}
}

func TestVoxelPassState(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "cube"))

	rec.Reset()
	r.Render(testCamera{}, FrameParams{Rendering: ModeRadiance})

	want := []string{
		fmt.Sprintf("BindFramebuffer %d", r.target.framebuffer.ID()),
		"Viewport 0 0 64 64",
		"ColorMask true",
		"ClearColor 0 0 0 0",
		fmt.Sprintf("Clear %d", gpu.ClearColor),
		"ColorMask false",
		"Disable DEPTH_TEST",
	}
	for i, w := range want {
		if rec.Calls[i] != w {
			t.Errorf("call %d = %q, want %q", i, rec.Calls[i], w)
		}
	}

	barrier := indexOf(rec.Calls, "MemoryBarrier", 0)
	mip := indexOf(rec.Calls, fmt.Sprintf("GenerateMipmap TEXTURE_3D %d", r.target.texture.ID()), 0)
	main := indexOf(rec.Calls, "BindFramebuffer 0", 0)
	if barrier < 0 || mip < barrier || main < mip {
		t.Errorf("barrier=%d mipmap=%d main=%d out of order", barrier, mip, main)
	}
	if got := r.Stats().DrawCalls; got != 3 {
		t.Errorf("draw calls = %d, want voxel + main + view = 3", got)
	}
}

func TestMainPassOrderAndBindings(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "first"))
	r.SubmitMesh(cubeMesh(t, "second"))

	rec.Reset()
	r.Render(testCamera{}, FrameParams{})

	pos := indexOf(rec.Calls, fmt.Sprintf("Clear %d", gpu.ClearAll), 0)
	if pos < 0 {
		t.Fatal("main pass not found")
	}
	for _, prim := range r.Primitives() {
		seq := []string{fmt.Sprintf("BindVertexArray %d", prim.geometry.VertexArray().VAO)}
		for unit, tex := range prim.Textures() {
			seq = append(seq,
				fmt.Sprintf("BindTexture %d TEXTURE_2D %d", unit, tex.ID()),
				fmt.Sprintf("Uniform1i %d %d", r.pbr.samplers[unit].Location(), unit),
			)
		}
		seq = append(seq, "DrawElements 36")

		start := indexOf(rec.Calls, seq[0], pos)
		if start < 0 {
			t.Fatalf("%s not drawn after previous primitive", prim.Name())
		}
		for i, want := range seq {
			if got := rec.Calls[start+i]; got != want {
				t.Errorf("%s call %d = %q, want %q", prim.Name(), i, got, want)
			}
		}
		pos = start + len(seq)
	}
}

func TestPrimitiveAnimation(t *testing.T) {
	r, rec := newTestRenderer(t)
	r.SubmitMesh(cubeMesh(t, "cube"))
	prim := r.Primitives()[0]

	prim.SetTranslation(mgl32.Vec3{0, 0, 5})
	rec.Reset()
	r.Render(testCamera{}, FrameParams{})

	model := mgl32.Translate3D(0, 0, 5)
	want := fmt.Sprintf("UniformMatrix4 %d %v", r.pbr.model.Location(), [16]float32(model))
	if !contains(rec.Calls, want) {
		t.Error("moved primitive not uploaded with its new model matrix")
	}
}

func TestTextureFailureRollsBack(t *testing.T) {
	r, rec := newTestRenderer(t)

	// The voxel volume is texture 1; the third default material map fails.
	rec.FailTextureAt = 4
	_, err := r.SubmitMesh(cubeMesh(t, "cube"))

	var rerr *gpu.ResourceError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want *gpu.ResourceError", err)
	}
	if len(r.Meshes()) != 0 || len(r.Primitives()) != 0 {
		t.Error("failed mesh was appended")
	}
	if got := rec.Live("texture"); got != 1 {
		t.Errorf("live textures = %d, want only the voxel volume", got)
	}
	if got := rec.Live("vertexarray"); got != 1 {
		t.Errorf("live vertex arrays = %d, want only the view box", got)
	}
	if r.Textures().Len() != 0 {
		t.Error("partial uploads left in the cache")
	}

	rec.FailTextureAt = 0
	if _, err := r.SubmitMesh(cubeMesh(t, "cube")); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if id := r.Meshes()[0].ID(); id != 0 {
		t.Errorf("first successful mesh id = %d, want 0", id)
	}
}

func TestGeometryFailureRollsBack(t *testing.T) {
	r, rec := newTestRenderer(t)

	// The view box is vertex array 1; the second primitive's buffers fail.
	rec.FailVertexArrayAt = 3
	_, err := r.SubmitMesh(multiMesh("pair", 2))
	if err == nil {
		t.Fatal("expected failure")
	}
	if got := rec.Live("vertexarray"); got != 1 {
		t.Errorf("live vertex arrays = %d, want 1", got)
	}
	if got := rec.Live("texture"); got != 1 {
		t.Errorf("live textures = %d, want 1", got)
	}
	if len(r.Meshes()) != 0 {
		t.Error("failed mesh was appended")
	}
}

func TestNewMissingUniform(t *testing.T) {
	for _, name := range []string{"time", "proj", "albedo", "occlusion", "voxel_proj", "view_world_to_local"} {
		t.Run(name, func(t *testing.T) {
			rec := gputest.NewRecorder()
			rec.MissingUniforms[name] = true

			r, err := New(rec, testConfig())
			if r != nil {
				t.Error("renderer returned despite error")
			}
			var uerr *gpu.UniformError
			if !errors.As(err, &uerr) {
				t.Fatalf("error = %v, want *gpu.UniformError", err)
			}
			if uerr.Uniform != name {
				t.Errorf("Uniform = %q, want %q", uerr.Uniform, name)
			}
			for _, kind := range []string{"program", "texture", "vertexarray", "framebuffer"} {
				if n := rec.Live(kind); n != 0 {
					t.Errorf("%d %s objects leaked", n, kind)
				}
			}
		})
	}
}

func TestNewCompileFailure(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.FailPrograms["voxelize-hybrid"] = true

	_, err := New(rec, testConfig())
	var rerr *gpu.ResourceError
	if !errors.As(err, &rerr) || rerr.Kind != "program" {
		t.Fatalf("error = %v, want program *gpu.ResourceError", err)
	}
	if rec.Live("program") != 0 {
		t.Errorf("%d programs leaked", rec.Live("program"))
	}
}

func TestNewInvalidResolutionDefersTarget(t *testing.T) {
	rec := gputest.NewRecorder()
	cfg := testConfig()
	cfg.VoxelResolution = 0

	r, err := New(rec, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()
	if rec.Count("CreateTexture3D") != 0 {
		t.Error("no voxel target should exist for resolution 0")
	}
	if err := r.Render(testCamera{}, FrameParams{}); err != nil {
		t.Errorf("Render: %v", err)
	}
}

func TestNewSetsDefaults(t *testing.T) {
	_, rec := newTestRenderer(t)
	for _, want := range []string{"Enable DEPTH_TEST", "FrontFaceCW", "Viewport 0 0 640 480"} {
		if !contains(rec.Calls, want) {
			t.Errorf("missing %q", want)
		}
	}
	if rec.Count("CreateTexture3D 64") != 1 {
		t.Error("initial voxel target not allocated")
	}
}

func TestLights(t *testing.T) {
	r, rec := newTestRenderer(t)
	if r.LightCount() != 1 || r.Light(0) == nil {
		t.Fatal("expected one sun light")
	}
	if r.Light(1) != nil || r.Light(-1) != nil {
		t.Error("out of range lights should be nil")
	}

	r.Light(0).Color = mgl32.Vec3{1, 0.5, 0.25}
	rec.Reset()
	r.Render(testCamera{}, FrameParams{})
	want := fmt.Sprintf("Uniform3f %d 1 0.5 0.25", r.pbr.lightColor.Location())
	if !contains(rec.Calls, want) {
		t.Error("edited light color not uploaded")
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	rec := gputest.NewRecorder()
	r, err := New(rec, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.SubmitMesh(cubeMesh(t, "cube"))
	r.Render(testCamera{}, FrameParams{})

	r.Close()
	for _, kind := range []string{"program", "texture", "vertexarray", "framebuffer"} {
		if n := rec.Live(kind); n != 0 {
			t.Errorf("%d %s objects leaked", n, kind)
		}
	}

	deletes := rec.Count("Delete")
	r.Close()
	if rec.Count("Delete") != deletes {
		t.Error("second Close deleted again")
	}
}

func TestClosedRendererRejectsWork(t *testing.T) {
	late := cubeMesh(t, "late")
	tests := []struct {
		name string
		call func(r *Renderer) error
	}{
		{"Render", func(r *Renderer) error { return r.Render(testCamera{}, FrameParams{}) }},
		{"SubmitMesh", func(r *Renderer) error {
			_, err := r.SubmitMesh(late)
			return err
		}},
		{"SaveDiagnostics", func(r *Renderer) error {
			_, err := r.SaveDiagnostics("late")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newTestRenderer(t)
			r.SubmitMesh(cubeMesh(t, "cube"))
			r.Close()
			rec.Reset()

			if err := tt.call(r); !errors.Is(err, ErrClosed) {
				t.Errorf("err = %v, want ErrClosed", err)
			}
			if len(rec.Calls) != 0 {
				t.Errorf("closed renderer issued %v", rec.Calls)
			}
			for _, kind := range []string{"texture", "framebuffer", "vertexarray"} {
				if n := rec.Live(kind); n != 0 {
					t.Errorf("%d %s objects live after Close", n, kind)
				}
			}
		})
	}
}

func TestSaveDiagnostics(t *testing.T) {
	rec := gputest.NewRecorder()
	cfg := testConfig()
	cfg.Width, cfg.Height = 4, 2
	cfg.DiagnosticsDir = t.TempDir()
	r, err := New(rec, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()
	r.SubmitMesh(cubeMesh(t, "models/cube.glb"))
	r.Render(testCamera{}, FrameParams{Rendering: ModeEmission})

	paths, err := r.SaveDiagnostics("debug")
	if err != nil {
		t.Fatalf("SaveDiagnostics: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if !contains(rec.Calls, "ReadPixels 4 2") {
		t.Error("framebuffer not read back")
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	for _, want := range []string{"source: models/cube.glb", "rendering_mode: emission", "resolution: 64"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("state missing %q:\n%s", want, data)
		}
	}
}

func TestSnapshotMeshBounds(t *testing.T) {
	tests := []struct {
		name        string
		translation mgl32.Vec3
		scaling     mgl32.Vec3
	}{
		{"unit cube", mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}},
		{"translated", mgl32.Vec3{3, 0, -2}, mgl32.Vec3{1, 1, 1}},
		{"scaled", mgl32.Vec3{}, mgl32.Vec3{2, 0.5, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t)
			mesh, err := scene.NewMesh(scene.CubeLoader(), tt.name, tt.translation, tt.scaling, scene.NewResources())
			if err != nil {
				t.Fatalf("NewMesh: %v", err)
			}
			want := mesh.Bounds()
			if _, err := r.SubmitMesh(mesh); err != nil {
				t.Fatalf("SubmitMesh: %v", err)
			}

			ms := r.Snapshot("bounds").Meshes
			if len(ms) != 1 {
				t.Fatalf("meshes = %d, want 1", len(ms))
			}
			if ms[0].BoundsMin != [3]float32(want.Min) || ms[0].BoundsMax != [3]float32(want.Max) {
				t.Errorf("bounds = %v..%v, want %v..%v", ms[0].BoundsMin, ms[0].BoundsMax, want.Min, want.Max)
			}
			for i := 0; i < 3; i++ {
				if ms[0].BoundsMin[i] >= ms[0].BoundsMax[i] {
					t.Errorf("axis %d is empty: %v..%v", i, ms[0].BoundsMin, ms[0].BoundsMax)
				}
			}
		})
	}
}

func TestModeNames(t *testing.T) {
	for _, m := range RenderingModes {
		got, err := ParseRenderingMode(strings.ToUpper(m.String()))
		if err != nil || got != m {
			t.Errorf("ParseRenderingMode(%s) = %v, %v", m, got, err)
		}
	}
	for _, m := range []VoxelizationMode{VoxelizeFragmentOnly, VoxelizeHybrid} {
		got, err := ParseVoxelizationMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseVoxelizationMode(%s) = %v, %v", m, got, err)
		}
	}
	if _, err := ParseRenderingMode("wireframe"); err == nil {
		t.Error("unknown rendering mode should fail")
	}
	if _, err := ParseVoxelizationMode("conservative"); err == nil {
		t.Error("unknown voxelization mode should fail")
	}
	if s := RenderingMode(42).String(); s != "RenderingMode(42)" {
		t.Errorf("String = %q", s)
	}
}

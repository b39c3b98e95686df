package app

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/config"
	"github.com/Faultbox/voxel-gi/internal/engine/camera"
	"github.com/Faultbox/voxel-gi/internal/engine/gpu/gputest"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
)

type fakeKeys struct {
	down, pressed [keyCount]bool
}

func (k *fakeKeys) Down(key Key) bool    { return k.down[key] }
func (k *fakeKeys) Pressed(key Key) bool { return k.pressed[key] }

func newRenderer(t *testing.T) *renderer.Renderer {
	t.Helper()
	r, _ := newRecordedRenderer(t, t.TempDir())
	return r
}

func newRecordedRenderer(t *testing.T, diagnosticsDir string) (*renderer.Renderer, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	cfg := renderer.DefaultConfig()
	cfg.Width, cfg.Height = 8, 4
	cfg.DiagnosticsDir = diagnosticsDir
	r, err := renderer.New(rec, cfg)
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}
	t.Cleanup(r.Close)
	return r, rec
}

func TestPresetsLoad(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, err := LookupPreset(name)
			if err != nil {
				t.Fatal(err)
			}
			r := newRenderer(t)
			cam := camera.NewFlyCamera(mgl32.Vec3{}, 0, 0)

			if err := p.Load(r, cam, scene.CubeLoader(), scene.NewResources()); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(r.Meshes()) != len(p.Meshes) {
				t.Errorf("meshes = %d, want %d", len(r.Meshes()), len(p.Meshes))
			}
			if r.Volume().Scaling() != p.Volume.Scaling {
				t.Errorf("volume scaling = %v", r.Volume().Scaling())
			}
			if err := r.Volume().Valid(); err != nil {
				t.Errorf("preset volume invalid: %v", err)
			}
			if cam.Position != p.CameraPosition {
				t.Errorf("camera position = %v", cam.Position)
			}
			if cam.Pitch < -camera.MaxPitch || cam.Pitch > camera.MaxPitch {
				t.Errorf("camera pitch %v not clamped", cam.Pitch)
			}
		})
	}
}

func TestPresetLoadFailure(t *testing.T) {
	r := newRenderer(t)
	cam := camera.NewFlyCamera(mgl32.Vec3{}, 0, 0)
	broken := scene.LoaderFunc(func(string) (*scene.LoadedMesh, error) {
		return nil, errors.New("no such file")
	})

	p, _ := LookupPreset("cornell")
	err := p.Load(r, cam, broken, scene.NewResources())
	var lerr *scene.AssetLoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("error = %v, want *scene.AssetLoadError", err)
	}
	if len(r.Meshes()) != 0 {
		t.Error("nothing should be submitted")
	}
	if _, err := LookupPreset("nowhere"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestControllerMovement(t *testing.T) {
	r := newRenderer(t)
	c := NewController(renderer.ModeScene, renderer.VoxelizeFragmentOnly)

	tests := []struct {
		name  string
		key   Key
		check func(before, after *camera.FlyCamera) bool
	}{
		{"forward", KeyForward, func(b, a *camera.FlyCamera) bool {
			return a.Position.Sub(b.Position).ApproxEqualThreshold(b.Front().Mul(MoveRate), 1e-4)
		}},
		{"left", KeyLeft, func(b, a *camera.FlyCamera) bool {
			return a.Position.Sub(b.Position).ApproxEqualThreshold(b.Right().Mul(-MoveRate), 1e-4)
		}},
		{"turn right", KeyTurnRight, func(b, a *camera.FlyCamera) bool {
			return mgl32.FloatEqual(a.Yaw-b.Yaw, RotationRate)
		}},
		{"look down", KeyLookDown, func(b, a *camera.FlyCamera) bool {
			return mgl32.FloatEqual(a.Pitch, -RotationRate)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := camera.NewFlyCamera(mgl32.Vec3{0, 1, 0}, -90, 0)
			before := *cam
			keys := &fakeKeys{}
			keys.down[tt.key] = true

			if c.Update(keys, cam, r, 1) {
				t.Error("movement should not quit")
			}
			if !tt.check(&before, cam) {
				t.Errorf("camera after %s: pos=%v yaw=%v pitch=%v", tt.name, cam.Position, cam.Yaw, cam.Pitch)
			}
		})
	}
}

func TestControllerKeys(t *testing.T) {
	r := newRenderer(t)
	cam := camera.NewFlyCamera(mgl32.Vec3{}, 0, 0)
	c := NewController(renderer.ModeScene, renderer.VoxelizeFragmentOnly)

	press := func(k Key) bool {
		keys := &fakeKeys{}
		keys.pressed[k] = true
		return c.Update(keys, cam, r, 0)
	}

	press(KeyModeRadiance)
	if c.Params.Rendering != renderer.ModeRadiance {
		t.Errorf("rendering = %v", c.Params.Rendering)
	}
	press(KeyModeAlbedo)
	if c.Params.Rendering != renderer.ModeAlbedo {
		t.Errorf("rendering = %v", c.Params.Rendering)
	}

	press(KeyToggleVoxelization)
	if c.Params.Voxelization != renderer.VoxelizeHybrid {
		t.Error("V should switch to hybrid")
	}
	press(KeyToggleVoxelization)
	if c.Params.Voxelization != renderer.VoxelizeFragmentOnly {
		t.Error("V should switch back")
	}

	for _, want := range []int32{128, 256, 64} {
		press(KeyCycleResolution)
		if got := r.Volume().Resolution(); got != want {
			t.Errorf("resolution = %d, want %d", got, want)
		}
	}

	if !press(KeyQuit) {
		t.Error("quit key should quit")
	}
}

func TestDiagnosticsCaptureFollowsRender(t *testing.T) {
	dir := t.TempDir()
	r, rec := newRecordedRenderer(t, dir)
	cam := camera.NewFlyCamera(mgl32.Vec3{}, 0, 0)
	c := NewController(renderer.ModeScene, renderer.VoxelizeFragmentOnly)
	if _, err := r.SubmitMesh(&scene.Mesh{Source: "cube", Primitives: []*scene.Primitive{scene.Cube()}}); err != nil {
		t.Fatalf("SubmitMesh: %v", err)
	}

	keys := &fakeKeys{}
	keys.pressed[KeySaveDiagnostics] = true
	rec.Reset()
	c.Update(keys, cam, r, 0)
	if n := rec.Count("ReadPixels"); n != 0 {
		t.Fatalf("Update read %d captures before the frame was drawn", n)
	}

	if err := r.Render(cam, c.Params); err != nil {
		t.Fatalf("Render: %v", err)
	}
	rendered := len(rec.Calls)
	c.FinishFrame(r)

	if rec.Count("ReadPixels") != 1 {
		t.Fatalf("captures = %d, want 1", rec.Count("ReadPixels"))
	}
	lastDraw := -1
	for i, call := range rec.Calls {
		if strings.HasPrefix(call, "DrawElements") {
			lastDraw = i
		}
	}
	if lastDraw < 0 || lastDraw >= rendered {
		t.Fatalf("no draw recorded by Render: %v", rec.Calls)
	}
	for _, call := range rec.Calls[:rendered] {
		if strings.HasPrefix(call, "ReadPixels") {
			t.Fatal("capture taken before Render finished")
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("diagnostics files = %d, want 2", len(entries))
	}

	c.FinishFrame(r)
	if rec.Count("ReadPixels") != 1 {
		t.Error("a request must be written only once")
	}
}

func TestAnimate(t *testing.T) {
	r := newRenderer(t)
	Animate(r, 1)

	id, err := r.SubmitMesh(&scene.Mesh{Source: "cube", Primitives: []*scene.Primitive{scene.Cube()}})
	if err != nil {
		t.Fatalf("SubmitMesh: %v", err)
	}
	m, _ := r.Mesh(id)
	m.Primitives()[0].SetTranslation(mgl32.Vec3{1, 2, 0})

	Animate(r, math.Pi/2)
	got := r.Primitives()[0].Translation()
	if !got.ApproxEqual(mgl32.Vec3{1, 2, 5}) {
		t.Errorf("translation = %v, want (1, 2, 5)", got)
	}
}

func TestConfigMapping(t *testing.T) {
	cfg := config.Default()
	cfg.Renderer.VoxelResolution = 128
	cfg.Renderer.RenderingMode = "Radiance"
	cfg.Renderer.VoxelizationMode = "hybrid"

	rc := RendererConfig(cfg, 800, 600)
	if rc.Width != 800 || rc.Height != 600 || rc.VoxelResolution != 128 {
		t.Errorf("renderer config = %+v", rc)
	}
	if rc.ClearColor != (mgl32.Vec4{0.1, 0.1, 0.1, 1}) {
		t.Errorf("clear color = %v", rc.ClearColor)
	}

	c, err := ControllerFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if c.Params.Rendering != renderer.ModeRadiance || c.Params.Voxelization != renderer.VoxelizeHybrid {
		t.Errorf("params = %+v", c.Params)
	}

	cfg.Renderer.RenderingMode = "wireframe"
	if _, err := ControllerFromConfig(cfg); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestStoreSettings(t *testing.T) {
	tests := []struct {
		name         string
		rendering    renderer.RenderingMode
		voxelization renderer.VoxelizationMode
		resolution   int32
	}{
		{"defaults", renderer.ModeScene, renderer.VoxelizeFragmentOnly, 64},
		{"radiance hybrid", renderer.ModeRadiance, renderer.VoxelizeHybrid, 128},
		{"albedo high resolution", renderer.ModeAlbedo, renderer.VoxelizeFragmentOnly, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(t)
			r.Volume().SetResolution(tt.resolution)
			c := NewController(tt.rendering, tt.voxelization)

			cfg := config.Default()
			StoreSettings(cfg, c, r)
			if cfg.Renderer.VoxelResolution != int(tt.resolution) {
				t.Errorf("resolution = %d, want %d", cfg.Renderer.VoxelResolution, tt.resolution)
			}

			restored, err := ControllerFromConfig(cfg)
			if err != nil {
				t.Fatalf("ControllerFromConfig: %v", err)
			}
			if restored.Params.Rendering != tt.rendering || restored.Params.Voxelization != tt.voxelization {
				t.Errorf("restored params = %+v", restored.Params)
			}
		})
	}
}

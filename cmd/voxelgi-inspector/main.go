// Package main is the voxel GI inspector: the viewer plus Dear ImGui panels
// for editing lights, the voxel volume and primitive transforms at runtime.
package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/app"
	"github.com/Faultbox/voxel-gi/internal/assets"
	"github.com/Faultbox/voxel-gi/internal/assets/gltfload"
	"github.com/Faultbox/voxel-gi/internal/config"
	"github.com/Faultbox/voxel-gi/internal/engine/camera"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/engine/ui"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

var keyMap = map[app.Key]imgui.Key{
	app.KeyForward:            imgui.KeyW,
	app.KeyBack:               imgui.KeyS,
	app.KeyLeft:               imgui.KeyA,
	app.KeyRight:              imgui.KeyD,
	app.KeyTurnLeft:           imgui.KeyJ,
	app.KeyTurnRight:          imgui.KeyL,
	app.KeyLookUp:             imgui.KeyI,
	app.KeyLookDown:           imgui.KeyK,
	app.KeyQuit:               imgui.KeyEscape,
	app.KeySaveDiagnostics:    imgui.KeyP,
	app.KeyToggleVoxelization: imgui.KeyV,
	app.KeyCycleResolution:    imgui.KeyR,
	app.KeyModeScene:          imgui.Key1,
	app.KeyModeAlbedo:         imgui.Key2,
	app.KeyModeNormal:         imgui.Key3,
	app.KeyModeEmission:       imgui.Key4,
	app.KeyModeRadiance:       imgui.Key5,
}

// imguiKeys adapts ImGui key state to app.Keys. Keys typed into widgets are ignored.
type imguiKeys struct{}

// Down implements app.Keys.
func (imguiKeys) Down(key app.Key) bool {
	return !ui.WantsKeyboard() && ui.IsKeyDown(keyMap[key])
}

// Pressed implements app.Keys.
func (imguiKeys) Pressed(key app.Key) bool {
	return !ui.WantsKeyboard() && ui.IsKeyPressed(keyMap[key])
}

// Inspector is the application state.
type Inspector struct {
	cfg        *config.Config
	backend    *ui.Backend
	renderer   *renderer.Renderer
	camera     *camera.FlyCamera
	controller *app.Controller
	assets     *assets.Manager
	loader     *gltfload.Loader
	resources  *scene.Resources

	start, last time.Time
	dt          float32

	// Set by the file dialog goroutine, consumed on the main thread.
	pendingMu   sync.Mutex
	pendingMesh string

	status string
}

func main() {
	runtime.LockOSThread()
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Voxel GI Inspector ===")

	insp, err := NewInspector(cfg)
	if err != nil {
		logger.Error("failed to start inspector", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer insp.Close()

	insp.Run()
	logger.Info("inspector closed normally")
}

// NewInspector opens the window and loads the configured scene.
func NewInspector(cfg *config.Config) (*Inspector, error) {
	preset, err := app.LookupPreset(cfg.Scene.Name)
	if err != nil {
		return nil, err
	}
	controller, err := app.ControllerFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := ui.NewBackend(cfg.Window.Title+" Inspector", cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return nil, err
	}

	r, err := renderer.New(backend.Device(), app.RendererConfig(cfg, int32(cfg.Window.Width), int32(cfg.Window.Height)))
	if err != nil {
		return nil, err
	}

	manager := assets.NewManager(cfg.Scene.AssetDirs...)
	insp := &Inspector{
		cfg:        cfg,
		backend:    backend,
		renderer:   r,
		camera:     camera.NewFlyCamera(mgl32.Vec3{}, 0, 0),
		controller: controller,
		assets:     manager,
		loader:     gltfload.New(manager),
		resources:  scene.NewResources(),
	}
	insp.camera.SetAspect(int32(cfg.Window.Width), int32(cfg.Window.Height))

	if err := preset.Load(r, insp.camera, insp.loader, insp.resources); err != nil {
		r.Close()
		return nil, err
	}
	return insp, nil
}

// Close releases GPU objects and cached files.
func (insp *Inspector) Close() {
	insp.renderer.Close()
	insp.assets.Close()
}

// Run starts the main loop. The backend clears the window, calls frame and
// then draws the ImGui panels over the scene.
func (insp *Inspector) Run() {
	insp.start = time.Now()
	insp.last = insp.start
	insp.backend.Run(insp.frame)
}

func (insp *Inspector) frame() {
	now := time.Now()
	insp.dt = float32(now.Sub(insp.last).Seconds())
	insp.last = now
	elapsed := float32(now.Sub(insp.start).Seconds())

	insp.submitPending()

	w, h := ui.DisplaySize()
	insp.renderer.SetViewportSize(w, h)
	insp.camera.SetAspect(w, h)

	if insp.controller.Update(imguiKeys{}, insp.camera, insp.renderer, insp.dt) {
		insp.exit()
	}
	app.Animate(insp.renderer, elapsed)

	insp.controller.Params.Time = elapsed
	if err := insp.renderer.Render(insp.camera, insp.controller.Params); err != nil {
		insp.status = err.Error()
		logger.Error("render failed", zap.Error(err))
	}
	insp.controller.FinishFrame(insp.renderer)

	insp.drawPanels()
}

// exit releases GPU objects and ends the process. The SDL backend loop only
// stops on a window close event, so Esc cannot return from Run.
func (insp *Inspector) exit() {
	insp.Close()
	logger.Info("inspector closed normally")
	logger.Sync()
	os.Exit(0)
}

// openMeshDialog shows a native file dialog. The chosen mesh is submitted
// on the main thread by the next frame.
func (insp *Inspector) openMeshDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("glTF Models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Add Mesh").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Error("file dialog", zap.Error(err))
			}
			return
		}

		insp.pendingMu.Lock()
		insp.pendingMesh = filename
		insp.pendingMu.Unlock()
	}()
}

func (insp *Inspector) submitPending() {
	insp.pendingMu.Lock()
	path := insp.pendingMesh
	insp.pendingMesh = ""
	insp.pendingMu.Unlock()
	if path == "" {
		return
	}

	placement := app.Placement{Path: path, Scaling: mgl32.Vec3{1, 1, 1}}
	if _, err := app.AddMesh(insp.renderer, insp.loader, insp.resources, placement); err != nil {
		insp.status = err.Error()
		logger.Error("add mesh failed", zap.String("path", path), zap.Error(err))
		return
	}
	insp.status = "added " + path
}

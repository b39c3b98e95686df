// Package main is the voxel GI viewer: one window, keyboard camera and the
// selected scene preset.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/voxel-gi/internal/app"
	"github.com/Faultbox/voxel-gi/internal/assets"
	"github.com/Faultbox/voxel-gi/internal/assets/gltfload"
	"github.com/Faultbox/voxel-gi/internal/config"
	"github.com/Faultbox/voxel-gi/internal/engine/camera"
	"github.com/Faultbox/voxel-gi/internal/engine/gpu/gldevice"
	"github.com/Faultbox/voxel-gi/internal/engine/input"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
	"github.com/Faultbox/voxel-gi/internal/engine/scene"
	"github.com/Faultbox/voxel-gi/internal/engine/window"
	"github.com/Faultbox/voxel-gi/internal/logger"
)

var keyMap = map[app.Key]sdl.Scancode{
	app.KeyForward:            sdl.SCANCODE_W,
	app.KeyBack:               sdl.SCANCODE_S,
	app.KeyLeft:               sdl.SCANCODE_A,
	app.KeyRight:              sdl.SCANCODE_D,
	app.KeyTurnLeft:           sdl.SCANCODE_J,
	app.KeyTurnRight:          sdl.SCANCODE_L,
	app.KeyLookUp:             sdl.SCANCODE_I,
	app.KeyLookDown:           sdl.SCANCODE_K,
	app.KeyQuit:               sdl.SCANCODE_ESCAPE,
	app.KeySaveDiagnostics:    sdl.SCANCODE_P,
	app.KeyToggleVoxelization: sdl.SCANCODE_V,
	app.KeyCycleResolution:    sdl.SCANCODE_R,
	app.KeyModeScene:          sdl.SCANCODE_1,
	app.KeyModeAlbedo:         sdl.SCANCODE_2,
	app.KeyModeNormal:         sdl.SCANCODE_3,
	app.KeyModeEmission:       sdl.SCANCODE_4,
	app.KeyModeRadiance:       sdl.SCANCODE_5,
}

// sdlKeys adapts input.Input to app.Keys.
type sdlKeys struct{ in *input.Input }

// Down implements app.Keys.
func (k sdlKeys) Down(key app.Key) bool { return k.in.IsKeyDown(keyMap[key]) }

// Pressed implements app.Keys.
func (k sdlKeys) Pressed(key app.Key) bool { return k.in.IsKeyPressed(keyMap[key]) }

func main() {
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

	logger.Info("=== Voxel GI Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	preset, err := app.LookupPreset(cfg.Scene.Name)
	if err != nil {
		return err
	}
	controller, err := app.ControllerFromConfig(cfg)
	if err != nil {
		return err
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	dev, err := gldevice.New()
	if err != nil {
		return err
	}

	width, height := win.DrawableSize()
	r, err := renderer.New(dev, app.RendererConfig(cfg, width, height))
	if err != nil {
		return err
	}
	defer r.Close()

	manager := assets.NewManager(cfg.Scene.AssetDirs...)
	defer manager.Close()

	cam := camera.NewFlyCamera(mgl32.Vec3{}, 0, 0)
	cam.SetAspect(width, height)
	if err := preset.Load(r, cam, gltfload.New(manager), scene.NewResources()); err != nil {
		return err
	}

	in := input.New()
	keys := sdlKeys{in: in}
	start := time.Now()
	last := start

	for {
		if in.Update() {
			return nil
		}
		for _, e := range in.Events() {
			if e.Type == input.EventWindowResize {
				w, h := win.DrawableSize()
				r.SetViewportSize(w, h)
				cam.SetAspect(w, h)
			}
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		if controller.Update(keys, cam, r, dt) {
			return nil
		}
		app.Animate(r, float32(now.Sub(start).Seconds()))

		controller.Params.Time = float32(now.Sub(start).Seconds())
		if err := r.Render(cam, controller.Params); err != nil {
			return err
		}
		controller.FinishFrame(r)
		win.SwapBuffers()
		win.SetTitle(fmt.Sprintf("%s | %.6f", cfg.Window.Title, dt))
	}
}

package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxel-gi/internal/config"
	"github.com/Faultbox/voxel-gi/internal/engine/renderer"
)

// RendererConfig builds the renderer configuration for a viewport of the given size.
func RendererConfig(cfg *config.Config, width, height int32) renderer.Config {
	return renderer.Config{
		Width:           width,
		Height:          height,
		VoxelResolution: int32(cfg.Renderer.VoxelResolution),
		ClearColor:      mgl32.Vec4(cfg.Renderer.ClearColor),
		DiagnosticsDir:  cfg.Diagnostics.Dir,
	}
}

// ControllerFromConfig starts a controller in the configured modes.
func ControllerFromConfig(cfg *config.Config) (*Controller, error) {
	rendering, err := renderer.ParseRenderingMode(cfg.Renderer.RenderingMode)
	if err != nil {
		return nil, fmt.Errorf("renderer config: %w", err)
	}
	voxelization, err := renderer.ParseVoxelizationMode(cfg.Renderer.VoxelizationMode)
	if err != nil {
		return nil, fmt.Errorf("renderer config: %w", err)
	}
	return NewController(rendering, voxelization), nil
}

// StoreSettings copies the modes and voxel resolution chosen at runtime back
// into cfg, so a saved config starts the next session in the same state.
func StoreSettings(cfg *config.Config, c *Controller, r *renderer.Renderer) {
	cfg.Renderer.RenderingMode = c.Params.Rendering.String()
	cfg.Renderer.VoxelizationMode = c.Params.Voxelization.String()
	cfg.Renderer.VoxelResolution = int(r.Volume().Resolution())
}

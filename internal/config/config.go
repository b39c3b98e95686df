// Package config handles renderer configuration loading and management.
package config

import (
	"fmt"
	"slices"
)

// VoxelResolutions lists the voxel grid resolutions the renderer offers.
var VoxelResolutions = []int{64, 128, 256}

// Config holds all application settings.
type Config struct {
	Window      WindowConfig      `yaml:"window"`
	Renderer    RendererConfig    `yaml:"renderer"`
	Scene       SceneConfig       `yaml:"scene"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RendererConfig holds render pipeline settings.
type RendererConfig struct {
	VoxelResolution  int        `yaml:"voxel_resolution"`
	ClearColor       [4]float32 `yaml:"clear_color"`
	RenderingMode    string     `yaml:"rendering_mode"`    // scene, albedo, normal, emission, radiance
	VoxelizationMode string     `yaml:"voxelization_mode"` // fragment, hybrid
}

// SceneConfig selects the startup scene and where its assets live.
type SceneConfig struct {
	Name      string   `yaml:"name"` // test, sponza, cornell
	AssetDirs []string `yaml:"asset_dirs"`
}

// DiagnosticsConfig holds diagnostics dump settings.
type DiagnosticsConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Potato Renderer",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: RendererConfig{
			VoxelResolution:  64,
			ClearColor:       [4]float32{0.1, 0.1, 0.1, 1.0},
			RenderingMode:    "scene",
			VoxelizationMode: "fragment",
		},
		Scene: SceneConfig{
			Name:      "cornell",
			AssetDirs: []string{"assets", "assets/models"},
		},
		Diagnostics: DiagnosticsConfig{
			Dir: "diagnostics",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting the renderer cannot start with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if !slices.Contains(VoxelResolutions, c.Renderer.VoxelResolution) {
		return fmt.Errorf("voxel resolution %d not in %v", c.Renderer.VoxelResolution, VoxelResolutions)
	}
	switch c.Scene.Name {
	case "test", "sponza", "cornell":
	default:
		return fmt.Errorf("unknown scene %q", c.Scene.Name)
	}
	return nil
}

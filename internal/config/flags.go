package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScene      = flag.String("scene", "", "Startup scene (test, sponza, cornell)")
	flagResolution = flag.Int("resolution", 0, "Voxel grid resolution (64, 128, 256)")
	flagHybrid     = flag.Bool("hybrid", false, "Start in hybrid voxelization mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagDiagDir    = flag.String("diag-dir", "", "Directory for diagnostics dumps")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.Name = *flagScene
	}
	if *flagResolution > 0 {
		cfg.Renderer.VoxelResolution = *flagResolution
	}
	if *flagHybrid {
		cfg.Renderer.VoxelizationMode = "hybrid"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagDiagDir != "" {
		cfg.Diagnostics.Dir = *flagDiagDir
	}
}

package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and hook tracing")
	flagScene      = flag.String("scene", "", "Scene file (.glb or .gltf)")
	flagQuality    = flag.Int("quality", -1, "Quality tier 0-10")
	flagTimeOfDay  = flag.String("time-of-day", "", "Force morning, afternoon, sunset or night")
	flagWatch      = flag.Bool("watch", false, "Reload the scene when the file changes")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
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
		cfg.Logging.Hooks = true
	}
	if *flagScene != "" {
		cfg.Viewer.Scene = *flagScene
	}
	if *flagQuality >= 0 {
		cfg.Viewer.Quality = *flagQuality
	}
	if *flagTimeOfDay != "" {
		cfg.Viewer.TimeOfDay = *flagTimeOfDay
	}
	if *flagWatch {
		cfg.Viewer.Watch = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}

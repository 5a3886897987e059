// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/citymap/internal/logger"
	"github.com/Faultbox/citymap/pkg/mapview"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer" toml:"viewer"`
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Advanced is a partial override of the renderer's advanced settings,
	// kept as a tree so files can be layered key by key.
	Advanced map[string]any `yaml:"advanced,omitempty" toml:"advanced,omitempty"`
}

// ViewerConfig selects the scene and the features of the viewer.
type ViewerConfig struct {
	Scene     string `yaml:"scene" toml:"scene"`
	Quality   int    `yaml:"quality" toml:"quality"`
	TimeOfDay string `yaml:"time_of_day" toml:"time_of_day"` // empty follows the clock
	Highlight string `yaml:"highlight" toml:"highlight"`     // "recolor" or "outline"
	Tooltips  bool   `yaml:"tooltips" toml:"tooltips"`
	Watch     bool   `yaml:"watch" toml:"watch"` // reload the scene when the file changes
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title" toml:"title"`
	Width      int    `yaml:"width" toml:"width"`
	Height     int    `yaml:"height" toml:"height"`
	Fullscreen bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool   `yaml:"vsync" toml:"vsync"`
	Samples    int    `yaml:"samples" toml:"samples"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
	Hooks   bool   `yaml:"hooks" toml:"hooks"` // log every feature hook
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Scene:     "city.glb",
			Quality:   5,
			Highlight: "recolor",
			Tooltips:  true,
		},
		Window: WindowConfig{
			Title:   "citymap",
			Width:   1280,
			Height:  720,
			VSync:   true,
			Samples: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the values the viewer interprets itself. Advanced
// settings are validated by the renderer builder.
func (c *Config) Validate() error {
	if c.Viewer.Scene == "" {
		return fmt.Errorf("%w: viewer.scene is empty", ErrInvalid)
	}
	if c.Viewer.Quality < 0 || c.Viewer.Quality > 10 {
		return fmt.Errorf("%w: viewer.quality %d outside 0-10", ErrInvalid, c.Viewer.Quality)
	}
	switch mapview.TimeOfDay(c.Viewer.TimeOfDay) {
	case "", mapview.Morning, mapview.Afternoon, mapview.Sunset, mapview.Night:
	default:
		return fmt.Errorf("%w: viewer.time_of_day %q", ErrInvalid, c.Viewer.TimeOfDay)
	}
	switch c.Viewer.Highlight {
	case "recolor", "outline":
	default:
		return fmt.Errorf("%w: viewer.highlight %q", ErrInvalid, c.Viewer.Highlight)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

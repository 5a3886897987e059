package mapview

import (
	"fmt"
	"time"

	"github.com/Faultbox/citymap/internal/logger"
	"github.com/Faultbox/citymap/pkg/merge"
)

// Size is a pixel size.
type Size struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// PowerPreference hints the GPU selection to the backend.
type PowerPreference string

const (
	PowerDefault         PowerPreference = "default"
	PowerHighPerformance PowerPreference = "high-performance"
	PowerLowPower        PowerPreference = "low-power"
)

// SettingsFunc derives advanced overrides from the quality tier and the
// settings merged so far (defaults plus the explicit override). It must be a
// pure function of its arguments.
type SettingsFunc func(quality int, current AdvanceSettings) *AdvanceSettingsPartial

// BasicSettings are the required renderer inputs.
type BasicSettings struct {
	Quality   int // 0-10
	Target    Surface
	SceneFile string
	Settings  SettingsFunc // optional
}

// AdvanceSettings is the fully merged renderer configuration.
type AdvanceSettings struct {
	Quality     QualitySettings
	Camera      CameraSettings
	Canvas      CanvasSettings
	Map         MapSettings
	Performance PerformanceSettings
	Light       LightSettings
	Misc        MiscSettings
}

type QualitySettings struct {
	Shadows        bool
	Antialias      bool
	Postprocessing bool
}

type CameraSettings struct {
	SmoothTransition bool
	Duration         time.Duration // focus tween duration
	Fov              float32       // vertical, degrees
	LateralOffset    float32       // focus offset along x/z, before global scale
	VerticalOffset   float32       // focus offset along y, before global scale
}

type CanvasSettings struct {
	Size        Size
	FixedSize   bool
	GlobalScale float32
}

type MapSettings struct {
	Colors         map[TimeOfDay]Palette
	TimeOfDay      TimeOfDayFunc
	NoInteractions bool
}

type PerformanceSettings struct {
	PowerPreference PowerPreference
}

// LightSettings holds per-light intensities.
type LightSettings struct {
	Ambient float32
	Sun     float32
	Top     float32
	Point   float32
}

type MiscSettings struct {
	LogLevel string // debug, info, warn or error
}

// AdvanceSettingsPartial overrides selected AdvanceSettings leaves. Nil
// fields are left untouched.
type AdvanceSettingsPartial struct {
	Quality     *QualitySettingsPartial     `yaml:"quality" toml:"quality"`
	Camera      *CameraSettingsPartial      `yaml:"camera" toml:"camera"`
	Canvas      *CanvasSettingsPartial      `yaml:"canvas" toml:"canvas"`
	Map         *MapSettingsPartial         `yaml:"map" toml:"map"`
	Performance *PerformanceSettingsPartial `yaml:"performance" toml:"performance"`
	Light       *LightSettingsPartial       `yaml:"light" toml:"light"`
	Misc        *MiscSettingsPartial        `yaml:"misc" toml:"misc"`
}

type QualitySettingsPartial struct {
	Shadows        *bool `yaml:"shadows" toml:"shadows"`
	Antialias      *bool `yaml:"antialias" toml:"antialias"`
	Postprocessing *bool `yaml:"postprocessing" toml:"postprocessing"`
}

type CameraSettingsPartial struct {
	SmoothTransition *bool          `yaml:"smooth_transition" toml:"smooth_transition"`
	Duration         *time.Duration `yaml:"duration" toml:"duration"`
	Fov              *float32       `yaml:"fov" toml:"fov"`
	LateralOffset    *float32       `yaml:"lateral_offset" toml:"lateral_offset"`
	VerticalOffset   *float32       `yaml:"vertical_offset" toml:"vertical_offset"`
}

type CanvasSettingsPartial struct {
	Size        *Size    `yaml:"size" toml:"size"`
	FixedSize   *bool    `yaml:"fixed_size" toml:"fixed_size"`
	GlobalScale *float32 `yaml:"global_scale" toml:"global_scale"`
}

type MapSettingsPartial struct {
	Colors         map[TimeOfDay]*PalettePartial `yaml:"colors" toml:"colors"`
	TimeOfDay      TimeOfDayFunc                 `yaml:"-" toml:"-"`
	NoInteractions *bool                         `yaml:"no_interactions" toml:"no_interactions"`
}

type PerformanceSettingsPartial struct {
	PowerPreference *PowerPreference `yaml:"power_preference" toml:"power_preference"`
}

type LightSettingsPartial struct {
	Ambient *float32 `yaml:"ambient" toml:"ambient"`
	Sun     *float32 `yaml:"sun" toml:"sun"`
	Top     *float32 `yaml:"top" toml:"top"`
	Point   *float32 `yaml:"point" toml:"point"`
}

type MiscSettingsPartial struct {
	LogLevel *string `yaml:"log_level" toml:"log_level"`
}

// MergeDefaults returns the baseline settings for a quality tier. The result
// depends on quality alone.
func MergeDefaults(quality int) AdvanceSettings {
	power := PowerDefault
	switch {
	case quality > 6:
		power = PowerHighPerformance
	case quality < 3:
		power = PowerLowPower
	}

	return AdvanceSettings{
		Quality: QualitySettings{
			Shadows:        quality > 3,
			Antialias:      quality > 3,
			Postprocessing: quality > 6,
		},
		Camera: CameraSettings{
			SmoothTransition: true,
			Duration:         1000 * time.Millisecond,
			Fov:              45,
			LateralOffset:    25,
			VerticalOffset:   30,
		},
		Canvas: CanvasSettings{
			Size:        Size{Width: 1280, Height: 720},
			GlobalScale: 1,
		},
		Map: MapSettings{
			Colors:    DefaultPalettes(),
			TimeOfDay: ClockTimeOfDay,
		},
		Performance: PerformanceSettings{PowerPreference: power},
		Light: LightSettings{
			Ambient: 0.5 + 0.02*float32(quality),
			Sun:     0.8 + 0.04*float32(quality),
			Top:     0.3 + 0.02*float32(quality),
			Point:   1,
		},
		Misc: MiscSettings{LogLevel: "info"},
	}
}

// MergeAdvanceSettings returns base with override merged over it. base is
// not modified; a nil override returns base unchanged.
func MergeAdvanceSettings(base AdvanceSettings, override *AdvanceSettingsPartial) (AdvanceSettings, error) {
	out := base
	if err := merge.Into(&out, override); err != nil {
		return base, fmt.Errorf("merge advanced settings: %w", err)
	}
	return out, nil
}

// ComposeSettings builds the final settings: quality defaults, then override,
// then the output of basic.Settings (which sees the override-merged result).
func ComposeSettings(basic BasicSettings, override *AdvanceSettingsPartial) (AdvanceSettings, error) {
	if basic.Quality < 0 || basic.Quality > 10 {
		return AdvanceSettings{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, basic.Quality)
	}

	s, err := MergeAdvanceSettings(MergeDefaults(basic.Quality), override)
	if err != nil {
		return AdvanceSettings{}, err
	}
	if basic.Settings != nil {
		if s, err = MergeAdvanceSettings(s, basic.Settings(basic.Quality, s)); err != nil {
			return AdvanceSettings{}, err
		}
	}
	if err := s.Validate(); err != nil {
		return AdvanceSettings{}, err
	}
	return s, nil
}

// Validate checks the settings for values the renderer cannot use.
func (s AdvanceSettings) Validate() error {
	c := s.Canvas
	if c.Size.Width <= 0 || c.Size.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidCanvas, c.Size.Width, c.Size.Height)
	}
	if c.GlobalScale <= 0 {
		return fmt.Errorf("%w: global scale %v", ErrInvalidCanvas, c.GlobalScale)
	}
	if s.Map.TimeOfDay == nil {
		return fmt.Errorf("%w: no resolver", ErrUnknownTimeOfDay)
	}
	for tod, p := range s.Map.Colors {
		if _, err := p.Resolve(); err != nil {
			return fmt.Errorf("palette %s: %w", tod, err)
		}
	}
	if _, err := logger.ParseLevel(s.Misc.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, s.Misc.LogLevel)
	}
	return nil
}

// Palette resolves the palette for tod.
func (s AdvanceSettings) Palette(tod TimeOfDay) (Colors, error) {
	p, ok := s.Map.Colors[tod]
	if !ok {
		return Colors{}, fmt.Errorf("%w: %q", ErrUnknownTimeOfDay, tod)
	}
	return p.Resolve()
}

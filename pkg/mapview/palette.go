package mapview

import (
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// TimeOfDay selects a palette and lighting setup.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Sunset    TimeOfDay = "sunset"
	Night     TimeOfDay = "night"
)

// TimesOfDay lists every time-of-day tag, from morning to night.
var TimesOfDay = []TimeOfDay{Morning, Afternoon, Sunset, Night}

// TimeOfDayFunc resolves the current time of day. It is called once per
// renderer, at construction, and must not depend on hidden state.
type TimeOfDayFunc func() TimeOfDay

// Palette holds the colours for one time of day as hex strings ("#rrggbb").
type Palette struct {
	Sunlight string `yaml:"sunlight" toml:"sunlight"` // side light, casts the shadows
	Ambient  string `yaml:"ambient" toml:"ambient"`
	Toplight string `yaml:"toplight" toml:"toplight"`
	Skylight string `yaml:"skylight" toml:"skylight"` // background
	Ground   string `yaml:"ground" toml:"ground"`
	Outline  string `yaml:"outline" toml:"outline"`

	Buildings BuildingColors `yaml:"buildings" toml:"buildings"`
}

// BuildingColors are the building states. Hovered and Selected may be left
// empty to derive them from Unchanged.
type BuildingColors struct {
	Unchanged string `yaml:"unchanged" toml:"unchanged"`
	Hovered   string `yaml:"hovered" toml:"hovered"`
	Selected  string `yaml:"selected" toml:"selected"`
}

// PalettePartial overrides individual palette entries.
type PalettePartial struct {
	Sunlight *string `yaml:"sunlight" toml:"sunlight"`
	Ambient  *string `yaml:"ambient" toml:"ambient"`
	Toplight *string `yaml:"toplight" toml:"toplight"`
	Skylight *string `yaml:"skylight" toml:"skylight"`
	Ground   *string `yaml:"ground" toml:"ground"`
	Outline  *string `yaml:"outline" toml:"outline"`

	Buildings *BuildingColorsPartial `yaml:"buildings" toml:"buildings"`
}

type BuildingColorsPartial struct {
	Unchanged *string `yaml:"unchanged" toml:"unchanged"`
	Hovered   *string `yaml:"hovered" toml:"hovered"`
	Selected  *string `yaml:"selected" toml:"selected"`
}

// Colors is a parsed palette.
type Colors struct {
	Background colorful.Color // the skylight
	Building   colorful.Color
	Ground     colorful.Color
	Hover      colorful.Color
	Selected   colorful.Color
	Outline    colorful.Color
	Sun        colorful.Color
	Ambient    colorful.Color
	Top        colorful.Color
}

var (
	hoverTint    = colorful.Color{R: 1, G: 0.835, B: 0.31}
	selectedTint = colorful.Color{R: 1, G: 0.44, B: 0.263}
)

// Resolve parses the palette. Missing hovered and selected colours are
// blended from the unchanged building colour in Lab space.
func (p Palette) Resolve() (Colors, error) {
	var c Colors
	for _, e := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"skylight", p.Skylight, &c.Background},
		{"buildings.unchanged", p.Buildings.Unchanged, &c.Building},
		{"ground", p.Ground, &c.Ground},
		{"outline", p.Outline, &c.Outline},
		{"sunlight", p.Sunlight, &c.Sun},
		{"ambient", p.Ambient, &c.Ambient},
		{"toplight", p.Toplight, &c.Top},
	} {
		col, err := colorful.Hex(e.hex)
		if err != nil {
			return Colors{}, fmt.Errorf("%w: %s %q", ErrInvalidPalette, e.name, e.hex)
		}
		*e.dst = col
	}

	var err error
	if c.Hover, err = optionalHex("buildings.hovered", p.Buildings.Hovered, c.Building.BlendLab(hoverTint, 0.5)); err != nil {
		return Colors{}, err
	}
	if c.Selected, err = optionalHex("buildings.selected", p.Buildings.Selected, c.Building.BlendLab(selectedTint, 0.7)); err != nil {
		return Colors{}, err
	}
	return c, nil
}

func optionalHex(name, hex string, fallback colorful.Color) (colorful.Color, error) {
	if hex == "" {
		return fallback.Clamped(), nil
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %s %q", ErrInvalidPalette, name, hex)
	}
	return col, nil
}

// defaultBuildings are shared by every built-in palette.
var defaultBuildings = BuildingColors{
	Unchanged: "#8e8e8e",
	Hovered:   "#ffffff",
	Selected:  "#b82832",
}

// DefaultPalettes returns the built-in palettes for every time of day.
func DefaultPalettes() map[TimeOfDay]Palette {
	return map[TimeOfDay]Palette{
		Morning: {
			Sunlight:  "#ffa24b",
			Ambient:   "#888888",
			Toplight:  "#fff1e5",
			Skylight:  "#485e6b",
			Ground:    "#7d8471",
			Outline:   "#ffffff",
			Buildings: defaultBuildings,
		},
		Afternoon: {
			Sunlight:  "#fdfbd3",
			Ambient:   "#dedede",
			Toplight:  "#fdfbd3",
			Skylight:  "#87ceeb",
			Ground:    "#a3ad94",
			Outline:   "#ffffff",
			Buildings: defaultBuildings,
		},
		Sunset: {
			Sunlight:  "#fdb813",
			Ambient:   "#cccccc",
			Toplight:  "#d69800",
			Skylight:  "#f5c6a1",
			Ground:    "#9c8c78",
			Outline:   "#ffffff",
			Buildings: defaultBuildings,
		},
		Night: {
			Sunlight:  "#333333",
			Ambient:   "#222222",
			Toplight:  "#343434",
			Skylight:  "#87889c",
			Ground:    "#3a3d45",
			Outline:   "#4fc3f7",
			Buildings: defaultBuildings,
		},
	}
}

// ClockTimeOfDay derives the time of day from the local clock.
func ClockTimeOfDay() TimeOfDay {
	return TimeOfDayAt(time.Now())
}

// TimeOfDayAt maps a wall-clock hour to a time of day: morning from 5 to 10,
// afternoon from 11 to 14, sunset from 15 to 16 and night otherwise.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return Morning
	case h >= 11 && h < 15:
		return Afternoon
	case h >= 15 && h < 17:
		return Sunset
	default:
		return Night
	}
}

// FixedTimeOfDay returns a resolver that always reports tod.
func FixedTimeOfDay(tod TimeOfDay) TimeOfDayFunc {
	return func() TimeOfDay { return tod }
}

package config

import (
	"fmt"

	"github.com/Faultbox/citymap/pkg/mapview"
)

// Overrides decodes the advanced tree into a renderer override. Viewer
// settings fill the leaves the tree leaves unset: the canvas follows the
// window size, a configured time of day replaces the clock, and the
// renderer logs at the configured level.
func (c *Config) Overrides() (*mapview.AdvanceSettingsPartial, error) {
	p := &mapview.AdvanceSettingsPartial{}
	if len(c.Advanced) > 0 {
		if err := decodeTree(c.Advanced, p); err != nil {
			return nil, fmt.Errorf("%w: advanced: %w", ErrInvalid, err)
		}
	}

	if p.Canvas == nil {
		p.Canvas = &mapview.CanvasSettingsPartial{}
	}
	if p.Canvas.Size == nil {
		p.Canvas.Size = &mapview.Size{Width: c.Window.Width, Height: c.Window.Height}
	}

	if c.Viewer.TimeOfDay != "" {
		if p.Map == nil {
			p.Map = &mapview.MapSettingsPartial{}
		}
		p.Map.TimeOfDay = mapview.FixedTimeOfDay(mapview.TimeOfDay(c.Viewer.TimeOfDay))
	}

	if p.Misc == nil {
		p.Misc = &mapview.MiscSettingsPartial{}
	}
	if p.Misc.LogLevel == nil {
		level := c.Logging.Level
		p.Misc.LogLevel = &level
	}
	return p, nil
}

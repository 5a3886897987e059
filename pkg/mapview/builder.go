// Package mapview is an interactive 3D city map viewer: it loads a baked
// scene, renders it into a host surface and exposes hover, click, focus,
// resize and fullscreen interaction to pluggable features.
//
// Consumers build a Builder from BasicSettings and an optional settings
// override, attach features and call Register to get a live Renderer.
package mapview

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/logger"
)

// Builder composes settings and owns the renderer lifecycle.
type Builder struct {
	basic    BasicSettings
	settings AdvanceSettings
	features []Feature
	current  *Renderer
}

// NewBuilder validates basic, composes the advanced settings and returns a
// builder. Configuration errors are returned here.
func NewBuilder(basic BasicSettings, override *AdvanceSettingsPartial) (*Builder, error) {
	if basic.Target == nil {
		return nil, ErrNoTarget
	}
	if basic.SceneFile == "" {
		return nil, ErrNoSceneFile
	}
	settings, err := ComposeSettings(basic, override)
	if err != nil {
		return nil, fmt.Errorf("compose settings: %w", err)
	}
	return &Builder{basic: basic, settings: settings}, nil
}

// AddFeature attaches a feature. Features are dispatched in the order added.
func (b *Builder) AddFeature(f Feature) *Builder {
	b.features = append(b.features, f)
	return b
}

// Register disposes the current renderer, if any, and creates a new one.
func (b *Builder) Register() (*Renderer, error) {
	if err := b.Dispose(); err != nil {
		logger.Warn("dispose previous renderer", zap.Error(err))
	}
	features := append([]Feature(nil), b.features...)
	r, err := newRenderer(b.basic, b.settings, features)
	if err != nil {
		return nil, err
	}
	b.current = r
	return r, nil
}

// Dispose tears down the current renderer and forgets it.
func (b *Builder) Dispose() error {
	if b.current == nil {
		return nil
	}
	r := b.current
	b.current = nil
	return r.Dispose()
}

// Renderer returns the live renderer, or nil before the first Register.
func (b *Builder) Renderer() *Renderer { return b.current }

// Settings returns the composed settings.
func (b *Builder) Settings() AdvanceSettings { return b.settings }

// Basic returns the basic settings the builder was created with.
func (b *Builder) Basic() BasicSettings { return b.basic }

package mapview

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/pkg/scene"
)

// PassKind identifies a post-processing pass.
type PassKind int

const (
	PassRender PassKind = iota
	PassFXAA
	PassOutline
)

func (k PassKind) String() string {
	switch k {
	case PassRender:
		return "render"
	case PassFXAA:
		return "fxaa"
	case PassOutline:
		return "outline"
	default:
		return "unknown"
	}
}

// OutlinePass draws an outline around the hovered and selected objects.
type OutlinePass struct {
	Color         colorful.Color
	SelectedColor colorful.Color
	EdgeStrength  float32
	Hovered       []*scene.Object
	Selected      []*scene.Object
}

// Composer describes the post-processing chain. The backend executes it.
type Composer struct {
	Passes  []PassKind
	Outline *OutlinePass
}

// NewComposer builds the chain: a render pass, FXAA when antialiasing is on,
// and an outline pass.
func NewComposer(s AdvanceSettings, colors Colors) *Composer {
	c := &Composer{Passes: []PassKind{PassRender}}
	if s.Quality.Antialias {
		c.Passes = append(c.Passes, PassFXAA)
	}
	c.Passes = append(c.Passes, PassOutline)
	c.Outline = &OutlinePass{
		Color:         colors.Outline,
		SelectedColor: colors.Selected,
		EdgeStrength:  3,
	}
	return c
}

// Has reports whether the chain contains a pass.
func (c *Composer) Has(kind PassKind) bool {
	for _, p := range c.Passes {
		if p == kind {
			return true
		}
	}
	return false
}

// SetHovered replaces the hovered outline set.
func (c *Composer) SetHovered(objs ...*scene.Object) {
	c.Outline.Hovered = objs
}

// SetSelected replaces the selected outline set.
func (c *Composer) SetSelected(objs ...*scene.Object) {
	c.Outline.Selected = objs
}

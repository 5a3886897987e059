package features

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/scene"
)

// HighlightMode selects how buildings are marked.
type HighlightMode int

const (
	// Recolor paints hovered and selected buildings with the palette colours.
	Recolor HighlightMode = iota
	// Outline marks them through the post-processing outline pass.
	Outline
)

func (m HighlightMode) String() string {
	if m == Outline {
		return "outline"
	}
	return "recolor"
}

// Highlight marks the hovered and the selected building.
type Highlight struct {
	Mode HighlightMode

	r        *mapview.Renderer
	hovered  *scene.Object
	selected *scene.Object
	original map[*scene.Object]colorful.Color
}

// NewHighlight creates a highlight feature.
func NewHighlight(mode HighlightMode) *Highlight {
	return &Highlight{Mode: mode}
}

// Hovered returns the building under the pointer, if any.
func (h *Highlight) Hovered() *scene.Object { return h.hovered }

// Selected returns the focused building, if any.
func (h *Highlight) Selected() *scene.Object { return h.selected }

func (h *Highlight) Setup(r *mapview.Renderer) error {
	if h.Mode == Outline && r.Composer() == nil {
		return fmt.Errorf("%w: outline highlighting needs postprocessing", mapview.ErrCapabilityMissing)
	}
	h.r = r
	h.original = make(map[*scene.Object]colorful.Color)
	return nil
}

func (h *Highlight) Cleanup(*mapview.Renderer) {
	for obj, c := range h.original {
		obj.Material.Color = c
	}
	if c := h.composer(); c != nil {
		c.SetHovered()
		c.SetSelected()
	}
	h.original = nil
	h.hovered, h.selected, h.r = nil, nil, nil
}

// Moving onto another building re-hovers; the hover is dropped when the
// canvas changes size because the pointer position no longer applies.
func (h *Highlight) OnHoverBuilding(e mapview.PointerEvent) { h.setHovered(e.Object) }
func (h *Highlight) OnMoveBuilding(e mapview.PointerEvent)  { h.setHovered(e.Object) }
func (h *Highlight) OnExitBuilding(mapview.PointerEvent)    { h.setHovered(nil) }
func (h *Highlight) OnControlStart()                        { h.setHovered(nil) }
func (h *Highlight) OnResize(mapview.Size)                  { h.setHovered(nil) }
func (h *Highlight) OnToggleFullscreen(bool)                { h.setHovered(nil) }
func (h *Highlight) OnFocusBuilding(obj *scene.Object)      { h.setSelected(obj) }

func (h *Highlight) OnClickBuilding(mapview.PointerEvent)   {}
func (h *Highlight) OnControlEnd()                          {}
func (h *Highlight) OnTraverseSceneChild(obj *scene.Object) {}

func (h *Highlight) setHovered(obj *scene.Object) {
	if h.r == nil || obj == h.hovered {
		return
	}
	prev := h.hovered
	h.hovered = obj
	h.refresh(prev)
	h.refresh(obj)
}

func (h *Highlight) setSelected(obj *scene.Object) {
	if h.r == nil || obj == h.selected {
		return
	}
	prev := h.selected
	h.selected = obj
	h.refresh(prev)
	h.refresh(obj)
}

func (h *Highlight) composer() *mapview.Composer {
	if h.r == nil {
		return nil
	}
	return h.r.Composer()
}

func (h *Highlight) refresh(obj *scene.Object) {
	if obj == nil {
		return
	}
	if h.Mode == Outline {
		c := h.composer()
		c.SetHovered(nonNil(h.hovered)...)
		c.SetSelected(nonNil(h.selected)...)
		return
	}

	if obj.Material == nil {
		return
	}
	colors := h.r.Colors()
	switch obj {
	case h.selected:
		h.paint(obj, colors.Selected)
	case h.hovered:
		h.paint(obj, colors.Hover)
	default:
		if c, ok := h.original[obj]; ok {
			obj.Material.Color = c
			delete(h.original, obj)
		}
	}
}

func (h *Highlight) paint(obj *scene.Object, c colorful.Color) {
	if _, ok := h.original[obj]; !ok {
		h.original[obj] = obj.Material.Color
	}
	obj.Material.Color = c
}

func nonNil(objs ...*scene.Object) []*scene.Object {
	out := objs[:0]
	for _, o := range objs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

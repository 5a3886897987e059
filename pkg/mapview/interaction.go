package mapview

import (
	"github.com/Faultbox/citymap/internal/engine/picking"
	"github.com/Faultbox/citymap/pkg/scene"
)

// ClickThreshold is the largest pointer travel, in pixels, between press and
// release on a building that still counts as a click.
const ClickThreshold = 15

type press struct {
	obj  *scene.Object
	x, y float32
}

// handlePointer routes raw host input to the orbit controls and the
// building picking layer.
func (r *Renderer) handlePointer(in PointerInput) {
	if r.disposed {
		return
	}
	switch in.Kind {
	case PointerWheel:
		r.controls.Wheel(in.Wheel)
		return
	case PointerDown:
		r.controls.PointerDown(in.X, in.Y)
		r.layer.Down(r.ray(in.X, in.Y), in.X, in.Y)
	case PointerMove:
		r.controls.PointerMove(in.X, in.Y)
		r.layer.Move(r.ray(in.X, in.Y), in.X, in.Y)
	case PointerUp:
		r.controls.PointerUp()
		r.layer.Up(r.ray(in.X, in.Y), in.X, in.Y)
		r.press = press{}
	}
}

func (r *Renderer) ray(x, y float32) picking.Ray {
	inv := r.camera.ViewProjection().Inverse()
	return picking.ScreenToRay(x, y, float32(r.size.Width), float32(r.size.Height), inv)
}

func (r *Renderer) bindBuilding(obj *scene.Object) {
	r.layer.Bind(obj, picking.Handlers{
		Hover: func(e picking.Event) {
			if r.controlMoving {
				return
			}
			ev := pointerEvent(e)
			r.features.emit("OnHoverBuilding", func(f Feature) { f.OnHoverBuilding(ev) })
		},
		Exit: func(e picking.Event) {
			if r.controlMoving {
				return
			}
			ev := pointerEvent(e)
			r.features.emit("OnExitBuilding", func(f Feature) { f.OnExitBuilding(ev) })
		},
		Move: func(e picking.Event) {
			if r.controlMoving {
				return
			}
			ev := pointerEvent(e)
			r.features.emit("OnMoveBuilding", func(f Feature) { f.OnMoveBuilding(ev) })
		},
		Down: func(e picking.Event) {
			r.press = press{obj: e.Object, x: e.X, y: e.Y}
		},
		Up: func(e picking.Event) {
			p := r.press
			if p.obj != e.Object {
				return
			}
			dx, dy := e.X-p.x, e.Y-p.y
			if dx*dx+dy*dy > ClickThreshold*ClickThreshold {
				return
			}
			r.click(pointerEvent(e))
		},
	})
}

func (r *Renderer) click(ev PointerEvent) {
	r.FocusBuilding(r.ctx, ev.Object)
	r.features.emit("OnClickBuilding", func(f Feature) { f.OnClickBuilding(ev) })
}

func (r *Renderer) handleControlStart() {
	r.controlMoving = true
	r.layer.ResetHover()
	r.features.emit("OnControlStart", func(f Feature) { f.OnControlStart() })
}

func (r *Renderer) handleControlEnd() {
	r.controlMoving = false
	r.layer.ResetHover()
	r.features.emit("OnControlEnd", func(f Feature) { f.OnControlEnd() })
}

func pointerEvent(e picking.Event) PointerEvent {
	return PointerEvent{Object: e.Object, Point: e.Point, X: e.X, Y: e.Y}
}

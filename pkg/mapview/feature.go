package mapview

import (
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
)

// PointerEvent is a pointer interaction with a building.
type PointerEvent struct {
	Object *scene.Object
	Point  math.Vec3 // world-space hit point
	X, Y   float32   // pointer position in pixels
}

// Feature extends a renderer with behaviour. Every hook is called on the
// host loop goroutine, for every attached feature, in attachment order.
//
// A feature belongs to one live renderer at a time: Setup is called when the
// renderer is created and Cleanup when it is disposed.
type Feature interface {
	Setup(r *Renderer) error
	Cleanup(r *Renderer)

	OnHoverBuilding(e PointerEvent)
	OnClickBuilding(e PointerEvent)
	OnMoveBuilding(e PointerEvent)
	OnExitBuilding(e PointerEvent)

	OnControlStart()
	OnControlEnd()
	OnResize(size Size)
	OnToggleFullscreen(fullscreen bool)
	OnFocusBuilding(obj *scene.Object)
	OnTraverseSceneChild(obj *scene.Object)
}

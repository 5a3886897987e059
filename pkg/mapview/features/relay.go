package features

import (
	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/scene"
)

// Hook names a feature hook.
type Hook string

const (
	HookSetup              Hook = "setup"
	HookCleanup            Hook = "cleanup"
	HookHoverBuilding      Hook = "hover_building"
	HookClickBuilding      Hook = "click_building"
	HookMoveBuilding       Hook = "move_building"
	HookExitBuilding       Hook = "exit_building"
	HookControlStart       Hook = "control_start"
	HookControlEnd         Hook = "control_end"
	HookResize             Hook = "resize"
	HookToggleFullscreen   Hook = "toggle_fullscreen"
	HookFocusBuilding      Hook = "focus_building"
	HookTraverseSceneChild Hook = "traverse_scene_child"
)

// RelayFunc receives a forwarded hook. The payload type depends on the hook:
// *mapview.Renderer for setup and cleanup, mapview.PointerEvent for pointer
// hooks, mapview.Size for resize, bool for fullscreen, *scene.Object for
// focus and traversal, nil for control start and end.
type RelayFunc func(payload any)

// Relay forwards hooks to external callbacks keyed by hook name. A hook may
// have several callbacks; they run in the order they were added.
type Relay struct {
	handlers map[Hook][]RelayFunc
}

// NewRelay creates a relay seeded with one handler per hook. Hooks without a
// handler are ignored.
func NewRelay(handlers map[Hook]RelayFunc) *Relay {
	r := &Relay{handlers: make(map[Hook][]RelayFunc, len(handlers))}
	for h, fn := range handlers {
		r.On(h, fn)
	}
	return r
}

// On adds a handler for hook.
func (r *Relay) On(hook Hook, fn RelayFunc) *Relay {
	if fn != nil {
		r.handlers[hook] = append(r.handlers[hook], fn)
	}
	return r
}

func (r *Relay) forward(hook Hook, payload any) {
	for _, fn := range r.handlers[hook] {
		fn(payload)
	}
}

func (r *Relay) Setup(m *mapview.Renderer) error {
	r.forward(HookSetup, m)
	return nil
}

func (r *Relay) Cleanup(m *mapview.Renderer)            { r.forward(HookCleanup, m) }
func (r *Relay) OnHoverBuilding(e mapview.PointerEvent) { r.forward(HookHoverBuilding, e) }
func (r *Relay) OnClickBuilding(e mapview.PointerEvent) { r.forward(HookClickBuilding, e) }
func (r *Relay) OnMoveBuilding(e mapview.PointerEvent)  { r.forward(HookMoveBuilding, e) }
func (r *Relay) OnExitBuilding(e mapview.PointerEvent)  { r.forward(HookExitBuilding, e) }
func (r *Relay) OnControlStart()                        { r.forward(HookControlStart, nil) }
func (r *Relay) OnControlEnd()                          { r.forward(HookControlEnd, nil) }
func (r *Relay) OnResize(s mapview.Size)                { r.forward(HookResize, s) }
func (r *Relay) OnToggleFullscreen(fs bool)             { r.forward(HookToggleFullscreen, fs) }
func (r *Relay) OnFocusBuilding(obj *scene.Object)      { r.forward(HookFocusBuilding, obj) }
func (r *Relay) OnTraverseSceneChild(obj *scene.Object) { r.forward(HookTraverseSceneChild, obj) }

package features

import (
	"strings"
	"time"

	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/scene"
)

// DefaultTooltipDelay is how long the pointer must rest on a building before
// its tooltip shows.
const DefaultTooltipDelay = 400 * time.Millisecond

// Tooltip reports a debounced tooltip for the hovered building.
type Tooltip struct {
	Delay  time.Duration
	Text   func(obj *scene.Object) string // defaults to DisplayName
	OnShow func(text string, x, y float32)
	OnHide func()

	stopFrames func()
	pending    *mapview.PointerEvent
	waited     time.Duration
	shown      bool
}

// NewTooltip creates a tooltip with the default delay.
func NewTooltip(onShow func(text string, x, y float32), onHide func()) *Tooltip {
	return &Tooltip{Delay: DefaultTooltipDelay, OnShow: onShow, OnHide: onHide}
}

func (t *Tooltip) Setup(r *mapview.Renderer) error {
	t.stopFrames = r.Surface().OnFrame(t.tick)
	return nil
}

func (t *Tooltip) Cleanup(*mapview.Renderer) {
	if t.stopFrames != nil {
		t.stopFrames()
		t.stopFrames = nil
	}
	t.hide()
}

func (t *Tooltip) OnHoverBuilding(e mapview.PointerEvent) {
	t.hide()
	t.pending = &e
	t.waited = 0
}

func (t *Tooltip) OnMoveBuilding(e mapview.PointerEvent) {
	if t.pending == nil {
		return
	}
	t.pending.X, t.pending.Y = e.X, e.Y
	if t.shown {
		t.show()
	}
}

func (t *Tooltip) OnExitBuilding(mapview.PointerEvent)  { t.hide() }
func (t *Tooltip) OnClickBuilding(mapview.PointerEvent) {}
func (t *Tooltip) OnControlStart()                      { t.hide() }
func (t *Tooltip) OnControlEnd()                        {}
func (t *Tooltip) OnResize(mapview.Size)                { t.hide() }
func (t *Tooltip) OnToggleFullscreen(bool)              { t.hide() }
func (t *Tooltip) OnFocusBuilding(*scene.Object)        {}
func (t *Tooltip) OnTraverseSceneChild(*scene.Object)   {}

func (t *Tooltip) tick(dt time.Duration) {
	if t.pending == nil || t.shown {
		return
	}
	t.waited += dt
	if t.waited >= t.Delay {
		t.shown = true
		t.show()
	}
}

func (t *Tooltip) show() {
	if t.OnShow == nil {
		return
	}
	text := DisplayName(t.pending.Object)
	if t.Text != nil {
		text = t.Text(t.pending.Object)
	}
	t.OnShow(text, t.pending.X, t.pending.Y)
}

// DisplayName turns an exported object name into label text: "Library_Main"
// reads "Library Main".
func DisplayName(obj *scene.Object) string {
	return strings.ReplaceAll(obj.Name, "_", " ")
}

// hide drops any pending tooltip and hides a visible one.
func (t *Tooltip) hide() {
	t.pending = nil
	if t.shown {
		t.shown = false
		if t.OnHide != nil {
			t.OnHide()
		}
	}
}

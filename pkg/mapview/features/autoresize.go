package features

import (
	"math"

	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/scene"
)

// DefaultAspectRatio is the width-to-height ratio AutoResize keeps by default.
const DefaultAspectRatio = 16.0 / 9.0

// AutoResize fits the canvas to the host surface once at setup and again on
// every surface resize. It does nothing when the canvas has a fixed size.
type AutoResize struct {
	// Width returns the canvas width to fit. Nil means the surface width.
	Width func(r *mapview.Renderer) int
	// AspectRatio derives the height from the width. A non-positive ratio
	// keeps the surface height instead.
	AspectRatio float64

	stop func()
}

// NewAutoResize creates an auto-resize feature that follows the surface width
// at a 16:9 aspect ratio.
func NewAutoResize() *AutoResize {
	return &AutoResize{Width: SurfaceWidth, AspectRatio: DefaultAspectRatio}
}

// SurfaceWidth returns the width of the renderer's host surface.
func SurfaceWidth(r *mapview.Renderer) int { return r.Surface().Size().Width }

func (a *AutoResize) Setup(r *mapview.Renderer) error {
	if r.Settings().Canvas.FixedSize {
		return nil
	}
	a.stop = r.Surface().OnResize(func(mapview.Size) { a.resize(r) })
	a.resize(r)
	return nil
}

func (a *AutoResize) Cleanup(*mapview.Renderer) {
	if a.stop != nil {
		a.stop()
		a.stop = nil
	}
}

func (a *AutoResize) resize(r *mapview.Renderer) {
	r.Resize(a.size(r))
}

func (a *AutoResize) size(r *mapview.Renderer) mapview.Size {
	width := SurfaceWidth
	if a.Width != nil {
		width = a.Width
	}
	w := width(r)
	if a.AspectRatio <= 0 {
		return mapview.Size{Width: w, Height: r.Surface().Size().Height}
	}
	return mapview.Size{Width: w, Height: int(math.Round(float64(w) / a.AspectRatio))}
}

func (a *AutoResize) OnHoverBuilding(mapview.PointerEvent) {}
func (a *AutoResize) OnClickBuilding(mapview.PointerEvent) {}
func (a *AutoResize) OnMoveBuilding(mapview.PointerEvent)  {}
func (a *AutoResize) OnExitBuilding(mapview.PointerEvent)  {}
func (a *AutoResize) OnControlStart()                      {}
func (a *AutoResize) OnControlEnd()                        {}
func (a *AutoResize) OnResize(mapview.Size)                {}
func (a *AutoResize) OnToggleFullscreen(bool)              {}
func (a *AutoResize) OnFocusBuilding(*scene.Object)        {}
func (a *AutoResize) OnTraverseSceneChild(*scene.Object)   {}

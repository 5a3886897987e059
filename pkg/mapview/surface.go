package mapview

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/citymap/pkg/camera"
	"github.com/Faultbox/citymap/pkg/scene"
)

// Surface is the host the renderer mounts into: a window, a test fake, or
// anything else that can run a frame loop and deliver pointer input.
//
// All callbacks are invoked on the host loop goroutine. Post is the only
// method that may be called from other goroutines.
type Surface interface {
	// Reset clears any content left by a previous renderer.
	Reset()
	Size() Size
	NewBackend(opts BackendOptions) (Backend, error)
	// FullscreenMethods lists fullscreen methods in preference order.
	FullscreenMethods() []FullscreenMethod

	OnFrame(fn func(dt time.Duration)) (cancel func())
	Post(fn func())
	OnPointer(fn func(PointerInput)) (cancel func())
	OnResize(fn func(Size)) (cancel func())
}

// BackendOptions configures a rendering backend.
type BackendOptions struct {
	Size            Size
	Antialias       bool // native multisampling
	Shadows         bool
	PowerPreference PowerPreference
	Tracker         *Tracker // every GPU handle is registered here
	Logger          *zap.Logger
}

// Backend draws frames.
type Backend interface {
	SetSize(Size)
	Render(f *Frame) error
}

// PointerKind identifies a pointer event.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerDown
	PointerUp
	PointerWheel
)

// PointerInput is a raw pointer event from the host.
type PointerInput struct {
	Kind   PointerKind
	X, Y   float32
	Button int
	Wheel  float32
}

// Frame is everything a backend needs to draw one image.
type Frame struct {
	Scene    *scene.Scene
	Camera   *camera.Camera
	Colors   Colors
	Lights   LightRig
	Composer *Composer // nil without postprocessing
}

package camera

import (
	gomath "math"

	"github.com/Faultbox/citymap/pkg/math"
)

// DragSlop is how far (in pixels) the pointer must travel with a button held
// before the controls consider it a drag.
const DragSlop = 3

// OrbitControls orbits a camera around a target point.
type OrbitControls struct {
	Camera  *Camera
	Target  math.Vec3
	Enabled bool

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	pressed        bool
	dragging       bool
	downX, downY   float32
	lastX, lastY   float32
	onStart, onEnd []func()
	onChange       []func()
}

// NewOrbitControls creates controls around the camera's current pose.
func NewOrbitControls(cam *Camera, scale float32) *OrbitControls {
	return &OrbitControls{
		Camera:          cam,
		Enabled:         true,
		MinDistance:     5 * scale,
		MaxDistance:     500 * scale,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// OnStart registers a callback fired when a drag begins.
func (o *OrbitControls) OnStart(fn func()) { o.onStart = append(o.onStart, fn) }

// OnEnd registers a callback fired when a drag ends.
func (o *OrbitControls) OnEnd(fn func()) { o.onEnd = append(o.onEnd, fn) }

// OnChange registers a callback fired whenever the camera pose changes.
func (o *OrbitControls) OnChange(fn func()) { o.onChange = append(o.onChange, fn) }

// Dragging reports whether a drag is in progress.
func (o *OrbitControls) Dragging() bool { return o.dragging }

// PointerDown starts tracking a potential drag.
func (o *OrbitControls) PointerDown(x, y float32) {
	if !o.Enabled {
		return
	}
	o.pressed = true
	o.downX, o.downY = x, y
	o.lastX, o.lastY = x, y
}

// PointerMove rotates the camera once the pointer has moved past DragSlop.
func (o *OrbitControls) PointerMove(x, y float32) {
	if !o.Enabled || !o.pressed {
		return
	}
	if !o.dragging {
		dx, dy := x-o.downX, y-o.downY
		if dx*dx+dy*dy < DragSlop*DragSlop {
			return
		}
		o.dragging = true
		fire(o.onStart)
	}
	o.rotate(x-o.lastX, y-o.lastY)
	o.lastX, o.lastY = x, y
}

// PointerUp finishes a drag.
func (o *OrbitControls) PointerUp() {
	o.pressed = false
	if o.dragging {
		o.dragging = false
		fire(o.onEnd)
	}
}

// Wheel zooms towards or away from the target.
func (o *OrbitControls) Wheel(delta float32) {
	if !o.Enabled {
		return
	}
	yaw, pitch, dist := o.spherical()
	dist -= delta * dist * o.ZoomSensitivity
	o.apply(yaw, pitch, dist)
}

// Update re-aims the camera at the target. It does nothing while disabled so
// that animations own the camera.
func (o *OrbitControls) Update() {
	if !o.Enabled {
		return
	}
	o.Camera.LookAt(o.Target)
}

func (o *OrbitControls) rotate(dx, dy float32) {
	yaw, pitch, dist := o.spherical()
	yaw -= dx * o.DragSensitivity
	pitch += dy * o.DragSensitivity
	o.apply(yaw, pitch, dist)
}

// spherical returns the camera offset from the target as yaw, pitch and distance.
func (o *OrbitControls) spherical() (yaw, pitch, dist float32) {
	off := o.Camera.Position.Sub(o.Target)
	dist = off.Length()
	if dist == 0 {
		return 0, o.MinPitch, o.MinDistance
	}
	pitch = float32(gomath.Asin(float64(off.Y / dist)))
	yaw = float32(gomath.Atan2(float64(off.X), float64(off.Z)))
	return yaw, pitch, dist
}

func (o *OrbitControls) apply(yaw, pitch, dist float32) {
	pitch = clamp(pitch, o.MinPitch, o.MaxPitch)
	dist = clamp(dist, o.MinDistance, o.MaxDistance)

	x := dist * float32(gomath.Cos(float64(pitch))*gomath.Sin(float64(yaw)))
	y := dist * float32(gomath.Sin(float64(pitch)))
	z := dist * float32(gomath.Cos(float64(pitch))*gomath.Cos(float64(yaw)))

	o.Camera.Position = o.Target.Add(math.Vec3{X: x, Y: y, Z: z})
	o.Camera.LookAt(o.Target)
	fire(o.onChange)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func fire(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

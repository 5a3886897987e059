package mapview

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/citymap/pkg/fuzzy"
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
	"github.com/Faultbox/citymap/pkg/tween"
)

// poseTolerance is how close the camera must be to the focus pose for a
// repeated focus request to be a no-op.
const poseTolerance = 1e-3

func resolved(ok bool) <-chan bool {
	ch := make(chan bool, 1)
	ch <- ok
	return ch
}

// FocusBuildingByName focuses the building whose name best matches name.
// Blank names are rejected without matching.
func (r *Renderer) FocusBuildingByName(ctx context.Context, name string) <-chan bool {
	if strings.TrimSpace(name) == "" || r.disposed {
		return resolved(false)
	}

	var buildings []*scene.Object
	for _, b := range r.scene.Buildings() {
		if b.Material != nil {
			buildings = append(buildings, b)
		}
	}
	if len(buildings) == 0 {
		r.log.Warn("focus by name", zap.String("query", name), zap.Error(ErrNoBuildings))
		return resolved(false)
	}

	obj, ok := fuzzy.Resolve(buildings, func(o *scene.Object) string { return o.Name }, name)
	if !ok {
		return resolved(false)
	}
	r.log.Debug("focus by name", zap.String("query", name), zap.String("match", obj.Name))
	return r.FocusBuilding(ctx, obj)
}

// FocusBuilding moves the camera to look at obj. The returned channel
// receives true once the camera is in place, or false when the request is
// rejected (another focus is in flight, the renderer is disposed) or
// cancelled through ctx.
func (r *Renderer) FocusBuilding(ctx context.Context, obj *scene.Object) <-chan bool {
	if r.disposed || obj == nil || r.animating {
		return resolved(false)
	}

	target := obj.Center()
	dest := r.focusPosition(target)
	if r.selected == obj &&
		r.camera.Position.ApproxEqual(dest, poseTolerance) &&
		r.controls.Target.ApproxEqual(target, poseTolerance) {
		return resolved(true)
	}
	destRot := r.camera.RotationFor(dest, target)

	r.selected = obj
	r.features.emit("OnFocusBuilding", func(f Feature) { f.OnFocusBuilding(obj) })

	if !r.settings.Camera.SmoothTransition {
		r.camera.Position = dest
		r.camera.Quaternion = destRot
		r.controls.Target = target
		r.Render()
		return resolved(true)
	}
	return r.animateTo(ctx, dest, destRot, target)
}

// focusPosition keeps the camera on the side of the target it already
// views from.
func (r *Renderer) focusPosition(target math.Vec3) math.Vec3 {
	s := r.settings
	scale := s.Canvas.GlobalScale
	lateral := s.Camera.LateralOffset * scale
	return math.Vec3{
		X: target.X + math.Sign(r.camera.Position.X-target.X)*lateral,
		Y: target.Y + s.Camera.VerticalOffset*scale,
		Z: target.Z + math.Sign(r.camera.Position.Z-target.Z)*lateral,
	}
}

// animateTo runs the position and rotation tweens together and resolves when
// both have finished.
func (r *Renderer) animateTo(ctx context.Context, dest math.Vec3, destRot math.Quat, target math.Vec3) <-chan bool {
	out := make(chan bool, 1)

	tctx, cancel := context.WithCancel(r.ctx)
	stop := context.AfterFunc(ctx, cancel)

	r.animating = true
	r.controls.Enabled = false

	startPos, startRot := r.camera.Position, r.camera.Quaternion
	pending, ok := 2, true
	done := func(err error) {
		if err != nil {
			ok = false
		}
		if pending--; pending > 0 {
			return
		}
		stop()
		cancel()
		r.animating = false
		r.controls.Enabled = true
		if ok {
			r.controls.Target = target
		} else {
			r.log.Debug("focus cancelled")
		}
		out <- ok
	}

	d := r.settings.Camera.Duration
	r.tweens.Start(tctx, tween.Spec{
		Duration: d,
		Easing:   tween.ExponentialOut,
		OnUpdate: func(k float64) {
			r.camera.Position = startPos.Lerp(dest, float32(k))
		},
		OnComplete: done,
	})
	r.tweens.Start(tctx, tween.Spec{
		Duration: d,
		Easing:   tween.Linear,
		OnUpdate: func(k float64) {
			r.camera.Quaternion = startRot.Slerp(destRot, float32(k))
		},
		OnComplete: done,
	})
	return out
}

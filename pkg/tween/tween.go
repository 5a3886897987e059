// Package tween runs frame-driven animations.
//
// A Runner owns a set of active tweens and advances them by the frame delta
// passed to Update. It is not safe for concurrent use: call it from the
// render loop only.
package tween

import (
	"context"
	"errors"
	gomath "math"
	"time"
)

// ErrStopped is reported to OnComplete when a tween is stopped before finishing.
var ErrStopped = errors.New("tween: stopped")

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// ExponentialOut decelerates towards the end.
func ExponentialOut(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - gomath.Pow(2, -10*t)
}

// Spec describes a single tween.
type Spec struct {
	Duration time.Duration
	Easing   Easing

	// OnUpdate receives eased progress in [0,1]. It is called with 1 exactly
	// once before OnComplete(nil).
	OnUpdate func(k float64)

	// OnComplete is called once with nil on completion, or with the context
	// error or ErrStopped otherwise.
	OnComplete func(err error)
}

// Handle controls a running tween.
type Handle struct {
	spec    Spec
	ctx     context.Context
	elapsed time.Duration
	done    bool
}

// Stop aborts the tween and reports ErrStopped to OnComplete.
func (h *Handle) Stop() {
	if h.done {
		return
	}
	h.finish(ErrStopped)
}

// Done reports whether the tween has finished.
func (h *Handle) Done() bool { return h.done }

func (h *Handle) finish(err error) {
	h.done = true
	if h.spec.OnComplete != nil {
		h.spec.OnComplete(err)
	}
}

// Runner advances tweens.
type Runner struct {
	active []*Handle
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Start registers a tween. A zero duration completes on the next Update.
func (r *Runner) Start(ctx context.Context, spec Spec) *Handle {
	if spec.Easing == nil {
		spec.Easing = Linear
	}
	h := &Handle{spec: spec, ctx: ctx}
	r.active = append(r.active, h)
	return h
}

// Update advances every active tween by dt.
func (r *Runner) Update(dt time.Duration) {
	// Callbacks may start new tweens; those are picked up on the next frame.
	current := r.active
	r.active = nil

	for _, h := range current {
		if h.done {
			continue
		}
		if err := h.ctx.Err(); err != nil {
			h.finish(err)
			continue
		}

		h.elapsed += dt
		t := 1.0
		if h.spec.Duration > 0 && h.elapsed < h.spec.Duration {
			t = float64(h.elapsed) / float64(h.spec.Duration)
		}

		if h.spec.OnUpdate != nil {
			k := h.spec.Easing(t)
			if t >= 1 {
				k = 1
			}
			h.spec.OnUpdate(k)
		}
		if t >= 1 {
			h.finish(nil)
			continue
		}
		r.active = append(r.active, h)
	}
}

// Len returns the number of tweens still running.
func (r *Runner) Len() int {
	n := 0
	for _, h := range r.active {
		if !h.done {
			n++
		}
	}
	return n
}

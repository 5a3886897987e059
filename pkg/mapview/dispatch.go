package mapview

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// owners maps live features to the renderer they are set up on.
var owners sync.Map

func claim(f Feature, r *Renderer) error {
	if !reflect.TypeOf(f).Comparable() {
		return nil
	}
	if prev, loaded := owners.LoadOrStore(f, r); loaded && prev != r {
		return fmt.Errorf("%w: %T", ErrFeatureInUse, f)
	}
	return nil
}

func unclaim(f Feature, r *Renderer) {
	if !reflect.TypeOf(f).Comparable() {
		return
	}
	owners.CompareAndDelete(f, r)
}

// dispatcher fans hooks out to features in attachment order. A panicking
// hook is logged and the remaining features still run.
type dispatcher struct {
	features []Feature
	ready    []Feature // set up successfully, in order
	log      *zap.Logger
}

func (d *dispatcher) emit(hook string, fn func(Feature)) {
	for i, f := range d.ready {
		d.call(hook, i, f, fn)
	}
}

func (d *dispatcher) call(hook string, idx int, f Feature, fn func(Feature)) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("feature hook panicked",
				zap.String("hook", hook),
				zap.Int("feature", idx),
				zap.String("type", fmt.Sprintf("%T", f)),
				zap.Any("panic", p))
		}
	}()
	fn(f)
}

// setup runs Setup on every feature and stops at the first failure.
func (d *dispatcher) setup(r *Renderer) error {
	for i, f := range d.features {
		if err := claim(f, r); err != nil {
			return err
		}
		if err := safeSetup(f, r); err != nil {
			unclaim(f, r)
			return fmt.Errorf("setup feature %d (%T): %w", i, f, err)
		}
		d.ready = append(d.ready, f)
	}
	return nil
}

func safeSetup(f Feature, r *Renderer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return f.Setup(r)
}

// cleanup runs Cleanup on every set-up feature and releases them.
func (d *dispatcher) cleanup(r *Renderer) {
	d.emit("Cleanup", func(f Feature) { f.Cleanup(r) })
	for _, f := range d.ready {
		unclaim(f, r)
	}
	d.ready = nil
}

package picking

import (
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
)

// Event describes a pointer interaction with a bound object.
type Event struct {
	Object *scene.Object
	Point  math.Vec3 // world-space hit point
	X, Y   float32   // pointer position in pixels
}

// Handlers receives pointer events for one object. Nil handlers are skipped.
type Handlers struct {
	Hover func(Event)
	Exit  func(Event)
	Move  func(Event)
	Down  func(Event)
	Up    func(Event)
}

type binding struct {
	obj      *scene.Object
	handlers Handlers
}

// Layer hit-tests pointer rays against bound objects and turns raw pointer
// input into hover, exit, move, down and up events for the nearest hit.
type Layer struct {
	bindings []*binding
	hovered  *binding
}

// NewLayer creates an empty layer.
func NewLayer() *Layer {
	return &Layer{}
}

// Bind registers handlers for obj. Binding the same object again replaces its handlers.
func (l *Layer) Bind(obj *scene.Object, h Handlers) {
	for _, b := range l.bindings {
		if b.obj == obj {
			b.handlers = h
			return
		}
	}
	l.bindings = append(l.bindings, &binding{obj: obj, handlers: h})
}

// Clear removes every binding.
func (l *Layer) Clear() {
	l.bindings = nil
	l.hovered = nil
}

// ResetHover forgets the hovered object without emitting Exit, so the next
// Move over it emits Hover again.
func (l *Layer) ResetHover() {
	l.hovered = nil
}

// Len returns the number of bound objects.
func (l *Layer) Len() int { return len(l.bindings) }

// Move processes pointer movement. It emits Exit for the previously hovered
// object, Hover for a newly entered one and Move while staying over one.
func (l *Layer) Move(ray Ray, x, y float32) {
	hit, ev := l.pick(ray, x, y)

	if l.hovered != nil && (hit == nil || hit.obj != l.hovered.obj) {
		prev := l.hovered
		l.hovered = nil
		call(prev.handlers.Exit, Event{Object: prev.obj, X: x, Y: y})
	}
	if hit == nil {
		return
	}
	if l.hovered == nil {
		l.hovered = hit
		call(hit.handlers.Hover, ev)
		return
	}
	call(hit.handlers.Move, ev)
}

// Down processes a button press.
func (l *Layer) Down(ray Ray, x, y float32) {
	if hit, ev := l.pick(ray, x, y); hit != nil {
		call(hit.handlers.Down, ev)
	}
}

// Up processes a button release.
func (l *Layer) Up(ray Ray, x, y float32) {
	if hit, ev := l.pick(ray, x, y); hit != nil {
		call(hit.handlers.Up, ev)
	}
}

// pick returns the nearest visible bound object hit by ray.
func (l *Layer) pick(ray Ray, x, y float32) (*binding, Event) {
	var (
		best  *binding
		bestT float32
	)
	for _, b := range l.bindings {
		if !b.obj.Visible {
			continue
		}
		t, ok := ray.IntersectAABB(b.obj.Bounds)
		if !ok {
			continue
		}
		if best == nil || t < bestT {
			best, bestT = b, t
		}
	}
	if best == nil {
		return nil, Event{}
	}
	return best, Event{Object: best.obj, Point: ray.At(bestT), X: x, Y: y}
}

func call(fn func(Event), ev Event) {
	if fn != nil {
		fn(ev)
	}
}

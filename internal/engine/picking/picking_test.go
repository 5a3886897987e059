package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
)

func box(name string, x float32) *scene.Object {
	o := scene.NewObject(name)
	o.Bounds = scene.NewAABB(math.Vec3{X: x - 1, Y: 0, Z: -1}, math.Vec3{X: x + 1, Y: 2, Z: 1})
	return o
}

// downRay points straight down at the given X.
func downRay(x float32) Ray {
	return Ray{Origin: math.Vec3{X: x, Y: 10}, Direction: math.Vec3{Y: -1}}
}

func TestIntersectAABB(t *testing.T) {
	b := scene.NewAABB(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})

	tests := []struct {
		name string
		ray  Ray
		hit  bool
		t    float32
	}{
		{"front", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: -1}}, true, 4},
		{"miss", Ray{Origin: math.Vec3{X: 3, Z: 5}, Direction: math.Vec3{Z: -1}}, false, 0},
		{"behind", Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}, false, 0},
		{"inside", Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(b)
			assert.Equal(t, tt.hit, hit)
			if tt.hit {
				assert.InDelta(t, tt.t, got, 1e-5)
			}
		})
	}

	_, hit := Ray{Direction: math.Vec3{Z: -1}}.IntersectAABB(scene.AABB{})
	assert.False(t, hit, "empty box is never hit")
}

func TestScreenToRayCenter(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 10}, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(1, 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(50, 50, 100, 100, inv)
	assert.InDelta(t, 0, r.Direction.X, 1e-3)
	assert.InDelta(t, 0, r.Direction.Y, 1e-3)
	assert.InDelta(t, -1, r.Direction.Z, 1e-3)
}

func TestLayerHoverSequence(t *testing.T) {
	a, b := box("a", 0), box("b", 10)
	var events []string
	record := func(kind string) func(Event) {
		return func(e Event) { events = append(events, kind+":"+e.Object.Name) }
	}
	l := NewLayer()
	for _, o := range []*scene.Object{a, b} {
		l.Bind(o, Handlers{Hover: record("hover"), Exit: record("exit"), Move: record("move")})
	}
	require.Equal(t, 2, l.Len())

	l.Move(downRay(0), 0, 0)
	l.Move(downRay(0.5), 0, 0)
	l.Move(downRay(10), 0, 0)
	l.Move(downRay(5), 0, 0)

	assert.Equal(t, []string{"hover:a", "move:a", "exit:a", "hover:b", "exit:b"}, events)
}

func TestLayerNearestHit(t *testing.T) {
	low := box("low", 0)
	tall := scene.NewObject("tall")
	tall.Bounds = scene.NewAABB(math.Vec3{X: -1, Z: -1}, math.Vec3{X: 1, Y: 5, Z: 1})

	var got string
	l := NewLayer()
	l.Bind(low, Handlers{Down: func(e Event) { got = e.Object.Name }})
	l.Bind(tall, Handlers{Down: func(e Event) { got = e.Object.Name }})

	l.Down(downRay(0), 0, 0)
	assert.Equal(t, "tall", got)

	tall.Visible = false
	l.Down(downRay(0), 0, 0)
	assert.Equal(t, "low", got)
}

func TestLayerClear(t *testing.T) {
	l := NewLayer()
	called := false
	l.Bind(box("a", 0), Handlers{Up: func(Event) { called = true }})
	l.Clear()
	l.Up(downRay(0), 0, 0)
	assert.False(t, called)
	assert.Zero(t, l.Len())
}

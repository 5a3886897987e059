package camera

import (
	"testing"

	"github.com/Faultbox/citymap/pkg/math"
)

func newTestCamera() *Camera {
	cam := New(Degrees(45), 4.0/3.0, 0.1, 1000)
	cam.Position = math.Vec3{X: 0, Y: 50, Z: 100}
	cam.LookAt(math.Vec3{})
	return cam
}

func TestRotationForLeavesCameraUntouched(t *testing.T) {
	cam := newTestCamera()
	pos, rot := cam.Position, cam.Quaternion

	q := cam.RotationFor(math.Vec3{X: 40, Y: 30, Z: 40}, math.Vec3{X: 10, Z: 10})

	if cam.Position != pos || cam.Quaternion != rot {
		t.Error("RotationFor must restore the camera pose")
	}
	if q.ApproxEqual(rot, 1e-4) {
		t.Error("expected a different orientation for the new pose")
	}
}

func TestViewMatrixMatchesLookAt(t *testing.T) {
	cam := newTestCamera()
	want := math.LookAt(cam.Position, math.Vec3{}, Up)
	got := cam.ViewMatrix()
	for i := range got {
		if d := got[i] - want[i]; d > 1e-2 || d < -1e-2 {
			t.Fatalf("view[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestOrbitDragEvents(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, 1)

	var starts, ends, changes int
	o.OnStart(func() { starts++ })
	o.OnEnd(func() { ends++ })
	o.OnChange(func() { changes++ })

	o.PointerDown(100, 100)
	o.PointerMove(101, 101) // inside the slop
	if o.Dragging() || starts != 0 {
		t.Fatal("small movement must not start a drag")
	}

	before := cam.Position
	o.PointerMove(140, 100)
	if !o.Dragging() || starts != 1 {
		t.Fatal("expected drag to start")
	}
	if cam.Position == before || changes == 0 {
		t.Error("drag should move the camera")
	}

	o.PointerUp()
	if o.Dragging() || ends != 1 {
		t.Errorf("expected one end event, got %d", ends)
	}

	// A click without movement fires neither.
	o.PointerDown(10, 10)
	o.PointerUp()
	if starts != 1 || ends != 1 {
		t.Errorf("click fired drag events: starts=%d ends=%d", starts, ends)
	}
}

func TestOrbitDisabledIgnoresInput(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, 1)
	o.Enabled = false

	before := cam.Position
	o.PointerDown(0, 0)
	o.PointerMove(100, 100)
	o.Wheel(1)
	o.PointerUp()
	if cam.Position != before {
		t.Error("disabled controls must not move the camera")
	}
}

func TestOrbitZoomClamps(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, 1)
	for i := 0; i < 100; i++ {
		o.Wheel(1)
	}
	if d := cam.Position.Distance(o.Target); d < o.MinDistance-1e-3 {
		t.Errorf("distance %f below minimum %f", d, o.MinDistance)
	}
}

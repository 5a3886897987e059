package mapview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
	"github.com/Faultbox/citymap/pkg/tween"
)

func receive(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("focus result not delivered")
		return false
	}
}

func pending(ch <-chan bool) bool {
	select {
	case <-ch:
		return false
	default:
		return true
	}
}

func TestRendererLoadsScene(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"))
	r := h.r

	require.NoError(t, r.LoadErr())
	assert.Equal(t, 1, h.surface.resets)
	assert.Equal(t, 3, r.layer.Len(), "every building is interactive")
	assert.Len(t, j.filter("OnTraverseSceneChild"), 5)
	assert.NotNil(t, h.find("Lamp"), "lights stay during the day")

	ground := h.find("Plane")
	require.NotNil(t, ground)
	assert.Equal(t, scene.KindGround, ground.Kind)
	assert.False(t, ground.CastShadow)
	assert.True(t, ground.ReceiveShadow)

	assert.Greater(t, h.surface.backend.renders, 1)
	assert.Same(t, r.Scene(), h.surface.backend.last.Scene)
	assert.NotEmpty(t, r.ID())
}

func TestNightRemovesPointLights(t *testing.T) {
	h := newHarness(t, loadOK, nil, withTimeOfDay(Night))

	assert.Nil(t, h.find("Lamp"))
	assert.Equal(t, Night, h.r.TimeOfDay())
	assert.Equal(t, NightShadowMapSize, h.r.Lights().Sun.ShadowMapSize)
}

func TestNoInteractionsSkipsBindings(t *testing.T) {
	h := newHarness(t, loadOK, nil, withNoInteractions())
	assert.Zero(t, h.r.layer.Len())
	assert.Len(t, h.r.Scene().Buildings(), 3)
}

func TestLoadFailureLeavesRendererUsable(t *testing.T) {
	boom := errors.New("no such file")
	h := newHarness(t, func() (*scene.Scene, error) { return nil, boom }, nil)

	assert.ErrorIs(t, h.r.LoadErr(), boom)
	assert.Empty(t, h.r.Scene().Buildings())

	before := h.surface.backend.renders
	h.r.Render()
	assert.Equal(t, before+1, h.surface.backend.renders)
	assert.False(t, receive(t, h.r.FocusBuildingByName(context.Background(), "library")))
}

func TestDisposeDuringLoadDiscardsScene(t *testing.T) {
	surface := newFakeSurface()
	release := make(chan struct{})
	installSeams(t, tween.NewRunner(), func() (*scene.Scene, error) {
		<-release
		return testScene(), nil
	})

	b, err := NewBuilder(BasicSettings{Quality: 5, Target: surface, SceneFile: "city.glb"}, nil)
	require.NoError(t, err)
	r, err := b.Register()
	require.NoError(t, err)

	require.NoError(t, b.Dispose())
	close(release)
	surface.drain(t)
	<-r.Loaded()

	assert.ErrorIs(t, r.LoadErr(), ErrDisposed)
	assert.Empty(t, r.Scene().Buildings())
}

func TestDispatchOrder(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1", "F2", "F3"))

	h.r.layer.Move(over(30), 10, 10)

	assert.Equal(t, []string{"F1.OnHoverBuilding", "F2.OnHoverBuilding", "F3.OnHoverBuilding"},
		j.filter("OnHoverBuilding"))
}

func TestDispatchIsolatesPanics(t *testing.T) {
	j := &journal{}
	features := recorders(j, "F1", "F2", "F3")
	features[1].(*recorder).panicOn = "OnHoverBuilding"
	h := newHarness(t, loadOK, features)

	assert.NotPanics(t, func() { h.r.layer.Move(over(30), 10, 10) })
	assert.Equal(t, []string{"F1.OnHoverBuilding", "F2.OnHoverBuilding", "F3.OnHoverBuilding"},
		j.filter("OnHoverBuilding"))
}

func TestHoverMoveExitDispatch(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"))

	h.r.layer.Move(over(30), 0, 0)
	h.r.layer.Move(over(31), 0, 0)
	h.r.layer.Move(over(15), 0, 0)

	assert.Len(t, j.filter("OnHoverBuilding"), 1)
	assert.Len(t, j.filter("OnMoveBuilding"), 1)
	assert.Len(t, j.filter("OnExitBuilding"), 1)
}

func TestControlDragSuppressesHover(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"))

	h.r.handlePointer(PointerInput{Kind: PointerDown, X: 100, Y: 100})
	h.r.handlePointer(PointerInput{Kind: PointerMove, X: 160, Y: 100})
	require.True(t, h.r.Controls().Dragging())
	assert.Len(t, j.filter("OnControlStart"), 1)

	h.r.layer.Move(over(30), 0, 0)
	h.r.layer.Move(over(31), 0, 0)
	h.r.layer.Move(over(15), 0, 0)
	assert.Empty(t, j.filter("OnHoverBuilding"))
	assert.Empty(t, j.filter("OnMoveBuilding"))
	assert.Empty(t, j.filter("OnExitBuilding"))

	h.r.handlePointer(PointerInput{Kind: PointerUp, X: 160, Y: 100})
	assert.Len(t, j.filter("OnControlEnd"), 1)

	h.r.layer.Move(over(30), 0, 0)
	assert.Len(t, j.filter("OnHoverBuilding"), 1)
}

func TestClickFocusesAndDispatches(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"), withSnap())
	lib := h.find("Library_Main")

	h.r.layer.Down(over(30), 100, 100)
	h.r.layer.Up(over(30), 105, 108)

	assert.Same(t, lib, h.r.Selected())
	assert.Equal(t, []string{"F1.OnClickBuilding"}, j.filter("OnClickBuilding"))
	assert.Less(t, indexOf(j.entries, "F1.OnFocusBuilding"), indexOf(j.entries, "F1.OnClickBuilding"))

	// Too far between press and release: not a click.
	h.r.layer.Down(over(0), 100, 100)
	h.r.layer.Up(over(0), 130, 100)
	assert.Len(t, j.filter("OnClickBuilding"), 1)
	assert.Same(t, lib, h.r.Selected())

	// Press on one building, release on another: not a click.
	h.r.layer.Down(over(0), 100, 100)
	h.r.layer.Up(over(-30), 100, 100)
	assert.Len(t, j.filter("OnClickBuilding"), 1)
}

func indexOf(entries []string, s string) int {
	for i, e := range entries {
		if e == s {
			return i
		}
	}
	return -1
}

func TestFocusMutualExclusion(t *testing.T) {
	h := newHarness(t, loadOK, nil)
	ctx := context.Background()
	a, b := h.find("Block_A"), h.find("Block_B")

	first := h.r.FocusBuilding(ctx, a)
	assert.True(t, h.r.Animating())
	assert.False(t, receive(t, h.r.FocusBuilding(ctx, b)), "second focus is rejected while animating")
	assert.True(t, pending(first))
	assert.False(t, h.r.Controls().Enabled)

	h.finish()
	assert.True(t, receive(t, first))
	assert.False(t, h.r.Animating())
	assert.True(t, h.r.Controls().Enabled)
	assert.Same(t, a, h.r.Selected())

	next := h.r.FocusBuilding(ctx, b)
	h.finish()
	assert.True(t, receive(t, next))
	assert.Same(t, b, h.r.Selected())
}

func TestFocusIdempotent(t *testing.T) {
	h := newHarness(t, loadOK, nil)
	ctx := context.Background()
	a := h.find("Block_A")

	ch := h.r.FocusBuilding(ctx, a)
	h.finish()
	require.True(t, receive(t, ch))
	starts := h.animator.starts
	assert.Equal(t, 2, starts, "position and rotation tweens")
	pos := h.r.Camera().Position

	assert.True(t, receive(t, h.r.FocusBuilding(ctx, a)))
	assert.Equal(t, starts, h.animator.starts, "no new tween")
	assert.False(t, h.r.Animating())
	assert.Equal(t, pos, h.r.Camera().Position)
}

func TestFocusSnap(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"), withSnap())
	lib := h.find("Library_Main")
	renders := h.surface.backend.renders

	assert.True(t, receive(t, h.r.FocusBuilding(context.Background(), lib)))
	assert.Zero(t, h.animator.starts)
	assert.False(t, h.r.Animating())

	// Camera starts at (0,150,200): it stays on the -x/+z side of the target.
	want := math.Vec3{X: 30 - 25, Y: 10 + 30, Z: 25}
	assert.True(t, h.r.Camera().Position.ApproxEqual(want, 1e-4), "got %+v", h.r.Camera().Position)
	assert.Equal(t, lib.Center(), h.r.Controls().Target)
	assert.Equal(t, renders+1, h.surface.backend.renders)
	assert.Len(t, j.filter("OnFocusBuilding"), 1)
}

func TestFocusBuildingByName(t *testing.T) {
	h := newHarness(t, loadOK, nil, withSnap())
	ctx := context.Background()

	assert.False(t, receive(t, h.r.FocusBuildingByName(ctx, "")))
	assert.False(t, receive(t, h.r.FocusBuildingByName(ctx, "   ")))
	assert.Nil(t, h.r.Selected())

	assert.True(t, receive(t, h.r.FocusBuildingByName(ctx, "libary")))
	require.NotNil(t, h.r.Selected())
	assert.Equal(t, "Library_Main", h.r.Selected().Name)
}

func TestFocusByNameWithoutBuildings(t *testing.T) {
	h := newHarness(t, func() (*scene.Scene, error) { return scene.New(), nil }, nil)
	assert.False(t, receive(t, h.r.FocusBuildingByName(context.Background(), "library")))
}

func TestFocusCancelledByContext(t *testing.T) {
	h := newHarness(t, loadOK, nil)
	ctx, cancel := context.WithCancel(context.Background())

	ch := h.r.FocusBuilding(ctx, h.find("Block_A"))
	cancel()

	// Zero-length frames never finish the tween, only the cancellation can.
	deadline := time.After(time.Second)
	for pending(ch) {
		select {
		case <-deadline:
			t.Fatal("focus did not observe cancellation")
		default:
			h.surface.step(0)
			time.Sleep(time.Millisecond)
		}
	}
	assert.False(t, h.r.Animating())
	assert.True(t, h.r.Controls().Enabled)
}

func TestDisposeResolvesPendingFocus(t *testing.T) {
	h := newHarness(t, loadOK, nil)
	ch := h.r.FocusBuilding(context.Background(), h.find("Block_A"))

	require.NoError(t, h.r.Dispose())
	assert.False(t, receive(t, ch))
	assert.False(t, receive(t, h.r.FocusBuilding(context.Background(), h.find("Block_B"))))
}

func TestDisposeIdempotent(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1", "F2"))

	assert.NotPanics(t, func() {
		assert.NoError(t, h.r.Dispose())
		assert.NoError(t, h.r.Dispose())
	})
	assert.Equal(t, 1, h.surface.backend.released)
	assert.Len(t, j.filter("Cleanup"), 2)
	assert.Empty(t, h.surface.frames)
	assert.Empty(t, h.surface.pointer)
	assert.Zero(t, h.r.layer.Len())

	renders := h.surface.backend.renders
	h.r.Render()
	h.r.Resize(Size{Width: 10, Height: 10})
	assert.Equal(t, renders, h.surface.backend.renders)
}

func TestResizeDispatches(t *testing.T) {
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"))

	h.r.Resize(Size{Width: 800, Height: 400})

	assert.Equal(t, Size{Width: 800, Height: 400}, h.r.Size())
	assert.Equal(t, Size{Width: 800, Height: 400}, h.surface.backend.size)
	assert.InDelta(t, 2.0, h.r.Camera().Aspect, 1e-6)
	assert.Len(t, j.filter("OnResize"), 1)
}

func TestToggleFullscreen(t *testing.T) {
	exclusive := newFakeMethod("exclusive", false)
	desktop := newFakeMethod("desktop", true)
	j := &journal{}
	h := newHarness(t, loadOK, recorders(j, "F1"), withMethods(exclusive, desktop))
	ctx := context.Background()
	initial := h.r.Size()

	require.NoError(t, h.r.ToggleFullscreen(ctx, nil))
	assert.True(t, h.r.Fullscreen())
	assert.Equal(t, 1, desktop.requests)
	assert.Zero(t, exclusive.requests)
	assert.Equal(t, h.surface.Size(), h.r.Size())

	require.NoError(t, h.r.ToggleFullscreen(ctx, nil))
	assert.False(t, h.r.Fullscreen())
	assert.Equal(t, 1, desktop.exits)
	assert.Equal(t, initial, h.r.Size())
	assert.Len(t, j.filter("OnToggleFullscreen"), 2)

	custom := Size{Width: 1000, Height: 500}
	require.NoError(t, h.r.ToggleFullscreen(ctx, &custom))
	assert.Equal(t, custom, h.r.Size())
}

func TestExternalFullscreenExitRestoresSize(t *testing.T) {
	desktop := newFakeMethod("desktop", true)
	h := newHarness(t, loadOK, nil, withMethods(desktop))
	initial := h.r.Size()

	require.NoError(t, h.r.ToggleFullscreen(context.Background(), nil))
	desktop.emit(false)

	assert.False(t, h.r.Fullscreen())
	assert.Equal(t, initial, h.r.Size())
	assert.Zero(t, desktop.exits, "host already left fullscreen")
}

func TestFullscreenDenied(t *testing.T) {
	denied := errors.New("permission denied")
	desktop := newFakeMethod("desktop", true)
	desktop.requestErr = denied
	h := newHarness(t, loadOK, nil, withMethods(desktop))
	initial := h.r.Size()

	assert.ErrorIs(t, h.r.ToggleFullscreen(context.Background(), nil), denied)
	assert.False(t, h.r.Fullscreen())
	assert.Equal(t, initial, h.r.Size())
}

func TestFullscreenUnsupported(t *testing.T) {
	h := newHarness(t, loadOK, nil)
	assert.ErrorIs(t, h.r.ToggleFullscreen(context.Background(), nil), ErrFullscreenUnsupported)
}

func TestPostprocessingComposer(t *testing.T) {
	h := newHarness(t, loadOK, nil, withQuality(8))

	c := h.r.Composer()
	require.NotNil(t, c)
	assert.True(t, c.Has(PassFXAA))
	assert.True(t, c.Has(PassOutline))
	assert.False(t, h.surface.backend.opts.Antialias, "native antialiasing is off with postprocessing")
	assert.Same(t, c, h.surface.backend.last.Composer)

	low := newHarness(t, loadOK, nil, withQuality(5))
	assert.Nil(t, low.r.Composer())
	assert.True(t, low.surface.backend.opts.Antialias)
}

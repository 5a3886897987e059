package mapview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Faultbox/citymap/internal/engine/picking"
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
	"github.com/Faultbox/citymap/pkg/tween"
)

// fakeSurface runs the host loop by hand: tests call step, pointer and drain.
type fakeSurface struct {
	size    Size
	resets  int
	methods []FullscreenMethod
	backend *fakeBackend
	posts   chan func()

	nextID  int
	frames  map[int]func(time.Duration)
	pointer map[int]func(PointerInput)
	resize  map[int]func(Size)
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		size:    Size{Width: 1920, Height: 1080},
		posts:   make(chan func(), 16),
		frames:  map[int]func(time.Duration){},
		pointer: map[int]func(PointerInput){},
		resize:  map[int]func(Size){},
	}
}

func (s *fakeSurface) Reset()     { s.resets++ }
func (s *fakeSurface) Size() Size { return s.size }

func (s *fakeSurface) NewBackend(opts BackendOptions) (Backend, error) {
	s.backend = &fakeBackend{size: opts.Size, opts: opts}
	opts.Tracker.Track("fake-program", func() error {
		s.backend.released++
		return nil
	})
	return s.backend, nil
}

func (s *fakeSurface) FullscreenMethods() []FullscreenMethod { return s.methods }

func (s *fakeSurface) OnFrame(fn func(time.Duration)) func() {
	id := s.id()
	s.frames[id] = fn
	return func() { delete(s.frames, id) }
}

func (s *fakeSurface) Post(fn func()) { s.posts <- fn }

func (s *fakeSurface) OnPointer(fn func(PointerInput)) func() {
	id := s.id()
	s.pointer[id] = fn
	return func() { delete(s.pointer, id) }
}

func (s *fakeSurface) OnResize(fn func(Size)) func() {
	id := s.id()
	s.resize[id] = fn
	return func() { delete(s.resize, id) }
}

func (s *fakeSurface) id() int {
	s.nextID++
	return s.nextID
}

// step runs one frame.
func (s *fakeSurface) step(dt time.Duration) {
	for _, fn := range s.frames {
		fn(dt)
	}
}

// drain runs one posted callback, waiting for it to arrive.
func (s *fakeSurface) drain(t *testing.T) {
	t.Helper()
	select {
	case fn := <-s.posts:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for posted callback")
	}
}

func (s *fakeSurface) emitResize(size Size) {
	s.size = size
	for _, fn := range s.resize {
		fn(size)
	}
}

type fakeBackend struct {
	opts     BackendOptions
	size     Size
	renders  int
	released int
	last     *Frame
}

func (b *fakeBackend) SetSize(s Size) { b.size = s }

func (b *fakeBackend) Render(f *Frame) error {
	b.renders++
	b.last = f
	return nil
}

type fakeMethod struct {
	name       string
	available  bool
	requestErr error
	requests   int
	exits      int
	nextID     int
	listeners  map[int]func(bool)
}

func newFakeMethod(name string, available bool) *fakeMethod {
	return &fakeMethod{name: name, available: available, listeners: map[int]func(bool){}}
}

func (m *fakeMethod) Name() string    { return m.name }
func (m *fakeMethod) Available() bool { return m.available }

func (m *fakeMethod) Request(context.Context) error {
	m.requests++
	return m.requestErr
}

func (m *fakeMethod) Exit(context.Context) error {
	m.exits++
	return nil
}

func (m *fakeMethod) OnChange(fn func(bool)) func() {
	m.nextID++
	id := m.nextID
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

func (m *fakeMethod) emit(fullscreen bool) {
	for _, fn := range m.listeners {
		fn(fullscreen)
	}
}

// spyAnimator counts started tweens.
type spyAnimator struct {
	*tween.Runner
	starts int
}

func (a *spyAnimator) Start(ctx context.Context, spec tween.Spec) *tween.Handle {
	a.starts++
	return a.Runner.Start(ctx, spec)
}

// recorder is a feature that logs every hook into a shared journal.
type recorder struct {
	name    string
	journal *journal
	panicOn string
	r       *Renderer
}

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	j.entries = append(j.entries, s)
	j.mu.Unlock()
}

func (j *journal) filter(hook string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []string
	for _, e := range j.entries {
		if len(e) > len(hook) && e[len(e)-len(hook):] == hook {
			out = append(out, e)
		}
	}
	return out
}

func (f *recorder) hit(hook string) {
	f.journal.add(f.name + "." + hook)
	if f.panicOn == hook {
		panic(fmt.Sprintf("%s exploded", f.name))
	}
}

func (f *recorder) Setup(r *Renderer) error {
	f.r = r
	f.hit("Setup")
	return nil
}
func (f *recorder) Cleanup(*Renderer)                  { f.hit("Cleanup") }
func (f *recorder) OnHoverBuilding(PointerEvent)       { f.hit("OnHoverBuilding") }
func (f *recorder) OnClickBuilding(PointerEvent)       { f.hit("OnClickBuilding") }
func (f *recorder) OnMoveBuilding(PointerEvent)        { f.hit("OnMoveBuilding") }
func (f *recorder) OnExitBuilding(PointerEvent)        { f.hit("OnExitBuilding") }
func (f *recorder) OnControlStart()                    { f.hit("OnControlStart") }
func (f *recorder) OnControlEnd()                      { f.hit("OnControlEnd") }
func (f *recorder) OnResize(Size)                      { f.hit("OnResize") }
func (f *recorder) OnToggleFullscreen(bool)            { f.hit("OnToggleFullscreen") }
func (f *recorder) OnFocusBuilding(*scene.Object)      { f.hit("OnFocusBuilding") }
func (f *recorder) OnTraverseSceneChild(*scene.Object) { f.hit("OnTraverseSceneChild") }

// failing refuses to set up.
type failing struct{ recorder }

var errSetup = errors.New("setup refused")

func (f *failing) Setup(*Renderer) error { return errSetup }

func building(name string, x float32) *scene.Object {
	o := scene.NewObject(name)
	o.Material = &scene.Material{Name: name, Color: colorful.Color{R: 0.9, G: 0.9, B: 0.9}}
	o.Bounds = scene.NewAABB(math.Vec3{X: x - 5, Y: 0, Z: -5}, math.Vec3{X: x + 5, Y: 20, Z: 5})
	o.Position = math.Vec3{X: x}
	return o
}

// testScene has three buildings, a ground plane and a lamp.
func testScene() *scene.Scene {
	sc := scene.New()
	sc.Add(building("Block_A", -30))
	sc.Add(building("Block_B", 0))
	sc.Add(building("Library_Main", 30))

	ground := scene.NewObject("Plane")
	ground.Material = &scene.Material{Name: "ground"}
	ground.Bounds = scene.NewAABB(math.Vec3{X: -100, Y: -1, Z: -100}, math.Vec3{X: 100, Y: 0, Z: 100})
	sc.Add(ground)

	lamp := scene.NewObject("Lamp")
	lamp.IsLight = true
	lamp.Position = math.Vec3{Y: 30}
	sc.Add(lamp)
	return sc
}

// over returns a ray pointing straight down at x.
func over(x float32) picking.Ray {
	return picking.Ray{Origin: math.Vec3{X: x, Y: 100}, Direction: math.Vec3{Y: -1}}
}

type harness struct {
	surface  *fakeSurface
	builder  *Builder
	r        *Renderer
	animator *spyAnimator
}

type harnessConfig struct {
	basic    BasicSettings
	override AdvanceSettingsPartial
	surface  *fakeSurface
}

type harnessOption func(*harnessConfig)

func withSnap() harnessOption {
	return func(c *harnessConfig) {
		off := false
		c.override.Camera = &CameraSettingsPartial{SmoothTransition: &off}
	}
}

func withTimeOfDay(tod TimeOfDay) harnessOption {
	return func(c *harnessConfig) { c.override.Map.TimeOfDay = FixedTimeOfDay(tod) }
}

func withNoInteractions() harnessOption {
	return func(c *harnessConfig) {
		on := true
		c.override.Map.NoInteractions = &on
	}
}

func withQuality(q int) harnessOption {
	return func(c *harnessConfig) { c.basic.Quality = q }
}

func withMethods(methods ...FullscreenMethod) harnessOption {
	return func(c *harnessConfig) { c.surface.methods = methods }
}

// installSeams replaces the animator and scene loader for the test.
func installSeams(t *testing.T, animator Animator, load func() (*scene.Scene, error)) {
	t.Helper()
	prevAnimator, prevLoad := newAnimator, loadScene
	t.Cleanup(func() { newAnimator, loadScene = prevAnimator, prevLoad })
	newAnimator = func() Animator { return animator }
	loadScene = func(context.Context, string, float32) (*scene.Scene, error) { return load() }
}

// newHarness registers a renderer over a fake surface with the given
// features and waits for the scene to load.
func newHarness(t *testing.T, load func() (*scene.Scene, error), features []Feature, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{surface: newFakeSurface(), animator: &spyAnimator{Runner: tween.NewRunner()}}
	installSeams(t, h.animator, load)

	cfg := &harnessConfig{
		basic:    BasicSettings{Quality: 5, Target: h.surface, SceneFile: "city.glb"},
		override: AdvanceSettingsPartial{Map: &MapSettingsPartial{TimeOfDay: FixedTimeOfDay(Afternoon)}},
		surface:  h.surface,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	b, err := NewBuilder(cfg.basic, &cfg.override)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	for _, f := range features {
		b.AddFeature(f)
	}
	r, err := b.Register()
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	t.Cleanup(func() { _ = b.Dispose() })

	h.surface.drain(t)
	<-r.Loaded()

	h.builder, h.r = b, r
	return h
}

func loadOK() (*scene.Scene, error) { return testScene(), nil }

// finish advances frames until no tween is running.
func (h *harness) finish() {
	for i := 0; i < 200 && h.animator.Len() > 0; i++ {
		h.surface.step(16 * time.Millisecond)
	}
}

func (h *harness) find(name string) *scene.Object {
	return h.r.Scene().Find(name)
}

func recorders(j *journal, names ...string) []Feature {
	out := make([]Feature, len(names))
	for i, n := range names {
		out[i] = &recorder{name: n, journal: j}
	}
	return out
}

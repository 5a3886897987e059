package mapview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/engine/picking"
	"github.com/Faultbox/citymap/internal/logger"
	"github.com/Faultbox/citymap/pkg/camera"
	"github.com/Faultbox/citymap/pkg/math"
	"github.com/Faultbox/citymap/pkg/scene"
	"github.com/Faultbox/citymap/pkg/tween"
)

// Animator runs frame-driven tweens.
type Animator interface {
	Start(ctx context.Context, spec tween.Spec) *tween.Handle
	Update(dt time.Duration)
}

// Test seams.
var (
	newAnimator = func() Animator { return tween.NewRunner() }
	loadScene   = scene.Load
)

// Renderer is a live map instance. Create one with Builder.Register.
//
// A Renderer is not safe for concurrent use: call its methods from the
// surface's loop goroutine.
type Renderer struct {
	id       string
	log      *zap.Logger
	basic    BasicSettings
	settings AdvanceSettings

	surface    Surface
	backend    Backend
	tracker    *Tracker
	features   dispatcher
	fullscreen *FullscreenCoordinator

	camera   *camera.Camera
	controls *camera.OrbitControls
	composer *Composer
	scene    *scene.Scene
	layer    *picking.Layer
	tweens   Animator

	timeOfDay TimeOfDay
	colors    Colors
	lights    LightRig

	ctx    context.Context
	cancel context.CancelFunc
	unsubs []func()

	size, oldSize Size

	selected      *scene.Object
	animating     bool
	controlMoving bool
	press         press

	loaded   chan struct{}
	loadErr  error
	disposed bool
}

func newRenderer(basic BasicSettings, settings AdvanceSettings, features []Feature) (*Renderer, error) {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	r := &Renderer{
		id:       id,
		log:      logger.Named("mapview", settings.Misc.LogLevel).With(zap.String("renderer", id)),
		basic:    basic,
		settings: settings,
		surface:  basic.Target,
		tracker:  &Tracker{},
		scene:    scene.New(),
		layer:    picking.NewLayer(),
		tweens:   newAnimator(),
		ctx:      ctx,
		cancel:   cancel,
		size:     settings.Canvas.Size,
		oldSize:  settings.Canvas.Size,
		loaded:   make(chan struct{}),
	}
	r.features = dispatcher{features: features, log: r.log}

	if err := r.setup(); err != nil {
		if derr := r.Dispose(); derr != nil {
			r.log.Warn("dispose after failed setup", zap.Error(derr))
		}
		return nil, err
	}
	return r, nil
}

func (r *Renderer) setup() error {
	s := r.settings
	r.surface.Reset()
	r.fullscreen = NewFullscreenCoordinator(r.surface.FullscreenMethods(), r.handleFullscreenChange)

	backend, err := r.surface.NewBackend(BackendOptions{
		Size:            r.size,
		Antialias:       s.Quality.Antialias && !s.Quality.Postprocessing,
		Shadows:         s.Quality.Shadows,
		PowerPreference: s.Performance.PowerPreference,
		Tracker:         r.tracker,
		Logger:          r.log,
	})
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	r.backend = backend

	scale := s.Canvas.GlobalScale
	r.camera = camera.New(camera.Degrees(float64(s.Camera.Fov)), 1, 0.1*scale, 5000*scale)
	r.camera.SetAspect(r.size.Width, r.size.Height)
	r.camera.Position = math.Vec3{X: 0, Y: 150, Z: 200}.Scale(scale)
	r.camera.LookAt(math.Vec3{})

	r.controls = camera.NewOrbitControls(r.camera, scale)
	r.controls.OnStart(r.handleControlStart)
	r.controls.OnEnd(r.handleControlEnd)

	r.timeOfDay = s.Map.TimeOfDay()
	if r.colors, err = s.Palette(r.timeOfDay); err != nil {
		return err
	}
	r.lights = NewLightRig(r.basic.Quality, r.timeOfDay, r.colors, s)
	if s.Quality.Postprocessing {
		r.composer = NewComposer(s, r.colors)
	}

	r.unsubs = append(r.unsubs,
		r.surface.OnFrame(r.frame),
		r.surface.OnPointer(r.handlePointer),
	)

	if err := r.features.setup(r); err != nil {
		return err
	}

	r.log.Info("renderer created",
		zap.Int("quality", r.basic.Quality),
		zap.String("time_of_day", string(r.timeOfDay)),
		zap.Bool("postprocessing", s.Quality.Postprocessing),
		zap.String("fullscreen", r.fullscreen.Method()))

	r.Render()
	go r.load(r.basic.SceneFile, scale)
	return nil
}

// load runs off the loop and posts the result back to it.
func (r *Renderer) load(path string, scale float32) {
	sc, err := loadScene(r.ctx, path, scale)
	r.surface.Post(func() { r.finishLoad(sc, err) })
}

func (r *Renderer) finishLoad(sc *scene.Scene, err error) {
	defer close(r.loaded)

	if r.disposed {
		r.loadErr = ErrDisposed
		return
	}
	if err != nil {
		r.loadErr = err
		r.log.Error("scene load failed", zap.String("file", r.basic.SceneFile), zap.Error(err))
		return
	}

	var lights []*scene.Object
	sc.Traverse(func(obj *scene.Object) {
		obj.Kind = scene.Classify(obj)
		switch obj.Kind {
		case scene.KindPointLight:
			if r.timeOfDay == Night {
				lights = append(lights, obj)
			}
		case scene.KindBuilding:
			obj.CastShadow, obj.ReceiveShadow = true, true
			obj.Material.Color = r.colors.Building
			if !r.settings.Map.NoInteractions {
				r.bindBuilding(obj)
			}
		case scene.KindGround:
			obj.CastShadow, obj.ReceiveShadow = false, true
			obj.Material.Color = r.colors.Ground
		}
		r.features.emit("OnTraverseSceneChild", func(f Feature) { f.OnTraverseSceneChild(obj) })
	})
	for _, l := range lights {
		sc.Remove(l)
	}
	r.scene = sc

	if b := sc.Bounds(); !b.Empty() {
		r.controls.Target = b.Center()
		r.controls.Update()
	}

	r.log.Info("scene loaded",
		zap.String("file", r.basic.SceneFile),
		zap.Int("buildings", len(sc.Buildings())),
		zap.Int("lights_removed", len(lights)))
	r.Render()
}

func (r *Renderer) frame(dt time.Duration) {
	r.tweens.Update(dt)
	r.controls.Update()
	r.Render()
}

// Render draws one frame.
func (r *Renderer) Render() {
	if r.disposed || r.backend == nil {
		return
	}
	err := r.backend.Render(&Frame{
		Scene:    r.scene,
		Camera:   r.camera,
		Colors:   r.colors,
		Lights:   r.lights,
		Composer: r.composer,
	})
	if err != nil {
		r.log.Warn("render failed", zap.Error(err))
	}
}

// Resize changes the canvas size.
func (r *Renderer) Resize(size Size) {
	if r.disposed || size.Width <= 0 || size.Height <= 0 {
		return
	}
	r.size = size
	r.camera.SetAspect(size.Width, size.Height)
	r.backend.SetSize(size)
	r.features.emit("OnResize", func(f Feature) { f.OnResize(size) })
	r.Render()
}

// ToggleFullscreen enters fullscreen, resizing to newSize (or the surface
// size when nil), or leaves it and restores the previous size. A host refusal
// is returned.
func (r *Renderer) ToggleFullscreen(ctx context.Context, newSize *Size) error {
	if r.disposed {
		return ErrDisposed
	}
	if r.fullscreen.Active() {
		err := r.fullscreen.Exit(ctx)
		r.leftFullscreen()
		return err
	}

	if err := r.fullscreen.Enter(ctx); err != nil {
		return err
	}
	r.oldSize = r.size
	target := r.surface.Size()
	if newSize != nil {
		target = *newSize
	}
	r.Resize(target)
	r.features.emit("OnToggleFullscreen", func(f Feature) { f.OnToggleFullscreen(true) })
	return nil
}

func (r *Renderer) leftFullscreen() {
	r.Resize(r.oldSize)
	r.features.emit("OnToggleFullscreen", func(f Feature) { f.OnToggleFullscreen(false) })
}

// handleFullscreenChange reacts to the host leaving fullscreen on its own.
func (r *Renderer) handleFullscreenChange(fullscreen bool) {
	if fullscreen || r.disposed {
		return
	}
	r.log.Debug("fullscreen left externally")
	r.leftFullscreen()
}

// Dispose tears the renderer down. Calling it again is a no-op.
func (r *Renderer) Dispose() error {
	if r.disposed {
		return nil
	}
	r.disposed = true
	r.cancel()

	// Let in-flight tweens observe the cancellation so focus results resolve.
	r.tweens.Update(0)

	for _, cancel := range r.unsubs {
		cancel()
	}
	r.unsubs = nil

	var err error
	if r.fullscreen != nil {
		err = multierr.Append(err, r.fullscreen.Exit(context.Background()))
	}
	r.features.cleanup(r)
	r.layer.Clear()
	err = multierr.Append(err, r.tracker.ReleaseAll())

	r.log.Info("renderer disposed")
	return err
}

// ID returns the instance identifier attached to every log line.
func (r *Renderer) ID() string { return r.id }

// Logger returns the renderer's logger.
func (r *Renderer) Logger() *zap.Logger { return r.log }

// Settings returns the merged settings.
func (r *Renderer) Settings() AdvanceSettings { return r.settings }

// Quality returns the quality tier.
func (r *Renderer) Quality() int { return r.basic.Quality }

// Surface returns the host surface.
func (r *Renderer) Surface() Surface { return r.surface }

// Scene returns the current scene. It is empty until loading finishes.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// Camera returns the camera.
func (r *Renderer) Camera() *camera.Camera { return r.camera }

// Controls returns the orbit controls.
func (r *Renderer) Controls() *camera.OrbitControls { return r.controls }

// Composer returns the post-processing chain, or nil without postprocessing.
func (r *Renderer) Composer() *Composer { return r.composer }

// Colors returns the active palette.
func (r *Renderer) Colors() Colors { return r.colors }

// Lights returns the light rig.
func (r *Renderer) Lights() LightRig { return r.lights }

// TimeOfDay returns the time of day resolved at construction.
func (r *Renderer) TimeOfDay() TimeOfDay { return r.timeOfDay }

// Size returns the current canvas size.
func (r *Renderer) Size() Size { return r.size }

// Fullscreen reports whether the renderer is fullscreen.
func (r *Renderer) Fullscreen() bool { return r.fullscreen.Active() }

// Selected returns the last focused building.
func (r *Renderer) Selected() *scene.Object { return r.selected }

// Animating reports whether a focus animation is in flight.
func (r *Renderer) Animating() bool { return r.animating }

// Loaded is closed once the scene load has finished, successfully or not.
func (r *Renderer) Loaded() <-chan struct{} { return r.loaded }

// LoadErr returns the scene load error. Only meaningful after Loaded is closed.
func (r *Renderer) LoadErr() error { return r.loadErr }

// Disposed reports whether Dispose has been called.
func (r *Renderer) Disposed() bool { return r.disposed }

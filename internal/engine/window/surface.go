package window

import (
	"context"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/engine/input"
	"github.com/Faultbox/citymap/internal/engine/renderer"
	"github.com/Faultbox/citymap/pkg/mapview"
)

var _ mapview.Surface = (*Window)(nil)

// Reset restores the window to its configured title. Listeners of a
// previous renderer are expected to have been cancelled by its Dispose.
func (w *Window) Reset() {
	w.sdlWindow.SetTitle(w.config.Title)
	if n := w.frames.len() + w.pointers.len() + w.resizes.len(); n > 0 {
		w.log.Warn("surface reset with live listeners", zap.Int("listeners", n))
	}
}

// Size returns the window size.
func (w *Window) Size() mapview.Size {
	width, height := w.GetSize()
	return mapview.Size{Width: width, Height: height}
}

// NewBackend creates the OpenGL renderer for the window's context.
func (w *Window) NewBackend(opts mapview.BackendOptions) (mapview.Backend, error) {
	switch opts.PowerPreference {
	case mapview.PowerLowPower:
		w.setSwapInterval(true)
	case mapview.PowerHighPerformance:
		// Adaptive vsync, falling back to the configured mode.
		if err := sdl.GLSetSwapInterval(-1); err != nil {
			w.setSwapInterval(w.config.VSync)
		}
	default:
		w.setSwapInterval(w.config.VSync)
	}
	if opts.Size.Width > 0 && opts.Size.Height > 0 && opts.Size != w.Size() && !w.fullscreen {
		w.sdlWindow.SetSize(int32(opts.Size.Width), int32(opts.Size.Height))
	}
	return renderer.New(opts)
}

// FullscreenMethods returns desktop fullscreen first, then exclusive mode.
func (w *Window) FullscreenMethods() []mapview.FullscreenMethod {
	out := make([]mapview.FullscreenMethod, len(w.methods))
	for i, m := range w.methods {
		out[i] = m
	}
	return out
}

func (w *Window) OnFrame(fn func(dt time.Duration)) (cancel func())       { return w.frames.add(fn) }
func (w *Window) OnPointer(fn func(mapview.PointerInput)) (cancel func()) { return w.pointers.add(fn) }
func (w *Window) OnResize(fn func(mapview.Size)) (cancel func())          { return w.resizes.add(fn) }

// Post queues fn to run on the loop. It is safe to call from any goroutine
// and blocks only while the queue is full. Work posted after the loop has
// stopped is dropped.
func (w *Window) Post(fn func()) {
	if !w.posts.post(fn) {
		w.log.Debug("loop stopped, dropping posted work")
	}
}

// Run drives the loop until ctx is cancelled or the window is closed.
func (w *Window) Run(ctx context.Context) error {
	defer w.posts.close()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if w.input.Update() {
			w.log.Info("window closed by user")
			return nil
		}
		for _, e := range w.input.Events() {
			w.dispatch(e)
		}
		w.posts.drain()

		now := time.Now()
		dt := now.Sub(last)
		last = now
		w.frames.each(func(fn func(time.Duration)) { fn(dt) })

		w.SwapBuffers()
	}
}

func (w *Window) dispatch(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		size := mapview.Size{Width: e.Width, Height: e.Height}
		w.resizes.each(func(fn func(mapview.Size)) { fn(size) })
		w.checkFullscreen()
	case input.EventWindowChanged:
		w.checkFullscreen()
	case input.EventKeyDown:
		if e.Key == sdl.SCANCODE_ESCAPE && w.fullscreen {
			w.leaveFullscreen()
		}
		w.keys.each(func(fn func(sdl.Scancode)) { fn(e.Key) })
	default:
		if in, ok := e.Pointer(); ok {
			w.pointers.each(func(fn func(mapview.PointerInput)) { fn(in) })
		}
	}
}

package window

import (
	"context"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

const fullscreenMask = sdl.WINDOW_FULLSCREEN | sdl.WINDOW_FULLSCREEN_DESKTOP

// fullscreenMethod switches the window with one SDL fullscreen flag.
type fullscreenMethod struct {
	w         *Window
	name      string
	flag      uint32
	listeners listeners[func(bool)]
}

func (m *fullscreenMethod) Name() string { return m.name }

// Available reports whether the display can take the mode. Exclusive mode
// needs a queryable display mode.
func (m *fullscreenMethod) Available() bool {
	if m.flag != sdl.WINDOW_FULLSCREEN {
		return true
	}
	idx, err := m.w.sdlWindow.GetDisplayIndex()
	if err != nil {
		return false
	}
	_, err = sdl.GetCurrentDisplayMode(idx)
	return err == nil
}

func (m *fullscreenMethod) Request(ctx context.Context) error {
	return m.set(ctx, m.flag)
}

func (m *fullscreenMethod) Exit(ctx context.Context) error {
	return m.set(ctx, 0)
}

func (m *fullscreenMethod) set(ctx context.Context, flag uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.w.sdlWindow.SetFullscreen(flag); err != nil {
		return fmt.Errorf("%s fullscreen: %w", m.name, err)
	}
	m.w.fullscreen = flag != 0
	m.w.log.Debug("fullscreen switched", zap.String("method", m.name), zap.Bool("fullscreen", flag != 0))
	return nil
}

func (m *fullscreenMethod) OnChange(fn func(fullscreen bool)) (cancel func()) {
	return m.listeners.add(fn)
}

// checkFullscreen compares the window flags with the last known state and
// notifies every method's listeners when the window manager changed it.
func (w *Window) checkFullscreen() {
	now := w.sdlWindow.GetFlags()&fullscreenMask != 0
	if now == w.fullscreen {
		return
	}
	w.fullscreen = now
	w.log.Debug("fullscreen changed by window manager", zap.Bool("fullscreen", now))
	for _, m := range w.methods {
		m.listeners.each(func(fn func(bool)) { fn(now) })
	}
}

// leaveFullscreen handles Escape the way browsers do: the window leaves
// fullscreen and listeners learn about it as an external change.
func (w *Window) leaveFullscreen() {
	if err := w.sdlWindow.SetFullscreen(0); err != nil {
		w.log.Warn("leave fullscreen", zap.Error(err))
		return
	}
	w.checkFullscreen()
}

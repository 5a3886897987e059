// Package main is the entry point for the citymap viewer.
//
// Usage:
//
//	citymap [flags] [building name]
//
// The optional building name is focused once the scene has loaded. Keys:
// F toggles fullscreen, Tab cycles the focus through the buildings, R resets
// the renderer and P saves a screenshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/config"
	"github.com/Faultbox/citymap/internal/engine/capture"
	"github.com/Faultbox/citymap/internal/engine/renderer"
	"github.com/Faultbox/citymap/internal/engine/window"
	"github.com/Faultbox/citymap/internal/logger"
	"github.com/Faultbox/citymap/pkg/mapview"
	"github.com/Faultbox/citymap/pkg/mapview/features"
	"github.com/Faultbox/citymap/pkg/scene"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== citymap ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, strings.Join(flag.Args(), " ")); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(ctx context.Context, cfg *config.Config, focus string) error {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    cfg.Window.Samples,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	a, err := newApp(ctx, cfg, win)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.register(); err != nil {
		return err
	}
	if focus != "" {
		a.focusWhenLoaded(focus)
	}

	if cfg.Viewer.Watch {
		stopWatch, err := watchScene(ctx, cfg.Viewer.Scene, win, a.reload)
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	if err := win.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// app owns the builder and reacts to viewer keys.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	win     *window.Window
	builder *mapview.Builder
	log     *zap.Logger

	shots   *capture.Screenshots
	cycle   int
	stopKey func()
}

func newApp(ctx context.Context, cfg *config.Config, win *window.Window) (*app, error) {
	override, err := cfg.Overrides()
	if err != nil {
		return nil, err
	}

	builder, err := mapview.NewBuilder(mapview.BasicSettings{
		Quality:   cfg.Viewer.Quality,
		Target:    win,
		SceneFile: cfg.Viewer.Scene,
	}, override)
	if err != nil {
		return nil, err
	}

	a := &app{
		ctx:     ctx,
		cfg:     cfg,
		win:     win,
		builder: builder,
		log:     logger.Log.Named("viewer"),
		shots:   capture.NewScreenshots(filepath.Join(config.ConfigDir(), "screenshots"), "citymap"),
	}

	mode := features.Recolor
	if cfg.Viewer.Highlight == "outline" {
		mode = features.Outline
	}
	// The window is the whole canvas, so it keeps the window's height too.
	resize := features.NewAutoResize()
	resize.AspectRatio = 0
	builder.AddFeature(features.NewHighlight(mode)).AddFeature(resize)
	if cfg.Viewer.Tooltips {
		builder.AddFeature(features.NewTooltip(a.showTooltip, a.hideTooltip))
	}
	builder.AddFeature(features.NewRelay(nil).
		On(features.HookClickBuilding, a.logClick).
		On(features.HookToggleFullscreen, a.logFullscreen))
	if cfg.Logging.Hooks {
		builder.AddFeature(features.NewDebugLog(nil))
	}

	a.stopKey = win.OnKey(a.handleKey)
	return a, nil
}

func (a *app) register() error {
	r, err := a.builder.Register()
	if err != nil {
		return fmt.Errorf("register renderer: %w", err)
	}
	a.log.Info("renderer registered", zap.String("id", r.ID()))
	return nil
}

// reload re-registers the renderer. It runs on the loop.
func (a *app) reload() {
	a.log.Info("scene changed, reloading", zap.String("file", a.cfg.Viewer.Scene))
	if err := a.register(); err != nil {
		a.log.Error("reload failed", zap.Error(err))
	}
}

func (a *app) close() {
	a.stopKey()
	if err := a.builder.Dispose(); err != nil {
		a.log.Warn("dispose renderer", zap.Error(err))
	}
}

func (a *app) handleKey(key sdl.Scancode) {
	r := a.builder.Renderer()
	if r == nil {
		return
	}
	switch key {
	case sdl.SCANCODE_F:
		if err := r.ToggleFullscreen(a.ctx, nil); err != nil {
			a.log.Warn("toggle fullscreen", zap.Error(err))
		}
	case sdl.SCANCODE_TAB:
		a.focusNext(r)
	case sdl.SCANCODE_R:
		a.reload()
	case sdl.SCANCODE_P:
		a.screenshot(r)
	}
}

func (a *app) screenshot(r *mapview.Renderer) {
	r.Render()
	size := a.win.Size()
	path, err := a.shots.SavePixels(renderer.ReadPixels(size), size.Width, size.Height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", path))
}

// focusNext focuses the buildings one after another, in name order.
func (a *app) focusNext(r *mapview.Renderer) {
	sc := r.Scene()
	if sc == nil {
		return
	}
	buildings := sc.Buildings()
	if len(buildings) == 0 {
		return
	}
	sort.Slice(buildings, func(i, j int) bool { return buildings[i].Name < buildings[j].Name })
	obj := buildings[a.cycle%len(buildings)]
	a.cycle++
	a.await("focus "+obj.Name, r.FocusBuilding(a.ctx, obj))
}

// focusWhenLoaded focuses a building by name once the scene is in.
func (a *app) focusWhenLoaded(name string) {
	r := a.builder.Renderer()
	go func() {
		select {
		case <-r.Loaded():
		case <-a.ctx.Done():
			return
		}
		a.win.Post(func() {
			if r.LoadErr() != nil {
				return
			}
			a.await("focus "+name, r.FocusBuildingByName(a.ctx, name))
		})
	}()
}

// await logs the outcome of a focus request without blocking the loop.
func (a *app) await(what string, done <-chan bool) {
	go func() {
		if !<-done {
			a.log.Info("request not applied", zap.String("request", what))
		}
	}()
}

func (a *app) showTooltip(text string, x, y float32) {
	a.win.SetTitle(a.cfg.Window.Title + " - " + text)
}

func (a *app) hideTooltip() {
	a.win.SetTitle(a.cfg.Window.Title)
}

func (a *app) logClick(payload any) {
	if e, ok := payload.(mapview.PointerEvent); ok {
		a.log.Info("building clicked", zap.String("name", objectName(e.Object)))
	}
}

func (a *app) logFullscreen(payload any) {
	a.log.Info("fullscreen toggled", zap.Any("fullscreen", payload))
}

func objectName(o *scene.Object) string {
	if o == nil {
		return ""
	}
	return o.Name
}

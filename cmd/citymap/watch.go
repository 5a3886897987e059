package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/citymap/internal/logger"
)

// reloadDelay coalesces the burst of events an exporter produces while it
// rewrites a file.
const reloadDelay = 250 * time.Millisecond

// poster runs a function on the host loop.
type poster interface {
	Post(fn func())
}

type sceneWatcher struct {
	path   string
	delay  time.Duration
	host   poster
	reload func()
	log    *zap.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// watchScene calls reload on the loop after the scene file changes. The
// parent directory is watched so editors that replace the file are seen.
func watchScene(ctx context.Context, path string, host poster, reload func()) (stop func(), err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("scene watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("scene watcher: %w", err)
	}

	w := &sceneWatcher{path: abs, delay: reloadDelay, host: host, reload: reload, log: logger.Log.Named("watch")}
	done := make(chan struct{})
	go w.loop(ctx, fsw, done)
	w.log.Info("watching scene", zap.String("file", abs))

	var once sync.Once
	return func() {
		once.Do(func() {
			fsw.Close()
			<-done
			w.cancel()
		})
	}, nil
}

func (w *sceneWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *sceneWatcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// handle restarts the debounce timer for relevant events.
func (w *sceneWatcher) handle(ev fsnotify.Event) {
	if !w.relevant(ev) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.host.Post(w.reload)
	})
}

func (w *sceneWatcher) cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

package mapview

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
)

type tracked struct {
	name    string
	release func() error
}

// Tracker owns disposable resources created during renderer setup. Every
// code path that creates such a resource registers it with Track.
type Tracker struct {
	mu      sync.Mutex
	handles []tracked
}

// Track registers a resource and its release function.
func (t *Tracker) Track(name string, release func() error) {
	if release == nil {
		return
	}
	t.mu.Lock()
	t.handles = append(t.handles, tracked{name: name, release: release})
	t.mu.Unlock()
}

// Len returns the number of resources still held.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}

// ReleaseAll releases every tracked resource in reverse registration order
// and clears the set. Each resource is released at most once; errors are
// combined.
func (t *Tracker) ReleaseAll() error {
	t.mu.Lock()
	handles := t.handles
	t.handles = nil
	t.mu.Unlock()

	var err error
	for i := len(handles) - 1; i >= 0; i-- {
		h := handles[i]
		if rerr := h.release(); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("release %s: %w", h.name, rerr))
		}
	}
	return err
}

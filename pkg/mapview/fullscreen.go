package mapview

import (
	"context"
	"fmt"
)

// FullscreenMethod is one way the host can put the surface in fullscreen.
type FullscreenMethod interface {
	Name() string
	Available() bool
	Request(ctx context.Context) error
	Exit(ctx context.Context) error
	// OnChange subscribes to fullscreen state changes reported by the host.
	OnChange(fn func(fullscreen bool)) (cancel func())
}

// FullscreenCoordinator wraps the host's fullscreen support behind an
// idempotent Enter/Exit pair. The method is chosen once, at construction:
// the first available one in the order given.
type FullscreenCoordinator struct {
	methods  []FullscreenMethod
	method   FullscreenMethod
	active   bool
	onChange func(fullscreen bool)
	unsubs   []func()
}

// NewFullscreenCoordinator creates a coordinator. onChange is called when the
// host reports a state that disagrees with the coordinator, such as the user
// leaving fullscreen with Escape.
func NewFullscreenCoordinator(methods []FullscreenMethod, onChange func(fullscreen bool)) *FullscreenCoordinator {
	f := &FullscreenCoordinator{methods: methods, onChange: onChange}
	for _, m := range methods {
		if m.Available() {
			f.method = m
			break
		}
	}
	return f
}

// Supported reports whether any fullscreen method is available.
func (f *FullscreenCoordinator) Supported() bool { return f.method != nil }

// Method returns the chosen method name, or "" when unsupported.
func (f *FullscreenCoordinator) Method() string {
	if f.method == nil {
		return ""
	}
	return f.method.Name()
}

// Active reports whether the coordinator believes the surface is fullscreen.
func (f *FullscreenCoordinator) Active() bool { return f.active }

// Enter requests fullscreen. It is a no-op when already fullscreen. A host
// refusal is returned to the caller.
func (f *FullscreenCoordinator) Enter(ctx context.Context) error {
	if f.active {
		return nil
	}
	if f.method == nil {
		return ErrFullscreenUnsupported
	}

	for _, m := range f.methods {
		f.unsubs = append(f.unsubs, m.OnChange(f.handleChange))
	}
	f.active = true
	if err := f.method.Request(ctx); err != nil {
		f.active = false
		f.unsubscribe()
		return fmt.Errorf("request fullscreen (%s): %w", f.method.Name(), err)
	}
	return nil
}

// Exit leaves fullscreen. It is a no-op when not fullscreen. Listeners are
// removed before the host is asked to exit.
func (f *FullscreenCoordinator) Exit(ctx context.Context) error {
	if !f.active {
		return nil
	}
	f.unsubscribe()
	f.active = false
	if err := f.method.Exit(ctx); err != nil {
		return fmt.Errorf("exit fullscreen (%s): %w", f.method.Name(), err)
	}
	return nil
}

func (f *FullscreenCoordinator) handleChange(fullscreen bool) {
	if fullscreen == f.active {
		return
	}
	f.active = fullscreen
	if !fullscreen {
		f.unsubscribe()
	}
	if f.onChange != nil {
		f.onChange(fullscreen)
	}
}

func (f *FullscreenCoordinator) unsubscribe() {
	for _, cancel := range f.unsubs {
		cancel()
	}
	f.unsubs = nil
}

// Package input converts SDL2 events into map input.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/citymap/pkg/mapview"
)

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventWindowChanged // any other window state change
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
	Wheel  float32 // positive scrolls away from the user
}

// Pointer converts a mouse event into renderer pointer input.
func (e Event) Pointer() (mapview.PointerInput, bool) {
	in := mapview.PointerInput{X: float32(e.MouseX), Y: float32(e.MouseY), Button: int(e.Button)}
	switch e.Type {
	case EventMouseMove:
		in.Kind = mapview.PointerMove
	case EventMouseDown:
		in.Kind = mapview.PointerDown
	case EventMouseUp:
		in.Kind = mapview.PointerUp
	case EventMouseWheel:
		in.Kind = mapview.PointerWheel
		in.Wheel = e.Wheel
	default:
		return mapview.PointerInput{}, false
	}
	return in, true
}

// Input polls SDL once per frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update polls pending SDL events. It reports whether the user asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := convert(event)
		if !ok {
			continue
		}
		i.events = append(i.events, e)
		if e.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

func convert(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_MAXIMIZED, sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_MINIMIZED,
			sdl.WINDOWEVENT_FOCUS_LOST, sdl.WINDOWEVENT_FOCUS_GAINED:
			return Event{Type: EventWindowChanged}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}
		return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		wheel := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			wheel = -wheel
		}
		if wheel == 0 {
			return Event{}, false
		}
		return Event{Type: EventMouseWheel, Wheel: wheel}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// Package input handles SDL2 input events and tracks held keys.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
}

// Input turns SDL events into Events and remembers which keys are held.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update polls SDL events. Returns true if the application should quit.
func (i *Input) Update() bool {
	return i.Process(pollAll())
}

func pollAll() []sdl.Event {
	var events []sdl.Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		events = append(events, event)
	}
	return events
}

// Process converts events and updates held keys.
// Returns true if a quit was requested.
func (i *Input) Process(events []sdl.Event) bool {
	i.events = i.events[:0]
	quit := false

	for _, event := range events {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			key := e.Keysym.Scancode
			if e.Type == sdl.KEYDOWN {
				i.held[key] = true
				i.events = append(i.events, Event{Type: EventKeyDown, Key: key, Repeat: e.Repeat != 0})
			} else if e.Type == sdl.KEYUP {
				delete(i.held, key)
				i.events = append(i.events, Event{Type: EventKeyUp, Key: key})
			}
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame, ignoring auto-repeat.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode && !e.Repeat {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether a key is currently held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

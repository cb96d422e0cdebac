// Package input turns pointer and key events into viewport mutations.
// It knows nothing about the windowing library; the window adapter
// translates its events into the types here.
package input

import (
	"math"

	"github.com/stewi1014/glmandel/viewport"
)

// ZoomStep is the scale factor applied per scroll notch in; one notch
// out applies its inverse.
const ZoomStep = 0.9

// KeyZoomStep is the scale factor applied per zoom key press, focused
// on the window centre.
const KeyZoomStep = 0.8

// Event is a user input event delivered by the window collaborator.
type Event interface {
	isEvent()
}

type (
	// PointerMove reports the pointer position in pixels.
	PointerMove struct{ X, Y float64 }

	// PointerPress starts a drag gesture.
	PointerPress struct{ X, Y float64 }

	// PointerRelease ends a drag gesture.
	PointerRelease struct{ X, Y float64 }

	// Scroll reports wheel movement; positive notches scroll up,
	// zooming in at the current pointer position.
	Scroll struct{ Notches float64 }

	// Key is a designated action key, already translated from the
	// window library's key codes.
	Key struct{ Action Action }

	// CloseRequest is the window close button.
	CloseRequest struct{}
)

func (PointerMove) isEvent()    {}
func (PointerPress) isEvent()   {}
func (PointerRelease) isEvent() {}
func (Scroll) isEvent()         {}
func (Key) isEvent()            {}
func (CloseRequest) isEvent()   {}

// Action is a key binding understood by the controller.
type Action int

const (
	ActionNone Action = iota
	ActionZoomIn
	ActionZoomOut
	ActionReset
	ActionQuit
)

// Controller applies events to a viewport. It is a two-state machine:
// idle, and panning while a drag gesture is in progress.
type Controller struct {
	view *viewport.Viewport

	panning      bool
	lastX, lastY float64
	close        bool
}

func NewController(view *viewport.Viewport) *Controller {
	return &Controller{view: view}
}

// Apply feeds one event through the state machine and reports whether
// the viewport changed. Events that do not mutate the viewport must
// not mark the frame dirty; recomputation is demand driven.
func (c *Controller) Apply(ev Event) bool {
	before := c.view.Generation

	switch ev := ev.(type) {
	case PointerPress:
		c.panning = true
		c.lastX, c.lastY = ev.X, ev.Y

	case PointerRelease:
		c.panning = false
		c.lastX, c.lastY = ev.X, ev.Y

	case PointerMove:
		if c.panning {
			c.view.Pan(ev.X-c.lastX, ev.Y-c.lastY)
		}
		c.lastX, c.lastY = ev.X, ev.Y

	case Scroll:
		if ev.Notches != 0 {
			c.view.Zoom(c.lastX, c.lastY, math.Pow(ZoomStep, ev.Notches))
		}

	case Key:
		cx := float64(c.view.Width) / 2
		cy := float64(c.view.Height) / 2
		switch ev.Action {
		case ActionZoomIn:
			c.view.Zoom(cx, cy, KeyZoomStep)
		case ActionZoomOut:
			c.view.Zoom(cx, cy, 1/KeyZoomStep)
		case ActionReset:
			c.view.Reset()
		case ActionQuit:
			c.close = true
		}

	case CloseRequest:
		c.close = true
	}

	return c.view.Generation != before
}

// Panning reports whether a drag gesture is in progress.
func (c *Controller) Panning() bool {
	return c.panning
}

// CloseRequested reports whether the user asked to quit.
func (c *Controller) CloseRequested() bool {
	return c.close
}

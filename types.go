package main

import "time"

type EventKind int

const (
	EventPointerDown EventKind = iota
	EventSecondPointerDown
	EventPointerMove
	EventPointerUp
	EventLongPress
	EventZoomBegin
	EventZoomUpdate
	EventZoomEnd
)

func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointer_down"
	case EventSecondPointerDown:
		return "second_pointer_down"
	case EventPointerMove:
		return "pointer_move"
	case EventPointerUp:
		return "pointer_up"
	case EventLongPress:
		return "long_press"
	case EventZoomBegin:
		return "zoom_begin"
	case EventZoomUpdate:
		return "zoom_update"
	case EventZoomEnd:
		return "zoom_end"
	}
	return "unknown"
}

// Event is a host-neutral pointer event. X and Y are the primary pointer in
// canvas units; Factor is only meaningful for zoom updates.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Time   time.Time
	Factor float64
}

type EffectKind int

const (
	EffectRedraw EffectKind = iota
	EffectShowMenu
	EffectDismissMenu
	EffectNotice
	EffectOpen
)

// Effect is a request the controller raises for the host to carry out.
type Effect struct {
	Kind    EffectKind
	Item    Drawable
	At      Point
	Options []MenuOption
	Message string
}

// Transition describes what one event did to the controller.
type Transition struct {
	From, To State
	Effects  []Effect
}

func (t Transition) Changed() bool {
	return t.From != t.To
}

func (t Transition) Has(kind EffectKind) bool {
	_, ok := t.Effect(kind)
	return ok
}

func (t Transition) Effect(kind EffectKind) (Effect, bool) {
	for _, e := range t.Effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}

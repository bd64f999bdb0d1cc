// Package gesture translates platform-neutral pointer, touch, wheel
// and keyboard input into semantic chart operations. A thin platform
// adapter feeds raw events in; the chart container subscribes to the
// semantic events coming out. The package holds no reference to the
// chart itself.
package gesture

// PointerEvent is a raw pointer position in surface coordinates.
type PointerEvent struct {
	X float64
	Y float64
}

// TouchPoint is one active touch contact.
type TouchPoint struct {
	X float64
	Y float64
}

// WheelEvent is a raw wheel tick at a pointer position. Positive
// DeltaY scrolls away from the user.
type WheelEvent struct {
	X      float64
	Y      float64
	DeltaY float64
}

// KeyEvent is a raw key press with its full modifier set.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// EventType discriminates the semantic gesture events.
type EventType int8

const (
	EventTap EventType = iota
	EventLongPress
	EventPan
	EventPinch
	EventZoom
)

// Event is one semantic chart operation. Pan carries incremental
// deltas, pinch a distance-ratio scale, zoom a multiplicative factor
// centered on the pointer.
type Event struct {
	Type   EventType
	X      float64
	Y      float64
	DeltaX float64
	DeltaY float64
	Scale  float64
	Factor float64
}

// Handler receives semantic events synchronously.
type Handler func(Event)

package gesture

import (
	"math"
	"sync"
	"time"
)

const (
	defaultMoveThreshold  = 5.0
	defaultLongPressDelay = 500 * time.Millisecond
	zoomOutFactor         = 0.9
	zoomInFactor          = 1.1
)

// Config tunes the recognizer thresholds. The zero value selects the
// defaults (5 px move threshold, 500 ms long press).
type Config struct {
	MoveThreshold  float64
	LongPressDelay time.Duration
}

// Recognizer turns one pointer-down-to-up lifecycle into exactly one
// of tap, pan or long-press, tracks two-finger pinches and maps wheel
// ticks to zoom events. Outcomes within a lifecycle are mutually
// exclusive.
type Recognizer struct {
	mu      sync.Mutex
	handler Handler
	cfg     Config

	tracking       bool
	panning        bool
	longPressFired bool
	downX, downY   float64
	lastX, lastY   float64

	pinching  bool
	startDist float64

	longPressTimer *time.Timer
}

// NewRecognizer creates a recognizer delivering semantic events to the
// given handler.
func NewRecognizer(handler Handler, cfg Config) *Recognizer {
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = defaultMoveThreshold
	}
	if cfg.LongPressDelay <= 0 {
		cfg.LongPressDelay = defaultLongPressDelay
	}
	return &Recognizer{handler: handler, cfg: cfg}
}

// PointerDown starts a candidate gesture and arms the long-press timer.
func (r *Recognizer) PointerDown(ev PointerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracking = true
	r.panning = false
	r.longPressFired = false
	r.downX, r.downY = ev.X, ev.Y
	r.lastX, r.lastY = ev.X, ev.Y

	r.stopTimerLocked()
	r.longPressTimer = time.AfterFunc(r.cfg.LongPressDelay, r.fireLongPress)
}

// PointerMove does nothing until the move threshold is crossed; from
// then on every move emits an incremental pan delta.
func (r *Recognizer) PointerMove(ev PointerEvent) {
	r.mu.Lock()

	if !r.tracking || r.pinching || r.longPressFired {
		r.mu.Unlock()
		return
	}

	if !r.panning {
		dx := ev.X - r.downX
		dy := ev.Y - r.downY
		if math.Hypot(dx, dy) <= r.cfg.MoveThreshold {
			r.mu.Unlock()
			return
		}
		r.panning = true
		r.stopTimerLocked()
	}

	deltaX := ev.X - r.lastX
	deltaY := ev.Y - r.lastY
	r.lastX, r.lastY = ev.X, ev.Y
	handler := r.handler
	r.mu.Unlock()

	handler(Event{Type: EventPan, X: ev.X, Y: ev.Y, DeltaX: deltaX, DeltaY: deltaY})
}

// PointerUp ends the lifecycle. A press that never crossed the
// threshold and did not long-press emits a single tap.
func (r *Recognizer) PointerUp(ev PointerEvent) {
	r.mu.Lock()

	if !r.tracking {
		r.mu.Unlock()
		return
	}

	r.tracking = false
	r.stopTimerLocked()

	tap := !r.panning && !r.longPressFired && !r.pinching
	r.panning = false
	handler := r.handler
	r.mu.Unlock()

	if tap {
		handler(Event{Type: EventTap, X: ev.X, Y: ev.Y})
	}
}

// TouchStart with two contacts replaces pointer tracking with a pinch.
func (r *Recognizer) TouchStart(points []TouchPoint) {
	if len(points) != 2 {
		return
	}

	r.mu.Lock()
	r.pinching = true
	r.panning = false
	r.stopTimerLocked()
	r.startDist = distance(points[0], points[1])
	r.mu.Unlock()
}

// TouchMove emits the pinch scale relative to the starting distance.
func (r *Recognizer) TouchMove(points []TouchPoint) {
	if len(points) != 2 {
		return
	}

	r.mu.Lock()
	if !r.pinching || r.startDist == 0 {
		r.mu.Unlock()
		return
	}

	scale := distance(points[0], points[1]) / r.startDist
	centerX := (points[0].X + points[1].X) / 2
	centerY := (points[0].Y + points[1].Y) / 2
	handler := r.handler
	r.mu.Unlock()

	handler(Event{Type: EventPinch, X: centerX, Y: centerY, Scale: scale})
}

// TouchEnd finishes a pinch once fewer than two contacts remain.
func (r *Recognizer) TouchEnd(points []TouchPoint) {
	if len(points) >= 2 {
		return
	}

	r.mu.Lock()
	r.pinching = false
	r.tracking = false
	r.mu.Unlock()
}

// Wheel always emits a zoom with a fixed multiplicative factor
// centered on the pointer position.
func (r *Recognizer) Wheel(ev WheelEvent) {
	factor := zoomInFactor
	if ev.DeltaY > 0 {
		factor = zoomOutFactor
	}

	r.mu.Lock()
	handler := r.handler
	r.mu.Unlock()

	handler(Event{Type: EventZoom, X: ev.X, Y: ev.Y, Factor: factor})
}

func (r *Recognizer) fireLongPress() {
	r.mu.Lock()
	if !r.tracking || r.panning || r.pinching {
		r.mu.Unlock()
		return
	}
	r.longPressFired = true
	x, y := r.downX, r.downY
	handler := r.handler
	r.mu.Unlock()

	handler(Event{Type: EventLongPress, X: x, Y: y})
}

func (r *Recognizer) stopTimerLocked() {
	if r.longPressTimer != nil {
		r.longPressTimer.Stop()
		r.longPressTimer = nil
	}
}

func distance(a, b TouchPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

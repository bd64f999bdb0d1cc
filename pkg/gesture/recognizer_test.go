package gesture

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *eventSink) handle(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *eventSink) all() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func (s *eventSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Type
	}
	return out
}

func TestRecognizer_TapBelowThreshold(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{})

	r.PointerDown(PointerEvent{X: 100, Y: 100})
	// 3px of jitter stays below the 5px threshold.
	r.PointerMove(PointerEvent{X: 103, Y: 100})
	r.PointerUp(PointerEvent{X: 103, Y: 100})

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventTap, events[0].Type)
}

func TestRecognizer_PanSuppressesTap(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{})

	r.PointerDown(PointerEvent{X: 100, Y: 100})
	r.PointerMove(PointerEvent{X: 110, Y: 100})
	r.PointerMove(PointerEvent{X: 125, Y: 105})
	r.PointerUp(PointerEvent{X: 125, Y: 105})

	types := sink.types()
	require.Len(t, types, 2)
	assert.Equal(t, []EventType{EventPan, EventPan}, types)

	// Deltas are incremental, not cumulative.
	events := sink.all()
	assert.InDelta(t, 10.0, events[0].DeltaX, 1e-9)
	assert.InDelta(t, 15.0, events[1].DeltaX, 1e-9)
	assert.InDelta(t, 5.0, events[1].DeltaY, 1e-9)
}

func TestRecognizer_LongPress(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{LongPressDelay: 30 * time.Millisecond})

	r.PointerDown(PointerEvent{X: 50, Y: 60})
	time.Sleep(60 * time.Millisecond)
	r.PointerUp(PointerEvent{X: 50, Y: 60})

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventLongPress, events[0].Type)
	assert.Equal(t, 50.0, events[0].X)
	assert.Equal(t, 60.0, events[0].Y)
}

func TestRecognizer_PanCancelsLongPress(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{LongPressDelay: 30 * time.Millisecond})

	r.PointerDown(PointerEvent{X: 100, Y: 100})
	r.PointerMove(PointerEvent{X: 120, Y: 100})
	time.Sleep(60 * time.Millisecond)
	r.PointerUp(PointerEvent{X: 120, Y: 100})

	for _, ev := range sink.all() {
		assert.NotEqual(t, EventLongPress, ev.Type)
		assert.NotEqual(t, EventTap, ev.Type)
	}
}

func TestRecognizer_WheelZoom(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{})

	r.Wheel(WheelEvent{X: 10, Y: 20, DeltaY: 120})
	r.Wheel(WheelEvent{X: 10, Y: 20, DeltaY: -120})

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventZoom, events[0].Type)
	assert.InDelta(t, 0.9, events[0].Factor, 1e-12)
	assert.InDelta(t, 1.1, events[1].Factor, 1e-12)
	assert.Equal(t, 10.0, events[0].X)
}

func TestRecognizer_Pinch(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{})

	r.TouchStart([]TouchPoint{{X: 0, Y: 0}, {X: 100, Y: 0}})
	r.TouchMove([]TouchPoint{{X: 0, Y: 0}, {X: 200, Y: 0}})

	events := sink.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventPinch, events[0].Type)
	assert.InDelta(t, 2.0, events[0].Scale, 1e-12)
	assert.InDelta(t, 100.0, events[0].X, 1e-12)

	r.TouchEnd(nil)

	// A later single-finger tap works again after the pinch ends.
	r.PointerDown(PointerEvent{X: 5, Y: 5})
	r.PointerUp(PointerEvent{X: 5, Y: 5})
	types := sink.types()
	assert.Equal(t, EventTap, types[len(types)-1])
}

func TestRecognizer_SingleTouchIgnored(t *testing.T) {
	sink := &eventSink{}
	r := NewRecognizer(sink.handle, Config{})

	r.TouchStart([]TouchPoint{{X: 0, Y: 0}})
	r.TouchMove([]TouchPoint{{X: 10, Y: 0}})

	assert.Empty(t, sink.all())
}

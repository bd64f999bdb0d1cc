package drawing

import (
	"sort"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/google/uuid"
	"github.com/raykavin/chartview/pkg/logger"
)

// State is the drawing lifecycle state of the engine.
type State int8

const (
	StateIdle State = iota
	StateDrawing
)

// Snapshot is the full engine state handed to listeners. Selection is
// tracked independently of the drawing lifecycle.
type Snapshot struct {
	State      State
	ActiveTool Tool
	Objects    []Object
	SelectedID string
}

// Listener receives the full new state after every mutation.
type Listener func(Snapshot)

// Engine manages the freehand annotation objects of one chart. It is
// the sole writer of its drawing list; every mutation notifies all
// subscribed listeners synchronously with the complete new state.
type Engine struct {
	mu sync.Mutex

	log        logger.Logger
	state      State
	activeTool Tool
	startPoint Point
	endPoint   Point
	moved      bool

	objects    map[string]*Object
	zOrder     *set.LinkedHashSetString
	selectedID string

	listeners  map[int]Listener
	nextListID int

	now func() time.Time
}

// NewEngine creates an empty drawing engine.
func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		log:       log,
		objects:   make(map[string]*Object),
		zOrder:    set.NewLinkedHashSetString(),
		listeners: make(map[int]Listener),
		now:       time.Now,
	}
}

// Subscribe registers a listener and returns its removal function.
func (e *Engine) Subscribe(l Listener) func() {
	e.mu.Lock()
	id := e.nextListID
	e.nextListID++
	e.listeners[id] = l
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// StartDrawing begins a new drawing with the given tool. Both anchor
// points start at the press position.
func (e *Engine) StartDrawing(tool Tool, p Point) {
	e.mu.Lock()
	e.state = StateDrawing
	e.activeTool = tool
	e.startPoint = p
	e.endPoint = p
	e.moved = false
	e.mu.Unlock()

	e.notify()
}

// UpdateDrawing moves the trailing anchor while a drawing is active.
func (e *Engine) UpdateDrawing(p Point) {
	e.mu.Lock()
	if e.state != StateDrawing {
		e.mu.Unlock()
		return
	}
	e.endPoint = p
	e.moved = true
	e.mu.Unlock()

	e.notify()
}

// FinishDrawing validates the recorded points against the tool's
// bounds. On success it appends a new object, selects it and returns
// it; an invalid attempt is dropped without error and the engine
// returns to idle either way.
func (e *Engine) FinishDrawing() *Object {
	e.mu.Lock()

	if e.state != StateDrawing {
		e.mu.Unlock()
		return nil
	}
	e.state = StateIdle

	points := []Point{e.startPoint}
	if e.moved {
		points = append(points, e.endPoint)
	}

	minPoints, maxPoints := e.activeTool.PointBounds()
	if len(points) > maxPoints {
		points = points[:maxPoints]
	}
	if len(points) < minPoints {
		e.mu.Unlock()
		e.notify()
		return nil
	}

	now := e.now()
	obj := &Object{
		ID:        uuid.NewString(),
		Tool:      e.activeTool,
		Points:    points,
		Color:     "#2962ff",
		Width:     1,
		Style:     StyleSolid,
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	e.objects[obj.ID] = obj
	e.zOrder.Add(obj.ID)
	e.selectedID = obj.ID
	created := *obj
	e.mu.Unlock()

	e.notify()
	return &created
}

// CancelDrawing aborts an in-progress drawing without creating an object.
func (e *Engine) CancelDrawing() {
	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()

	e.notify()
}

// Delete removes a drawing by id.
func (e *Engine) Delete(id string) {
	e.mu.Lock()
	if _, ok := e.objects[id]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.objects, id)
	e.zOrder.Remove(id)
	if e.selectedID == id {
		e.selectedID = ""
	}
	e.mu.Unlock()

	e.notify()
}

// Select marks a drawing as selected. An unknown id clears selection.
func (e *Engine) Select(id string) {
	e.mu.Lock()
	if _, ok := e.objects[id]; ok {
		e.selectedID = id
	} else {
		e.selectedID = ""
	}
	e.mu.Unlock()

	e.notify()
}

// UpdatePoints replaces the anchor points of an existing drawing and
// bumps its update timestamp. Out-of-bounds point counts are rejected.
func (e *Engine) UpdatePoints(id string, points []Point) bool {
	e.mu.Lock()
	obj, ok := e.objects[id]
	if !ok {
		e.mu.Unlock()
		return false
	}

	minPoints, maxPoints := obj.Tool.PointBounds()
	if len(points) < minPoints || len(points) > maxPoints {
		e.mu.Unlock()
		return false
	}

	obj.Points = append([]Point(nil), points...)
	obj.UpdatedAt = e.now()
	e.mu.Unlock()

	e.notify()
	return true
}

// ClearAll removes every drawing.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	e.objects = make(map[string]*Object)
	e.zOrder = set.NewLinkedHashSetString()
	e.selectedID = ""
	e.mu.Unlock()

	e.notify()
}

// Objects returns the drawing list in z-order (insertion order).
func (e *Engine) Objects() []Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.objectsLocked()
}

// Snapshot returns the current full engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) objectsLocked() []Object {
	out := make([]Object, 0, len(e.objects))
	for id := range e.zOrder.Iter() {
		if obj, ok := e.objects[id]; ok {
			out = append(out, *obj)
		}
	}
	return out
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		State:      e.state,
		ActiveTool: e.activeTool,
		Objects:    e.objectsLocked(),
		SelectedID: e.selectedID,
	}
}

// notify delivers the full state to every listener, synchronously and
// in registration order.
func (e *Engine) notify() {
	e.mu.Lock()
	snap := e.snapshotLocked()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, e.listeners[id])
	}
	e.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

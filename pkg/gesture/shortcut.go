package gesture

import "sync"

// Action is a named chart operation bound to a key combination.
type Action string

const (
	ActionPanLeft         Action = "pan_left"
	ActionPanRight        Action = "pan_right"
	ActionZoomIn          Action = "zoom_in"
	ActionZoomOut         Action = "zoom_out"
	ActionSelectTrendline Action = "select_trendline"
	ActionSelectRectangle Action = "select_rectangle"
	ActionSelectFibonacci Action = "select_fibonacci"
	ActionTimeframeUp     Action = "timeframe_up"
	ActionTimeframeDown   Action = "timeframe_down"
	ActionToggleVolume    Action = "toggle_volume"
	ActionToggleGrid      Action = "toggle_grid"
	ActionScreenshot      Action = "screenshot"
	ActionRefresh         Action = "refresh"
	ActionDeleteDrawing   Action = "delete_drawing"
	ActionClearDrawings   Action = "clear_drawings"
)

// Combo identifies a key press by its key and full modifier set.
// Lookup is exact: a binding on plain "g" does not fire for ctrl+g.
type Combo struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// ShortcutRegistry maps key combinations to named actions. A disabled
// registry keeps its bindings but dispatches nothing.
type ShortcutRegistry struct {
	mu       sync.RWMutex
	bindings map[Combo]Action
	enabled  bool
}

// NewShortcutRegistry creates an enabled registry with no bindings.
func NewShortcutRegistry() *ShortcutRegistry {
	return &ShortcutRegistry{
		bindings: make(map[Combo]Action),
		enabled:  true,
	}
}

// DefaultShortcuts returns a registry pre-populated with the standard
// chart bindings.
func DefaultShortcuts() *ShortcutRegistry {
	r := NewShortcutRegistry()

	r.Register(Combo{Key: "ArrowLeft"}, ActionPanLeft)
	r.Register(Combo{Key: "ArrowRight"}, ActionPanRight)
	r.Register(Combo{Key: "+"}, ActionZoomIn)
	r.Register(Combo{Key: "-"}, ActionZoomOut)
	r.Register(Combo{Key: "t"}, ActionSelectTrendline)
	r.Register(Combo{Key: "r"}, ActionSelectRectangle)
	r.Register(Combo{Key: "f"}, ActionSelectFibonacci)
	r.Register(Combo{Key: "ArrowUp", Shift: true}, ActionTimeframeUp)
	r.Register(Combo{Key: "ArrowDown", Shift: true}, ActionTimeframeDown)
	r.Register(Combo{Key: "v"}, ActionToggleVolume)
	r.Register(Combo{Key: "g"}, ActionToggleGrid)
	r.Register(Combo{Key: "s", Ctrl: true}, ActionScreenshot)
	r.Register(Combo{Key: "F5"}, ActionRefresh)
	r.Register(Combo{Key: "Delete"}, ActionDeleteDrawing)
	r.Register(Combo{Key: "Delete", Shift: true}, ActionClearDrawings)

	return r
}

// Register binds a combination to an action, replacing any previous
// binding on the same combination.
func (r *ShortcutRegistry) Register(combo Combo, action Action) {
	r.mu.Lock()
	r.bindings[combo] = action
	r.mu.Unlock()
}

// Unregister removes a binding.
func (r *ShortcutRegistry) Unregister(combo Combo) {
	r.mu.Lock()
	delete(r.bindings, combo)
	r.mu.Unlock()
}

// Enable turns dispatching on without touching the bindings.
func (r *ShortcutRegistry) Enable() {
	r.mu.Lock()
	r.enabled = true
	r.mu.Unlock()
}

// Disable gates dispatching; bindings stay registered.
func (r *ShortcutRegistry) Disable() {
	r.mu.Lock()
	r.enabled = false
	r.mu.Unlock()
}

// Enabled reports whether dispatching is active.
func (r *ShortcutRegistry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

// Dispatch resolves a key event to its action. The second return is
// false when the registry is disabled or no exact binding matches, in
// which case the event should pass through to the platform untouched.
func (r *ShortcutRegistry) Dispatch(ev KeyEvent) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.enabled {
		return "", false
	}

	action, ok := r.bindings[Combo{
		Key:   ev.Key,
		Ctrl:  ev.Ctrl,
		Alt:   ev.Alt,
		Shift: ev.Shift,
		Meta:  ev.Meta,
	}]
	return action, ok
}

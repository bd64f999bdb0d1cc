package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortcutRegistry_ExactMatch(t *testing.T) {
	r := DefaultShortcuts()

	action, ok := r.Dispatch(KeyEvent{Key: "ArrowLeft"})
	require.True(t, ok)
	assert.Equal(t, ActionPanLeft, action)

	// Modifiers must match exactly: ctrl+ArrowLeft is unbound.
	_, ok = r.Dispatch(KeyEvent{Key: "ArrowLeft", Ctrl: true})
	assert.False(t, ok)

	action, ok = r.Dispatch(KeyEvent{Key: "Delete", Shift: true})
	require.True(t, ok)
	assert.Equal(t, ActionClearDrawings, action)

	action, ok = r.Dispatch(KeyEvent{Key: "Delete"})
	require.True(t, ok)
	assert.Equal(t, ActionDeleteDrawing, action)
}

func TestShortcutRegistry_UnmatchedPassesThrough(t *testing.T) {
	r := DefaultShortcuts()

	action, ok := r.Dispatch(KeyEvent{Key: "q"})
	assert.False(t, ok)
	assert.Empty(t, action)
}

func TestShortcutRegistry_DisableKeepsBindings(t *testing.T) {
	r := DefaultShortcuts()

	r.Disable()
	assert.False(t, r.Enabled())

	_, ok := r.Dispatch(KeyEvent{Key: "ArrowLeft"})
	assert.False(t, ok)

	r.Enable()
	_, ok = r.Dispatch(KeyEvent{Key: "ArrowLeft"})
	assert.True(t, ok)
}

func TestShortcutRegistry_RegisterReplaces(t *testing.T) {
	r := NewShortcutRegistry()

	combo := Combo{Key: "x", Ctrl: true}
	r.Register(combo, ActionZoomIn)
	r.Register(combo, ActionZoomOut)

	action, ok := r.Dispatch(KeyEvent{Key: "x", Ctrl: true})
	require.True(t, ok)
	assert.Equal(t, ActionZoomOut, action)

	r.Unregister(combo)
	_, ok = r.Dispatch(KeyEvent{Key: "x", Ctrl: true})
	assert.False(t, ok)
}

// Package storage persists chart drawings between sessions, keyed by
// the backtest task and pair they were drawn on.
package storage

import "github.com/raykavin/chartview/pkg/drawing"

// DrawingStore saves and restores the serialized drawing list of one
// chart. Implementations exist for buntdb and SQL backends.
type DrawingStore interface {
	Save(taskID, pair string, objects []drawing.Object) error
	Load(taskID, pair string) ([]drawing.Object, error)
	Delete(taskID, pair string) error
	Close() error
}

package storage

import (
	"encoding/json"
	"fmt"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/drawing"
	"github.com/tidwall/buntdb"
)

// BuntStore implements DrawingStore using BuntDB.
type BuntStore struct {
	db *buntdb.DB
}

// FromMemory creates an in-memory drawing store.
func FromMemory() (DrawingStore, error) {
	return NewBuntStore(":memory:")
}

// FromFile creates a file-based drawing store.
func FromFile(file string) (DrawingStore, error) {
	return NewBuntStore(file)
}

// NewBuntStore creates a new BuntDB drawing store.
func NewBuntStore(sourceFile string) (DrawingStore, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	return &BuntStore{db: db}, nil
}

// Save stores the full drawing list for a chart, replacing any
// previous list.
func (b *BuntStore) Save(taskID, pair string, objects []drawing.Object) error {
	content, err := json.Marshal(objects)
	if err != nil {
		return fmt.Errorf("failed to marshal drawings: %w", err)
	}

	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key(taskID, pair), string(content), nil)
		return err
	})
}

// Load returns the stored drawing list, or core.ErrNotFound when the
// chart has none.
func (b *BuntStore) Load(taskID, pair string) ([]drawing.Object, error) {
	var raw string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key(taskID, pair))
		raw = v
		return err
	})
	if err == buntdb.ErrNotFound {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var objects []drawing.Object
	if err := json.Unmarshal([]byte(raw), &objects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawings: %w", err)
	}
	return objects, nil
}

// Delete removes the stored drawing list for a chart.
func (b *BuntStore) Delete(taskID, pair string) error {
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key(taskID, pair))
		return err
	})
	if err == buntdb.ErrNotFound {
		return nil
	}
	return err
}

// Close closes the database.
func (b *BuntStore) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func key(taskID, pair string) string {
	return fmt.Sprintf("drawings:%s:%s", taskID, pair)
}

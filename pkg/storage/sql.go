package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/raykavin/chartview/pkg/core"
	"github.com/raykavin/chartview/pkg/drawing"
	"gorm.io/gorm"
)

// drawingRecord is the SQL row holding one chart's serialized
// drawing list.
type drawingRecord struct {
	TaskID    string `gorm:"primaryKey"`
	Pair      string `gorm:"primaryKey"`
	Content   []byte
	UpdatedAt time.Time
}

// SQLStore implements DrawingStore using a SQL database via GORM.
type SQLStore struct {
	db *gorm.DB
}

// FromSQL creates a new SQL drawing store.
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (DrawingStore, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&drawingRecord{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Save stores the full drawing list for a chart, replacing any
// previous list.
func (s *SQLStore) Save(taskID, pair string, objects []drawing.Object) error {
	content, err := json.Marshal(objects)
	if err != nil {
		return fmt.Errorf("failed to marshal drawings: %w", err)
	}

	record := drawingRecord{TaskID: taskID, Pair: pair, Content: content}
	result := s.db.Save(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to save drawings: %w", result.Error)
	}
	return nil
}

// Load returns the stored drawing list, or core.ErrNotFound when the
// chart has none.
func (s *SQLStore) Load(taskID, pair string) ([]drawing.Object, error) {
	var record drawingRecord
	result := s.db.First(&record, "task_id = ? AND pair = ?", taskID, pair)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, core.ErrNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load drawings: %w", result.Error)
	}

	var objects []drawing.Object
	if err := json.Unmarshal(record.Content, &objects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drawings: %w", err)
	}
	return objects, nil
}

// Delete removes the stored drawing list for a chart.
func (s *SQLStore) Delete(taskID, pair string) error {
	result := s.db.Delete(&drawingRecord{}, "task_id = ? AND pair = ?", taskID, pair)
	return result.Error
}

// Close closes the underlying connection pool.
func (s *SQLStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted collection blob.
type Entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Blob      []byte    `gorm:"column:blob"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements the gorm table naming hook.
func (Entry) TableName() string {
	return "cache_entries"
}

// KVStore is the database-backed cache (sqlite file by default).
type KVStore struct {
	db *gorm.DB
}

// NewKVStore migrates the entries table and returns the store.
func NewKVStore(db *gorm.DB) (*KVStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating cache entries: %w", err)
	}
	return &KVStore{db: db}, nil
}

// Load returns the blob stored under key, nil when absent.
func (s *KVStore) Load(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cache entry %q: %w", key, err)
	}
	return entry.Blob, nil
}

// Save upserts the blob under key.
func (s *KVStore) Save(ctx context.Context, key string, blob []byte) error {
	entry := Entry{Key: key, Blob: blob}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"blob", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("saving cache entry %q: %w", key, err)
	}
	return nil
}

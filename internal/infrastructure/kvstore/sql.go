package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storefront/cart/internal/domain/shared"
)

// EntryModel is the GORM model backing SQLStore
type EntryModel struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:255"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "kv_entries"
}

// SQLStore implements KeyValueStore on a single GORM table. Works with the
// sqlite and postgres drivers.
type SQLStore struct {
	db        *gorm.DB
	keyPrefix string
}

// NewSQLStore creates a store on db. The table must exist; see Migrate.
func NewSQLStore(db *gorm.DB, keyPrefix string) *SQLStore {
	return &SQLStore{db: db, keyPrefix: keyPrefix}
}

// Migrate creates or updates the key-value table
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&EntryModel{}); err != nil {
		return fmt.Errorf("failed to migrate kv table: %w", err)
	}
	return nil
}

// Get returns the value stored under key
func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry EntryModel
	err := s.db.WithContext(ctx).
		Where("entry_key = ?", s.keyPrefix+key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set upserts value under key
func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	entry := EntryModel{Key: s.keyPrefix + key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("entry_key = ?", s.keyPrefix+key).
		Delete(&EntryModel{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller
func (s *SQLStore) Close() error {
	return nil
}

var _ shared.KeyValueStore = (*SQLStore)(nil)

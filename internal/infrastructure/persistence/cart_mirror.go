package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/shared"
)

// CartMirror keeps one JSON snapshot of the cart under a fixed key
type CartMirror struct {
	store  shared.KeyValueStore
	key    string
	logger *zap.Logger
}

// NewCartMirror creates a mirror writing to key in store
func NewCartMirror(store shared.KeyValueStore, key string, logger *zap.Logger) *CartMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartMirror{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Save replaces the snapshot with items
func (m *CartMirror) Save(ctx context.Context, items []cart.LineItem) error {
	if items == nil {
		items = []cart.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when nothing usable is stored.
// A malformed snapshot is logged and deleted.
func (m *CartMirror) Load(ctx context.Context) ([]cart.StoredItem, error) {
	data, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart snapshot: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}

	var items []cart.StoredItem
	if err := json.Unmarshal(data, &items); err != nil {
		m.logger.Warn("discarding corrupt cart snapshot",
			zap.String("key", m.key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		if delErr := m.store.Delete(ctx, m.key); delErr != nil {
			m.logger.Warn("failed to delete corrupt cart snapshot", zap.Error(delErr))
		}
		return nil, nil
	}
	return items, nil
}

// Clear removes the snapshot
func (m *CartMirror) Clear(ctx context.Context) error {
	if err := m.store.Delete(ctx, m.key); err != nil {
		return fmt.Errorf("failed to clear cart snapshot: %w", err)
	}
	return nil
}

var _ cart.Mirror = (*CartMirror)(nil)

package cart

import (
	"context"
	"encoding/json"
)

// ListResponse is the remote list result. Data is either a bare array of
// server cart records or an object exposing a named array field.
type ListResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// AddRequest asks the remote cart to add quantity of a variant
type AddRequest struct {
	ProductVariantID string `json:"productVariantId"`
	Quantity         int    `json:"quantity"`
}

// UpdateRequest sets the remote quantity of a variant
type UpdateRequest struct {
	Quantity int     `json:"quantity"`
	ColorID  *string `json:"colorId,omitempty"`
}

// Gateway is the authoritative server-side cart. It is consumed here and
// implemented by the backend client layer.
type Gateway interface {
	List(ctx context.Context) (*ListResponse, error)
	Add(ctx context.Context, req AddRequest) error
	Update(ctx context.Context, productVariantID string, req UpdateRequest) error
	RemoveByID(ctx context.Context, lineItemID string) error
	Clear(ctx context.Context) error
}

// Mirror is the durable local copy of the cart.
// Load returns nil, nil when nothing usable is stored.
type Mirror interface {
	Save(ctx context.Context, items []LineItem) error
	Load(ctx context.Context) ([]StoredItem, error)
	Clear(ctx context.Context) error
}

// Recorder receives cart activity for metrics
type Recorder interface {
	ItemAdded(ctx context.Context, suppressed bool)
	SyncFailed(ctx context.Context, operation string)
	Hydrated(ctx context.Context, source string, dropped int)
	RemoveFailed(ctx context.Context)
}

// NopRecorder discards all activity
type NopRecorder struct{}

func (NopRecorder) ItemAdded(context.Context, bool) {}
func (NopRecorder) SyncFailed(context.Context, string) {}
func (NopRecorder) Hydrated(context.Context, string, int) {}
func (NopRecorder) RemoveFailed(context.Context) {}

var _ Recorder = NopRecorder{}

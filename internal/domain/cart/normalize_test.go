package cart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRemote_Shapes(t *testing.T) {
	record := `{"id":"ci-1","productVariantId":"v1","name":"Shirt","price":12.5,"quantity":2}`

	tests := []struct {
		name    string
		payload string
	}{
		{name: "bare array", payload: `[` + record + `]`},
		{name: "items field", payload: `{"items":[` + record + `]}`},
		{name: "cartItems field", payload: `{"cartItems":[` + record + `]}`},
		{name: "cart_items field", payload: `{"cart_items":[` + record + `]}`},
		{name: "data field", payload: `{"data":[` + record + `]}`},
		{name: "nested cart", payload: `{"cart":{"id":"c1","items":[` + record + `]}}`},
		{name: "nested data envelope", payload: `{"data":{"cartItems":[` + record + `]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeRemote(json.RawMessage(tt.payload), testNow)
			require.NoError(t, err)
			require.Len(t, result.Items, 1)
			assert.Equal(t, "ci-1", result.Items[0].ID)
			assert.Equal(t, "v1", result.Items[0].Product.Ref)
			assert.Equal(t, 2, result.Items[0].Quantity)
		})
	}
}

func TestNormalizeRemote_EmptyAndInvalid(t *testing.T) {
	t.Run("null payload", func(t *testing.T) {
		result, err := NormalizeRemote(json.RawMessage(`null`), testNow)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("empty array", func(t *testing.T) {
		result, err := NormalizeRemote(json.RawMessage(`[]`), testNow)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("unknown object", func(t *testing.T) {
		_, err := NormalizeRemote(json.RawMessage(`{"total": 3}`), testNow)
		assert.ErrorIs(t, err, ErrUnrecognizedPayload)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := NormalizeRemote(json.RawMessage(`{"items": [`), testNow)
		assert.Error(t, err)
	})
}

func TestNormalizeRemote_FieldAliases(t *testing.T) {
	payload := `[
		{
			"cartItemId": "ci-9",
			"product": {"id": "p-9", "name": "Lamp", "price": "1.299.000đ", "image": "lamp.png", "storeId": 44},
			"compareAtPrice": "1.500.000đ",
			"qty": "3",
			"options": {"color": "white", "wattage": 40},
			"created_at": 1710408600000
		}
	]`

	result, err := NormalizeRemote(json.RawMessage(payload), testNow)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, "ci-9", item.ID)
	assert.Equal(t, "p-9", item.Product.Ref)
	assert.Equal(t, "Lamp", item.Product.Name)
	assert.Equal(t, "lamp.png", item.Product.Image)
	assert.Equal(t, "44", item.Product.SellerRef)
	assert.Equal(t, "1299000.00", item.Product.Price.String())
	require.NotNil(t, item.Product.OriginalPrice)
	assert.Equal(t, "1500000.00", item.Product.OriginalPrice.String())
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, Options{"color": "white", "wattage": "40"}, item.Options)
	assert.True(t, item.Selected)
	assert.Equal(t, time.UnixMilli(1710408600000).UTC(), item.AddedAt)
}

func TestNormalizeRemote_Defaults(t *testing.T) {
	payload := `[{"name": "Gift card", "createdAt": "not a date"}]`

	result, err := NormalizeRemote(json.RawMessage(payload), testNow)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, "Gift card", item.Product.Ref, "ref falls back to name")
	assert.Equal(t, "Gift card-no-options", item.ID, "id falls back to identity key")
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.Product.Price.IsZero())
	assert.Nil(t, item.Product.OriginalPrice)
	assert.Equal(t, testNow, item.AddedAt)
}

func TestNormalizeRemote_DropsRecords(t *testing.T) {
	payload := `{"items": [
		{"id": "ok", "variantId": "v1", "quantity": 1},
		{"id": "gone", "variantId": "v2", "quantity": 1, "status": "DELETED"},
		{"id": "nothing", "quantity": 1},
		{"id": "zero", "variantId": "v3", "quantity": 0},
		"junk",
		{"id": "active", "variantId": "v4", "quantity": 1, "status": "active"},
		{"id": "bad-qty", "variantId": "v5", "quantity": "abc"},
		{"id": "null-qty", "variantId": "v6", "quantity": null}
	]}`

	result, err := NormalizeRemote(json.RawMessage(payload), testNow)
	require.NoError(t, err)

	require.Len(t, result.Items, 3)
	assert.Equal(t, "ok", result.Items[0].ID)
	assert.Equal(t, "active", result.Items[1].ID)
	assert.Equal(t, "null-qty", result.Items[2].ID)
	assert.Equal(t, 1, result.Items[2].Quantity)

	require.Len(t, result.Dropped, 5)
	assert.Equal(t, DroppedRecord{Index: 1, Reason: "status deleted"}, result.Dropped[0])
	assert.Equal(t, 2, result.Dropped[1].Index)
	assert.Equal(t, 3, result.Dropped[2].Index)
	assert.Equal(t, 4, result.Dropped[3].Index)
	assert.Equal(t, DroppedRecord{Index: 6, Reason: "unparseable quantity"}, result.Dropped[4])
}

func TestNormalizeRemote_MergesDuplicateKeys(t *testing.T) {
	payload := `[
		{"id": "first", "variantId": "v1", "quantity": 2, "options": {"size": "L"}},
		{"id": "second", "variantId": "v1", "quantity": 1, "options": {"size": "L"}},
		{"id": "third", "variantId": "v1", "quantity": 1, "options": {"size": "S"}}
	]`

	result, err := NormalizeRemote(json.RawMessage(payload), testNow)
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "first", result.Items[0].ID)
	assert.Equal(t, 3, result.Items[0].Quantity)
	assert.Equal(t, "third", result.Items[1].ID)
}

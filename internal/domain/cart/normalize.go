package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/cart/internal/domain/shared/valueobject"
)

// ErrUnrecognizedPayload is returned when a list payload is neither an array
// nor an object exposing a known collection field
var ErrUnrecognizedPayload = errors.New("cart: unrecognized remote cart payload")

// collectionFields are probed in order on an object payload
var collectionFields = []string{"items", "cartItems", "cart_items", "data", "cart"}

// rejectedStatuses mark server records that are no longer part of the cart.
// A record without a status is trusted.
var rejectedStatuses = map[string]bool{
	"deleted":   true,
	"removed":   true,
	"rejected":  true,
	"invalid":   true,
	"inactive":  true,
	"expired":   true,
	"cancelled": true,
	"canceled":  true,
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DroppedRecord describes a server record left out of the normalized collection
type DroppedRecord struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// NormalizeResult is the canonical collection built from a remote payload
type NormalizeResult struct {
	Items   Items
	Dropped []DroppedRecord
}

// NormalizeRemote decodes a remote list payload into canonical line items.
// Malformed individual records are dropped and reported; only an unreadable
// payload as a whole returns an error.
func NormalizeRemote(data json.RawMessage, now time.Time) (NormalizeResult, error) {
	var result NormalizeResult
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return result, nil
	}

	var payload any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return result, fmt.Errorf("decode remote cart payload: %w", err)
	}

	records, ok := extractRecords(payload, 0)
	if !ok {
		return result, ErrUnrecognizedPayload
	}

	for i, raw := range records {
		record, isObject := raw.(map[string]any)
		if !isObject {
			result.Dropped = append(result.Dropped, DroppedRecord{Index: i, Reason: "record is not an object"})
			continue
		}
		item, reason := normalizeRecord(record, now)
		if reason != "" {
			result.Dropped = append(result.Dropped, DroppedRecord{Index: i, Reason: reason})
			continue
		}
		result.Items = result.Items.merge(item)
	}
	return result, nil
}

func extractRecords(payload any, depth int) ([]any, bool) {
	switch v := payload.(type) {
	case nil:
		return nil, true
	case []any:
		return v, true
	case map[string]any:
		if depth > 2 {
			return nil, false
		}
		for _, field := range collectionFields {
			nested, ok := v[field]
			if !ok {
				continue
			}
			if records, ok := extractRecords(nested, depth+1); ok {
				return records, true
			}
		}
	}
	return nil, false
}

func normalizeRecord(m map[string]any, now time.Time) (LineItem, string) {
	if status := strings.ToLower(firstString(m, "status", "state")); rejectedStatuses[status] {
		return LineItem{}, "status " + status
	}

	variantID := firstString(m, "productVariantId", "product_variant_id", "variantId", "variant_id",
		"variant.id", "productVariant.id", "product.id")
	name := firstString(m, "name", "productName", "product_name", "product.name", "variant.name")
	if variantID == "" && name == "" {
		return LineItem{}, "missing variant id and name"
	}

	quantity := 1
	if q, found := firstInt(m, "quantity", "qty"); found {
		quantity = q
	} else if present(m, "quantity", "qty") {
		return LineItem{}, "unparseable quantity"
	}
	if quantity <= 0 {
		return LineItem{}, "non-positive quantity"
	}

	id := firstString(m, "id", "cartItemId", "cart_item_id", "_id")
	ref := variantID
	if ref == "" {
		ref = id
	}
	if ref == "" {
		ref = name
	}

	price, _ := firstMoney(m, "price", "unitPrice", "unit_price", "product.price", "variant.price")
	product := ProductSnapshot{
		Ref:       ref,
		Name:      name,
		Image:     firstString(m, "image", "imageUrl", "image_url", "product.image", "variant.image"),
		Price:     price,
		SellerRef: firstString(m, "sellerRef", "sellerId", "seller_id", "storeId", "store_id", "product.sellerId", "product.storeId"),
	}
	if original, ok := firstMoney(m, "originalPrice", "original_price", "compareAtPrice", "product.originalPrice"); ok {
		product.OriginalPrice = &original
	}

	var options Options
	if raw, ok := lookup(m, "options").(map[string]any); ok {
		options = OptionsFrom(raw)
	}

	addedAt := now
	if t, ok := firstTime(m, "createdAt", "created_at", "addedAt"); ok {
		addedAt = t
	}

	item := LineItem{
		ID:       id,
		Product:  product,
		Options:  options,
		Quantity: quantity,
		Selected: true,
		AddedAt:  addedAt,
	}
	if item.ID == "" {
		item.ID = item.Key()
	}
	return item, ""
}

// lookup resolves a dotted path through nested objects
func lookup(m map[string]any, path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = obj[part]
		if !ok {
			return nil
		}
	}
	return cur
}

// present reports whether any path holds a non-null value
func present(m map[string]any, paths ...string) bool {
	for _, p := range paths {
		if lookup(m, p) != nil {
			return true
		}
	}
	return false
}

func firstString(m map[string]any, paths ...string) string {
	for _, p := range paths {
		switch v := lookup(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstInt(m map[string]any, paths ...string) (int, bool) {
	for _, p := range paths {
		switch v := lookup(m, p).(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n), true
			}
			if f, err := v.Float64(); err == nil {
				return int(f), true
			}
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func firstMoney(m map[string]any, paths ...string) (valueobject.Money, bool) {
	for _, p := range paths {
		if money, ok := valueobject.ParseMoney(lookup(m, p)); ok {
			return money, true
		}
	}
	return valueobject.Zero(), false
}

func firstTime(m map[string]any, paths ...string) (time.Time, bool) {
	for _, p := range paths {
		switch v := lookup(m, p).(type) {
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t, true
				}
			}
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				continue
			}
			// values past 1e12 are unix milliseconds
			if n > 1e12 {
				return time.UnixMilli(n).UTC(), true
			}
			return time.Unix(n, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

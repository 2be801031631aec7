package cart

import (
	"time"

	"github.com/storefront/cart/internal/domain/shared/valueobject"
)

// ProductSnapshot is the denormalized product data captured at add time so the
// cart renders without refetching the catalog.
type ProductSnapshot struct {
	// Ref identifies the purchasable entity (a specific product variant)
	Ref           string             `json:"productRef"`
	Name          string             `json:"name"`
	Image         string             `json:"image,omitempty"`
	Price         valueobject.Money  `json:"price"`
	OriginalPrice *valueobject.Money `json:"originalPrice,omitempty"`
	SellerRef     string             `json:"sellerRef,omitempty"`
}

// LineItem is one row in the cart
type LineItem struct {
	// ID is either the server cart-entry id or, in guest mode, the identity key
	ID       string          `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Options  Options         `json:"options,omitempty"`
	Quantity int             `json:"quantity"`
	Selected bool            `json:"selected"`
	AddedAt  time.Time       `json:"addedAt"`
}

// Key returns the identity key of the item
func (li LineItem) Key() string {
	return IdentityKey(li.Product.Ref, li.Options)
}

// Subtotal returns quantity × unit price
func (li LineItem) Subtotal() valueobject.Money {
	return li.Product.Price.MultiplyByInt(int64(li.Quantity))
}

// Savings returns quantity × max(0, original − unit) or zero without an original price
func (li LineItem) Savings() valueobject.Money {
	if li.Product.OriginalPrice == nil {
		return valueobject.Zero()
	}
	perUnit := li.Product.OriginalPrice.Subtract(li.Product.Price).NonNegative()
	return perUnit.MultiplyByInt(int64(li.Quantity))
}

// StoredItem is a LineItem as read back from the local mirror. Older snapshots
// may lack the selection flag or the creation time.
type StoredItem struct {
	ID       string          `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Options  Options         `json:"options,omitempty"`
	Quantity int             `json:"quantity"`
	Selected *bool           `json:"selected,omitempty"`
	AddedAt  *time.Time      `json:"addedAt,omitempty"`
}

// RestoreItems converts mirror records into line items: a missing selection
// flag becomes true, a missing timestamp becomes now, and entries without a
// product ref or with a non-positive quantity are discarded. Entries sharing
// an identity key are merged.
func RestoreItems(stored []StoredItem, now time.Time) Items {
	var items Items
	for _, s := range stored {
		if s.Product.Ref == "" || s.Quantity <= 0 {
			continue
		}
		item := LineItem{
			ID:       s.ID,
			Product:  s.Product,
			Options:  s.Options.Clone(),
			Quantity: s.Quantity,
			Selected: true,
			AddedAt:  now,
		}
		if s.Selected != nil {
			item.Selected = *s.Selected
		}
		if s.AddedAt != nil && !s.AddedAt.IsZero() {
			item.AddedAt = *s.AddedAt
		}
		if item.ID == "" {
			item.ID = item.Key()
		}
		items = items.merge(item)
	}
	return items
}

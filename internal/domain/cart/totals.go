package cart

import "github.com/storefront/cart/internal/domain/shared/valueobject"

// Totals are read-side projections recomputed from the collection on every read
type Totals struct {
	TotalItems           int               `json:"totalItems"`
	TotalPrice           valueobject.Money `json:"totalPrice"`
	TotalSavings         valueobject.Money `json:"totalSavings"`
	SelectedTotalItems   int               `json:"selectedTotalItems"`
	SelectedTotalPrice   valueobject.Money `json:"selectedTotalPrice"`
	SelectedTotalSavings valueobject.Money `json:"selectedTotalSavings"`
}

// Summarize computes totals over all items and over selected items only
func Summarize(items []LineItem) Totals {
	t := Totals{
		TotalPrice:           valueobject.Zero(),
		TotalSavings:         valueobject.Zero(),
		SelectedTotalPrice:   valueobject.Zero(),
		SelectedTotalSavings: valueobject.Zero(),
	}
	for _, it := range items {
		subtotal := it.Subtotal()
		savings := it.Savings()

		t.TotalItems += it.Quantity
		t.TotalPrice = t.TotalPrice.Add(subtotal)
		t.TotalSavings = t.TotalSavings.Add(savings)

		if it.Selected {
			t.SelectedTotalItems += it.Quantity
			t.SelectedTotalPrice = t.SelectedTotalPrice.Add(subtotal)
			t.SelectedTotalSavings = t.SelectedTotalSavings.Add(savings)
		}
	}
	return t
}

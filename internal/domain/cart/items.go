package cart

import "time"

// Items is the canonical line-item collection. Every transition returns a new
// collection and leaves the receiver untouched, so a reader holding an older
// Items value never observes a half-applied change.
type Items []LineItem

// Clone returns a copy whose option maps are independent of the receiver
func (items Items) Clone() Items {
	if items == nil {
		return nil
	}
	out := make(Items, len(items))
	for i, it := range items {
		it.Options = it.Options.Clone()
		out[i] = it
	}
	return out
}

// Find returns the item with the given id
func (items Items) Find(id string) (LineItem, bool) {
	if i := items.indexOf(id); i >= 0 {
		return items[i], true
	}
	return LineItem{}, false
}

// FindByKey returns the item with the given identity key
func (items Items) FindByKey(key string) (LineItem, bool) {
	if i := items.indexOfKey(key); i >= 0 {
		return items[i], true
	}
	return LineItem{}, false
}

// FindByRef returns the only item for a product ref. It reports false when
// no item or more than one item carries the ref.
func (items Items) FindByRef(ref string) (LineItem, bool) {
	var (
		found LineItem
		n     int
	)
	for _, it := range items {
		if it.Product.Ref == ref {
			found = it
			n++
		}
	}
	return found, n == 1
}

// Accumulate adds quantity to the item sharing the product/options identity,
// or appends a new selected item keyed by that identity.
func (items Items) Accumulate(product ProductSnapshot, options Options, quantity int, now time.Time) (Items, LineItem) {
	key := IdentityKey(product.Ref, options)
	next := items.copy()
	if i := next.indexOfKey(key); i >= 0 {
		next[i].Quantity += quantity
		return next, next[i]
	}
	item := LineItem{
		ID:       key,
		Product:  product,
		Options:  options.Clone(),
		Quantity: quantity,
		Selected: true,
		AddedAt:  now,
	}
	return append(next, item), item
}

// WithQuantity sets the quantity of item id. A quantity <= 0 removes the item.
func (items Items) WithQuantity(id string, quantity int) (Items, bool) {
	if quantity <= 0 {
		return items.Without(id)
	}
	i := items.indexOf(id)
	if i < 0 {
		return items, false
	}
	next := items.copy()
	next[i].Quantity = quantity
	return next, true
}

// Without drops item id
func (items Items) Without(id string) (Items, bool) {
	i := items.indexOf(id)
	if i < 0 {
		return items, false
	}
	next := make(Items, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	return next, true
}

// WithSelected sets the selection flag of item id
func (items Items) WithSelected(id string, selected bool) (Items, bool) {
	i := items.indexOf(id)
	if i < 0 {
		return items, false
	}
	next := items.copy()
	next[i].Selected = selected
	return next, true
}

// Toggled flips the selection flag of item id
func (items Items) Toggled(id string) (Items, bool) {
	i := items.indexOf(id)
	if i < 0 {
		return items, false
	}
	return items.WithSelected(id, !items[i].Selected)
}

// AllSelected sets the selection flag of every item
func (items Items) AllSelected(selected bool) Items {
	next := items.copy()
	for i := range next {
		next[i].Selected = selected
	}
	return next
}

// PartitionSelected splits the collection into unselected (kept) and selected (removed) items
func (items Items) PartitionSelected() (kept Items, removed Items) {
	for _, it := range items {
		if it.Selected {
			removed = append(removed, it)
		} else {
			kept = append(kept, it)
		}
	}
	return kept, removed
}

// CarrySelection copies selection flags from prev onto matching items,
// matched by id first and identity key second. Items without a match keep
// their own flag.
func (items Items) CarrySelection(prev Items) Items {
	if len(prev) == 0 || len(items) == 0 {
		return items
	}
	next := items.copy()
	for i := range next {
		if old, ok := prev.Find(next[i].ID); ok {
			next[i].Selected = old.Selected
			continue
		}
		if old, ok := prev.FindByKey(next[i].Key()); ok {
			next[i].Selected = old.Selected
		}
	}
	return next
}

// merge folds item into the collection, summing quantities for a shared
// identity key and keeping the first id seen.
func (items Items) merge(item LineItem) Items {
	if i := items.indexOfKey(item.Key()); i >= 0 {
		items[i].Quantity += item.Quantity
		return items
	}
	return append(items, item)
}

func (items Items) copy() Items {
	next := make(Items, len(items), len(items)+1)
	copy(next, items)
	return next
}

func (items Items) indexOf(id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func (items Items) indexOfKey(key string) int {
	for i := range items {
		if items[i].Key() == key {
			return i
		}
	}
	return -1
}

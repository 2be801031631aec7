package dto

import (
	"time"

	appcart "github.com/storefront/cart/internal/application/cart"
	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared/valueobject"
)

// AddItemRequest adds a product to the cart. Quantity defaults to 1.
type AddItemRequest struct {
	ProductRef    string             `json:"productRef" binding:"required,max=128"`
	Name          string             `json:"name" binding:"max=256"`
	Image         string             `json:"image" binding:"omitempty,max=2048"`
	Price         valueobject.Money  `json:"price"`
	OriginalPrice *valueobject.Money `json:"originalPrice"`
	SellerRef     string             `json:"sellerRef" binding:"max=128"`
	Quantity      int                `json:"quantity" binding:"omitempty,min=1,max=9999"`
	Options       map[string]any     `json:"options"`
}

// ToInput converts the request into a store add
func (r AddItemRequest) ToInput() appcart.AddInput {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return appcart.AddInput{
		Product: cart.ProductSnapshot{
			Ref:           r.ProductRef,
			Name:          r.Name,
			Image:         r.Image,
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
			SellerRef:     r.SellerRef,
		},
		Quantity: quantity,
		Options:  cart.OptionsFrom(r.Options),
	}
}

// UpdateQuantityRequest sets an item quantity; 0 removes the item
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0,max=9999"`
}

// SelectionRequest sets the selection flag of one item or of the whole cart
type SelectionRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// SessionRequest installs a session credential
type SessionRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// LineItemResponse is one cart row
type LineItemResponse struct {
	ID            string             `json:"id"`
	Key           string             `json:"key"`
	ProductRef    string             `json:"productRef"`
	Name          string             `json:"name"`
	Image         string             `json:"image,omitempty"`
	Price         valueobject.Money  `json:"price"`
	OriginalPrice *valueobject.Money `json:"originalPrice,omitempty"`
	SellerRef     string             `json:"sellerRef,omitempty"`
	Options       cart.Options       `json:"options,omitempty"`
	Quantity      int                `json:"quantity"`
	Selected      bool               `json:"selected"`
	Subtotal      valueobject.Money  `json:"subtotal"`
	AddedAt       time.Time          `json:"addedAt"`
}

// NewLineItemResponse converts a line item
func NewLineItemResponse(item cart.LineItem) LineItemResponse {
	return LineItemResponse{
		ID:            item.ID,
		Key:           item.Key(),
		ProductRef:    item.Product.Ref,
		Name:          item.Product.Name,
		Image:         item.Product.Image,
		Price:         item.Product.Price,
		OriginalPrice: item.Product.OriginalPrice,
		SellerRef:     item.Product.SellerRef,
		Options:       item.Options,
		Quantity:      item.Quantity,
		Selected:      item.Selected,
		Subtotal:      item.Subtotal(),
		AddedAt:       item.AddedAt,
	}
}

// NewLineItemResponses converts a collection, never returning nil
func NewLineItemResponses(items cart.Items) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewLineItemResponse(item))
	}
	return out
}

// CartResponse is the full cart view
type CartResponse struct {
	Items         []LineItemResponse `json:"items"`
	Totals        cart.Totals        `json:"totals"`
	Hydrated      bool               `json:"hydrated"`
	Authenticated bool               `json:"authenticated"`
}

// AddItemResponse reports the item after an add
type AddItemResponse struct {
	Item       LineItemResponse `json:"item"`
	Suppressed bool             `json:"suppressed"`
}

// HydrateResponse reports a completed hydration
type HydrateResponse struct {
	Source      string `json:"source"`
	Count       int    `json:"count"`
	Dropped     int    `json:"dropped"`
	RemoteError string `json:"remoteError,omitempty"`
}

// NewHydrateResponse converts a store hydration result
func NewHydrateResponse(res appcart.HydrateResult) HydrateResponse {
	out := HydrateResponse{
		Source:  res.Source,
		Count:   res.Count,
		Dropped: res.Dropped,
	}
	if res.RemoteErr != nil {
		out.RemoteError = res.RemoteErr.Error()
	}
	return out
}

// SessionResponse describes the identity the cart is bound to
type SessionResponse struct {
	Authenticated bool     `json:"authenticated"`
	UserID        string   `json:"userId,omitempty"`
	Username      string   `json:"username,omitempty"`
	Roles         []string `json:"roles,omitempty"`
}

// NewSessionResponse converts an identity without exposing its credential
func NewSessionResponse(ident identity.Identity) SessionResponse {
	return SessionResponse{
		Authenticated: ident.Authenticated(),
		UserID:        ident.UserID,
		Username:      ident.Username,
		Roles:         ident.Roles,
	}
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appcart "github.com/storefront/cart/internal/application/cart"
	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/interfaces/http/dto"
)

// CartStore is the cart engine behind the API
type CartStore interface {
	Hydrate(ctx context.Context) appcart.HydrateResult
	Add(ctx context.Context, in appcart.AddInput) (*appcart.AddResult, error)
	SetQuantity(ctx context.Context, id string, quantity int) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context)
	Toggle(ctx context.Context, id string) (cart.LineItem, error)
	SetSelected(ctx context.Context, id string, selected bool) (cart.LineItem, error)
	SelectAll(ctx context.Context, selected bool)
	RemoveSelected(ctx context.Context) cart.Items
	View() appcart.View
}

// CartHandler exposes the session cart over HTTP
type CartHandler struct {
	BaseHandler
	store CartStore
}

// NewCartHandler creates a CartHandler
func NewCartHandler(store CartStore) *CartHandler {
	return &CartHandler{store: store}
}

// RegisterRoutes registers the cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	c := rg.Group("/cart")
	c.GET("", h.GetCart)
	c.DELETE("", h.Clear)
	c.GET("/totals", h.GetTotals)
	c.POST("/hydrate", h.Hydrate)
	c.PUT("/selection", h.SelectAll)
	c.DELETE("/selected", h.RemoveSelected)
	c.POST("/items", h.AddItem)
	c.PATCH("/items/:id", h.UpdateQuantity)
	c.DELETE("/items/:id", h.RemoveItem)
	c.POST("/items/:id/toggle", h.Toggle)
	c.PUT("/items/:id/selected", h.SetSelected)
}

// GetCart returns items and totals
func (h *CartHandler) GetCart(c *gin.Context) {
	h.Success(c, h.view())
}

// GetTotals returns the derived aggregates only
func (h *CartHandler) GetTotals(c *gin.Context) {
	h.Success(c, h.store.View().Totals)
}

// AddItem adds a product. A duplicate add inside the dedup window still
// answers 201 with suppressed set.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	res, err := h.store.Add(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dto.AddItemResponse{
		Item:       dto.NewLineItemResponse(res.Item),
		Suppressed: res.Suppressed,
	})
}

// UpdateQuantity sets an item quantity; 0 removes the item
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.store.SetQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.view())
}

// RemoveItem drops an item. For a signed-in session a remote rejection
// answers 502 and leaves the cart unchanged.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, h.view())
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	h.store.Clear(c.Request.Context())
	h.Success(c, h.view())
}

// Toggle flips the selection of an item
func (h *CartHandler) Toggle(c *gin.Context) {
	item, err := h.store.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewLineItemResponse(item))
}

// SetSelected sets the selection of an item
func (h *CartHandler) SetSelected(c *gin.Context) {
	var req dto.SelectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.store.SetSelected(c.Request.Context(), c.Param("id"), *req.Selected)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewLineItemResponse(item))
}

// SelectAll sets the selection of every item
func (h *CartHandler) SelectAll(c *gin.Context) {
	var req dto.SelectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.store.SelectAll(c.Request.Context(), *req.Selected)
	h.Success(c, h.view())
}

// RemoveSelected drops the selected items after checkout and returns them
func (h *CartHandler) RemoveSelected(c *gin.Context) {
	removed := h.store.RemoveSelected(c.Request.Context())
	h.Success(c, gin.H{
		"removed": dto.NewLineItemResponses(removed),
		"cart":    h.view(),
	})
}

// Hydrate reloads the cart from the remote cart or the local mirror
func (h *CartHandler) Hydrate(c *gin.Context) {
	res := h.store.Hydrate(c.Request.Context())
	h.Success(c, dto.NewHydrateResponse(res))
}

func (h *CartHandler) view() dto.CartResponse {
	v := h.store.View()
	return dto.CartResponse{
		Items:         dto.NewLineItemResponses(v.Items),
		Totals:        v.Totals,
		Hydrated:      v.Hydrated,
		Authenticated: v.Identity.Authenticated(),
	}
}

var _ CartStore = (*appcart.Store)(nil)

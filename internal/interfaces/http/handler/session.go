package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/infrastructure/logger"
	"github.com/storefront/cart/internal/interfaces/http/dto"
)

// CredentialSlot holds the session credential and announces its changes
type CredentialSlot interface {
	Credential(ctx context.Context) (string, error)
	Store(ctx context.Context, credential, userID string) error
	Logout(ctx context.Context, userID string) error
}

// CredentialRevoker invalidates a credential before it expires
type CredentialRevoker interface {
	Revoke(ctx context.Context, credential string) error
}

// SessionHandler signs the cart session in and out. The cart itself reacts
// to the identity signals the credential slot publishes.
type SessionHandler struct {
	BaseHandler
	slot     CredentialSlot
	resolver identity.Resolver
	revoker  CredentialRevoker
	current  func() identity.Identity
}

// NewSessionHandler creates a SessionHandler. revoker may be nil.
func NewSessionHandler(slot CredentialSlot, resolver identity.Resolver, revoker CredentialRevoker, current func() identity.Identity) *SessionHandler {
	return &SessionHandler{
		slot:     slot,
		resolver: resolver,
		revoker:  revoker,
		current:  current,
	}
}

// RegisterRoutes registers the session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.GetSession)
	rg.POST("/session", h.SignIn)
	rg.DELETE("/session", h.SignOut)
}

// GetSession returns the identity the cart is bound to
func (h *SessionHandler) GetSession(c *gin.Context) {
	h.Success(c, dto.NewSessionResponse(h.current()))
}

// SignIn validates and stores a credential. An invalid credential answers
// 401 and leaves the slot untouched.
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req dto.SessionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	ident, err := h.resolver.Resolve(ctx, req.Credential)
	if err != nil {
		logger.L(ctx).Info("rejected session credential", zap.Error(err))
		h.Error(c, dto.ErrCodeUnauthorized, "invalid credential")
		return
	}
	if err := h.slot.Store(ctx, req.Credential, ident.UserID); err != nil {
		h.HandleError(c, err)
		return
	}
	ident.Credential = req.Credential
	h.Success(c, dto.NewSessionResponse(ident))
}

// SignOut revokes the stored credential and logs the session out
func (h *SessionHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()

	credential, err := h.slot.Credential(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if credential != "" && h.revoker != nil {
		if err := h.revoker.Revoke(ctx, credential); err != nil {
			logger.L(ctx).Warn("failed to revoke credential", zap.Error(err))
		}
	}
	if err := h.slot.Logout(ctx, h.current().UserID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

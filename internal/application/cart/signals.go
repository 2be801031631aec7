package cart

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared"
)

// IdentitySignalHandler keeps a Store bound to the current session identity.
// Logout and credential removal tear the cart down; any other identity change
// triggers a full re-hydrate.
type IdentitySignalHandler struct {
	store  *Store
	logger *zap.Logger
}

// NewIdentitySignalHandler creates a handler for identity signal events
func NewIdentitySignalHandler(store *Store, logger *zap.Logger) *IdentitySignalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentitySignalHandler{
		store:  store,
		logger: logger,
	}
}

// EventTypes returns the identity signal event types
func (h *IdentitySignalHandler) EventTypes() []string {
	return identity.SignalEventTypes()
}

// Handle applies an identity signal to the store
func (h *IdentitySignalHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.EventType() {
	case identity.EventTypeLoggedOut, identity.EventTypeCredentialRemoved:
		h.logger.Info("identity signal received, tearing down cart",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
		h.store.Teardown(ctx)
	case identity.EventTypeChanged:
		h.logger.Info("identity changed, re-hydrating cart",
			zap.String("event_id", event.EventID().String()),
		)
		h.store.Hydrate(ctx)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*IdentitySignalHandler)(nil)

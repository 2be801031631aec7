package identity

import (
	"github.com/storefront/cart/internal/domain/shared"
)

// Identity signal event types. These are the only identity changes the cart
// reacts to; they may originate in this process or arrive from another
// browsing context through the signal channel.
const (
	EventTypeLoggedOut         = "identity.logged_out"
	EventTypeCredentialRemoved = "identity.credential_removed"
	EventTypeChanged           = "identity.changed"
)

// SignalEventTypes lists every identity signal event type
func SignalEventTypes() []string {
	return []string{EventTypeLoggedOut, EventTypeCredentialRemoved, EventTypeChanged}
}

// SignalEvent is published whenever the session identity changes
type SignalEvent struct {
	shared.BaseDomainEvent
	UserID string `json:"user_id,omitempty"`
	// Origin identifies the process that raised the signal. Relays use it to
	// avoid echoing a signal back to where it came from.
	Origin string `json:"origin,omitempty"`
}

// NewLoggedOutEvent creates an explicit logout signal
func NewLoggedOutEvent(userID string) *SignalEvent {
	return &SignalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoggedOut),
		UserID:          userID,
	}
}

// NewCredentialRemovedEvent creates a signal for a credential cleared outside the cart
func NewCredentialRemovedEvent() *SignalEvent {
	return &SignalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCredentialRemoved),
	}
}

// NewChangedEvent creates a signal for a new or replaced credential
func NewChangedEvent(userID string) *SignalEvent {
	return &SignalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeChanged),
		UserID:          userID,
	}
}

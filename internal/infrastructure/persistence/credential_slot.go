package persistence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared"
)

// CredentialSlot is the single auth-credential slot. Its presence decides
// whether the cart runs against the remote gateway or the local mirror.
// Every change is announced as an identity signal.
type CredentialSlot struct {
	store     shared.KeyValueStore
	key       string
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCredentialSlot creates a slot stored under key. publisher may be nil.
func NewCredentialSlot(store shared.KeyValueStore, key string, publisher shared.EventPublisher, logger *zap.Logger) *CredentialSlot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialSlot{
		store:     store,
		key:       key,
		publisher: publisher,
		logger:    logger,
	}
}

// Credential returns the stored credential or "" when the slot is empty
func (s *CredentialSlot) Credential(ctx context.Context) (string, error) {
	data, ok, err := s.store.Get(ctx, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

// Store saves credential for userID and announces the identity change
func (s *CredentialSlot) Store(ctx context.Context, credential, userID string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return shared.NewDomainError("INVALID_INPUT", "credential is required")
	}
	if err := s.store.Set(ctx, s.key, []byte(credential)); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	s.publish(ctx, identity.NewChangedEvent(userID))
	return nil
}

// Remove clears the slot without an explicit logout, as when a credential
// is revoked or cleared elsewhere
func (s *CredentialSlot) Remove(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	s.publish(ctx, identity.NewCredentialRemovedEvent())
	return nil
}

// Logout clears the slot and announces an explicit logout
func (s *CredentialSlot) Logout(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	s.publish(ctx, identity.NewLoggedOutEvent(userID))
	return nil
}

func (s *CredentialSlot) publish(ctx context.Context, event *identity.SignalEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish identity signal",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
}

var _ identity.CredentialSource = (*CredentialSlot)(nil)

package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/cart/internal/domain/identity"
)

func newIdentitySerializer() *EventSerializer {
	s := NewEventSerializer()
	for _, eventType := range identity.SignalEventTypes() {
		s.Register(eventType, &identity.SignalEvent{})
	}
	return s
}

func TestEventSerializer_RoundTrip(t *testing.T) {
	s := newIdentitySerializer()
	original := identity.NewLoggedOutEvent("user-42")
	original.Origin = "node-a"

	data, err := s.Serialize(original)
	require.NoError(t, err)

	decoded, err := s.Deserialize(data)
	require.NoError(t, err)

	signal, ok := decoded.(*identity.SignalEvent)
	require.True(t, ok)
	assert.Equal(t, identity.EventTypeLoggedOut, signal.EventType())
	assert.Equal(t, original.EventID(), signal.EventID())
	assert.Equal(t, "user-42", signal.UserID)
	assert.Equal(t, "node-a", signal.Origin)
	assert.True(t, original.OccurredAt().Equal(signal.OccurredAt()))
}

func TestEventSerializer_Deserialize_Errors(t *testing.T) {
	s := newIdentitySerializer()

	_, err := s.Deserialize([]byte(`{"type": "order.created"}`))
	assert.ErrorContains(t, err, "unknown event type")

	_, err = s.Deserialize([]byte(`{"id":`))
	assert.Error(t, err)

	_, err = s.Deserialize([]byte(`{"type": "identity.changed", "user_id": 7}`))
	assert.ErrorContains(t, err, "failed to unmarshal event")
}

func TestEventSerializer_IsRegistered(t *testing.T) {
	s := newIdentitySerializer()

	assert.True(t, s.IsRegistered(identity.EventTypeChanged))
	assert.False(t, s.IsRegistered("identity.unknown"))
}

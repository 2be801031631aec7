package signal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared"
	"github.com/storefront/cart/internal/infrastructure/event"
)

const (
	// DefaultChannel is the Pub/Sub channel identity signals travel on
	DefaultChannel      = "storefront:identity"
	defaultCloseTimeout = 5 * time.Second
)

// RedisChannel relays identity signals between processes over Redis Pub/Sub.
// Signals raised locally are published to the channel; signals received from
// other processes are republished on the local bus. Each relay stamps its own
// origin on outgoing signals and ignores them when they come back.
type RedisChannel struct {
	client     *redis.Client
	channel    string
	origin     string
	local      shared.EventPublisher
	serializer *event.EventSerializer
	logger     *zap.Logger
	send       func(ctx context.Context, channel string, payload []byte) error

	mu        sync.Mutex
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	isRunning bool
}

// Option configures a RedisChannel
type Option func(*RedisChannel)

// WithChannel sets the Pub/Sub channel name
func WithChannel(channel string) Option {
	return func(c *RedisChannel) {
		if channel != "" {
			c.channel = channel
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *RedisChannel) {
		c.logger = logger
	}
}

// WithOrigin overrides the generated origin id
func WithOrigin(origin string) Option {
	return func(c *RedisChannel) {
		c.origin = origin
	}
}

// NewRedisChannel creates a relay between client and the local publisher.
// The caller keeps ownership of client.
func NewRedisChannel(client *redis.Client, local shared.EventPublisher, opts ...Option) *RedisChannel {
	serializer := event.NewEventSerializer()
	for _, eventType := range identity.SignalEventTypes() {
		serializer.Register(eventType, &identity.SignalEvent{})
	}

	c := &RedisChannel{
		client:     client,
		channel:    DefaultChannel,
		origin:     uuid.NewString(),
		local:      local,
		serializer: serializer,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}
	c.send = func(ctx context.Context, channel string, payload []byte) error {
		return c.client.Publish(ctx, channel, payload).Err()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Origin returns the id stamped on signals published by this relay
func (c *RedisChannel) Origin() string {
	return c.origin
}

// EventTypes returns the identity signal types relayed outward
func (c *RedisChannel) EventTypes() []string {
	return identity.SignalEventTypes()
}

// Handle publishes a locally raised identity signal to the channel.
// Signals that arrived from another process are not sent back out.
func (c *RedisChannel) Handle(ctx context.Context, e shared.DomainEvent) error {
	sig, ok := e.(*identity.SignalEvent)
	if !ok {
		return nil
	}
	if sig.Origin != "" && sig.Origin != c.origin {
		return nil
	}

	out := *sig
	out.Origin = c.origin
	payload, err := c.serializer.Serialize(&out)
	if err != nil {
		return err
	}
	if err := c.send(ctx, c.channel, payload); err != nil {
		c.logger.Error("failed to publish identity signal",
			zap.String("channel", c.channel),
			zap.String("event_type", out.EventType()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish identity signal: %w", err)
	}
	c.logger.Debug("published identity signal",
		zap.String("event_type", out.EventType()),
		zap.String("channel", c.channel),
	)
	return nil
}

// Run subscribes to the channel and republishes incoming signals until ctx
// is cancelled or Close is called. It blocks.
func (c *RedisChannel) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("signal relay already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	c.isRunning = true
	c.cancelFn = cancel
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.isRunning = false
		c.mu.Unlock()
		c.markDone()
	}()

	pubsub := c.client.Subscribe(subCtx, c.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	c.logger.Info("subscribed to identity signal channel",
		zap.String("channel", c.channel),
		zap.String("origin", c.origin),
	)

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			c.logger.Info("identity signal relay stopped")
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				c.logger.Warn("identity signal channel closed")
				return nil
			}
			c.receive(subCtx, []byte(msg.Payload))
		}
	}
}

// receive decodes one channel message and republishes it locally
func (c *RedisChannel) receive(ctx context.Context, payload []byte) {
	decoded, err := c.serializer.Deserialize(payload)
	if err != nil {
		c.logger.Warn("discarding malformed identity signal", zap.Error(err))
		return
	}
	sig, ok := decoded.(*identity.SignalEvent)
	if !ok || sig.Origin == c.origin {
		return
	}
	if sig.Origin == "" {
		sig.Origin = "unknown"
	}

	c.logger.Debug("received identity signal",
		zap.String("event_type", sig.EventType()),
		zap.String("origin", sig.Origin),
	)
	if c.local == nil {
		return
	}
	if err := c.local.Publish(ctx, sig); err != nil {
		c.logger.Warn("failed to republish identity signal", zap.Error(err))
	}
}

func (c *RedisChannel) markDone() {
	c.doneOnce.Do(func() {
		close(c.doneCh)
	})
}

// Close stops a running relay and waits for it to exit
func (c *RedisChannel) Close() error {
	c.mu.Lock()
	cancelFn := c.cancelFn
	c.mu.Unlock()

	if cancelFn == nil {
		return nil
	}
	cancelFn()
	select {
	case <-c.doneCh:
	case <-time.After(defaultCloseTimeout):
		c.logger.Warn("timeout waiting for signal relay to stop")
	}
	return nil
}

var _ shared.EventHandler = (*RedisChannel)(nil)

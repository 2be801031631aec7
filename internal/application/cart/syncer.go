package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/cart"
)

// ErrSyncerClosed is returned by Close when queued commands did not finish in time
var ErrSyncerClosed = errors.New("cart syncer closed before queue drained")

// Command is one best-effort outbound call to the remote cart
type Command struct {
	Operation string
	Run       func(ctx context.Context) error
}

// Syncer runs remote cart commands one at a time in submission order.
// Commands never touch the in-memory collection; a failed command is logged
// and counted, never retried.
type Syncer struct {
	queue    chan Command
	timeout  time.Duration
	logger   *zap.Logger
	recorder cart.Recorder

	mu      sync.Mutex
	closed  bool
	pending int
	waiters []chan struct{}
	done    chan struct{}
}

// NewSyncer creates a Syncer and starts its worker
func NewSyncer(queueSize int, timeout time.Duration, logger *zap.Logger, recorder cart.Recorder) *Syncer {
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = cart.NopRecorder{}
	}
	s := &Syncer{
		queue:    make(chan Command, queueSize),
		timeout:  timeout,
		logger:   logger,
		recorder: recorder,
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue submits cmd without blocking. It returns false when the queue is
// full or the syncer is closed; the command is then dropped.
func (s *Syncer) Enqueue(cmd Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Warn("cart sync command dropped, syncer closed",
			zap.String("operation", cmd.Operation),
		)
		return false
	}
	select {
	case s.queue <- cmd:
		s.pending++
		return true
	default:
		s.logger.Warn("cart sync queue full, command dropped",
			zap.String("operation", cmd.Operation),
			zap.Int("capacity", cap(s.queue)),
		)
		s.recorder.SyncFailed(context.Background(), cmd.Operation)
		return false
	}
}

// Pending returns the number of queued or running commands
func (s *Syncer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Drain blocks until every command submitted so far has finished or ctx ends
func (s *Syncer) Drain(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == 0 {
		s.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	s.waiters = append(s.waiters, ch)
	s.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting commands and waits for queued ones to finish
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrSyncerClosed, ctx.Err())
	}
}

func (s *Syncer) run() {
	defer close(s.done)
	for cmd := range s.queue {
		s.execute(cmd)
		s.finish()
	}
}

func (s *Syncer) execute(cmd Command) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in cart sync command",
				zap.String("operation", cmd.Operation),
				zap.Any("panic", r),
			)
			s.recorder.SyncFailed(ctx, cmd.Operation)
		}
	}()

	if err := cmd.Run(ctx); err != nil {
		s.logger.Warn("remote cart sync failed",
			zap.String("operation", cmd.Operation),
			zap.Error(err),
		)
		s.recorder.SyncFailed(ctx, cmd.Operation)
		return
	}
	s.logger.Debug("remote cart sync completed", zap.String("operation", cmd.Operation))
}

func (s *Syncer) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending > 0 {
		return
	}
	for _, ch := range s.waiters {
		close(ch)
	}
	s.waiters = nil
}

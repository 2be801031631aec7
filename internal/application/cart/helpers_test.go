package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared/valueobject"
)

// mockGateway is a mock implementation of cart.Gateway
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) List(ctx context.Context) (*cart.ListResponse, error) {
	args := m.Called(ctx)
	if resp := args.Get(0); resp != nil {
		return resp.(*cart.ListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) Add(ctx context.Context, req cart.AddRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockGateway) Update(ctx context.Context, productVariantID string, req cart.UpdateRequest) error {
	args := m.Called(ctx, productVariantID, req)
	return args.Error(0)
}

func (m *mockGateway) RemoveByID(ctx context.Context, lineItemID string) error {
	args := m.Called(ctx, lineItemID)
	return args.Error(0)
}

func (m *mockGateway) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeMirror records saves in memory
type fakeMirror struct {
	mu      sync.Mutex
	stored  []cart.StoredItem
	loadErr error
	saves   [][]cart.LineItem
	cleared int
}

func (m *fakeMirror) Save(_ context.Context, items []cart.LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, append([]cart.LineItem(nil), items...))
	return nil
}

func (m *fakeMirror) Load(_ context.Context) ([]cart.StoredItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, m.loadErr
}

func (m *fakeMirror) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	m.stored = nil
	return nil
}

func (m *fakeMirror) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saves)
}

func (m *fakeMirror) lastSave() []cart.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

type staticCredentials struct {
	credential string
	err        error
}

func (c *staticCredentials) Credential(context.Context) (string, error) {
	return c.credential, c.err
}

// mapResolver resolves credentials from a fixed table
type mapResolver map[string]identity.Identity

func (r mapResolver) Resolve(_ context.Context, credential string) (identity.Identity, error) {
	ident, ok := r[credential]
	if !ok {
		return identity.Identity{}, errors.New("token is expired")
	}
	return ident, nil
}

// countingRecorder counts cart activity
type countingRecorder struct {
	mu            sync.Mutex
	added         int
	suppressed    int
	syncFailures  map[string]int
	hydrates      map[string]int
	removeFailure int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{syncFailures: map[string]int{}, hydrates: map[string]int{}}
}

func (r *countingRecorder) ItemAdded(_ context.Context, suppressed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if suppressed {
		r.suppressed++
		return
	}
	r.added++
}

func (r *countingRecorder) SyncFailed(_ context.Context, operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncFailures[operation]++
}

func (r *countingRecorder) Hydrated(_ context.Context, source string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hydrates[source]++
}

func (r *countingRecorder) RemoveFailed(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeFailure++
}

func (r *countingRecorder) syncFailuresFor(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncFailures[op]
}

// testClock is a manually advanced clock
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func snapshotOf(ref string, price int64) cart.ProductSnapshot {
	return cart.ProductSnapshot{
		Ref:   ref,
		Name:  "Product " + ref,
		Price: valueobject.NewMoneyFromInt(price),
	}
}

func listResponse(data string) *cart.ListResponse {
	return &cart.ListResponse{Success: true, Data: []byte(data)}
}

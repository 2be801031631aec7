package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/identity"
	"github.com/storefront/cart/internal/domain/shared"
)

type storeFixture struct {
	store    *Store
	gateway  *mockGateway
	mirror   *fakeMirror
	creds    *staticCredentials
	clock    *testClock
	recorder *countingRecorder
}

func newStoreFixture(t *testing.T, credential string, resolver identity.Resolver, opts ...Option) *storeFixture {
	t.Helper()
	f := &storeFixture{
		gateway:  &mockGateway{},
		mirror:   &fakeMirror{},
		creds:    &staticCredentials{credential: credential},
		clock:    newTestClock(),
		recorder: newCountingRecorder(),
	}
	opts = append([]Option{WithClock(f.clock.Now)}, opts...)
	f.store = NewStore(Deps{
		Gateway:     f.gateway,
		Mirror:      f.mirror,
		Credentials: f.creds,
		Resolver:    resolver,
		Logger:      zap.NewNop(),
		Recorder:    f.recorder,
	}, opts...)
	t.Cleanup(func() {
		_ = f.store.Close(context.Background())
	})
	return f
}

func newGuestFixture(t *testing.T, opts ...Option) *storeFixture {
	t.Helper()
	f := newStoreFixture(t, "", nil, opts...)
	f.store.Hydrate(context.Background())
	return f
}

func TestStore_GuestScenario(t *testing.T) {
	ctx := context.Background()
	f := newGuestFixture(t)
	red := cart.Options{"color": "red"}

	first, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1, Options: red})
	require.NoError(t, err)
	assert.False(t, first.Suppressed)

	f.clock.Advance(cart.DefaultDedupWindow + time.Millisecond)
	_, err = f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1, Options: cart.Options{"color": "red"}})
	require.NoError(t, err)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	_, err = f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1, Options: cart.Options{"color": "blue"}})
	require.NoError(t, err)
	require.Len(t, f.store.Items(), 2)

	require.NoError(t, f.store.SetQuantity(ctx, first.Item.ID, 0))

	items = f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "blue", items[0].Options["color"])
	assert.Equal(t, 1, items[0].Quantity)

	f.gateway.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "RemoveByID", mock.Anything, mock.Anything)
	assert.Len(t, f.mirror.lastSave(), 1)
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("accumulates outside dedup window", func(t *testing.T) {
		f := newGuestFixture(t)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 2})
		require.NoError(t, err)
		f.clock.Advance(time.Second)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 3})
		require.NoError(t, err)

		assert.Equal(t, 5, res.Item.Quantity)
		assert.Len(t, f.store.Items(), 1)
	})

	t.Run("duplicate inside window is suppressed but succeeds", func(t *testing.T) {
		f := newGuestFixture(t)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 2})
		require.NoError(t, err)
		f.clock.Advance(100 * time.Millisecond)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 5})
		require.NoError(t, err)

		assert.True(t, res.Suppressed)
		assert.Equal(t, 2, res.Item.Quantity)
		items := f.store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, 1, f.recorder.suppressed)
		assert.Equal(t, 2, f.mirror.saveCount(), "only hydrate and the first add persist")
	})

	t.Run("different key inside window passes", func(t *testing.T) {
		f := newGuestFixture(t)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p2", 10), Quantity: 1})
		require.NoError(t, err)

		assert.False(t, res.Suppressed)
		assert.Len(t, f.store.Items(), 2)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newGuestFixture(t)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("", 10), Quantity: 1})
		assert.ErrorIs(t, err, cart.ErrMissingProductRef)
		_, err = f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 0})
		assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
		assert.Empty(t, f.store.Items())
	})

	t.Run("remote failure does not block local add", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(`[]`), nil)
		f.gateway.On("Add", mock.Anything, cart.AddRequest{ProductVariantID: "p1", Quantity: 1}).
			Return(errors.New("connection refused"))
		f.store.Hydrate(ctx)

		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)
		require.NoError(t, f.store.Flush(ctx))

		assert.Len(t, f.store.Items(), 1)
		assert.Equal(t, 1, f.recorder.syncFailuresFor(OpAdd))
		f.gateway.AssertExpectations(t)
	})
}

func TestStore_SetQuantity(t *testing.T) {
	ctx := context.Background()

	t.Run("sets quantity locally", func(t *testing.T) {
		f := newGuestFixture(t)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, f.store.SetQuantity(ctx, res.Item.ID, 4))
		item, ok := f.store.Item(res.Item.ID)
		require.True(t, ok)
		assert.Equal(t, 4, item.Quantity)
	})

	t.Run("negative quantity removes", func(t *testing.T) {
		f := newGuestFixture(t)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, f.store.SetQuantity(ctx, res.Item.ID, -1))
		_, ok := f.store.Item(res.Item.ID)
		assert.False(t, ok)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newGuestFixture(t)
		assert.ErrorIs(t, f.store.SetQuantity(ctx, "missing", 2), cart.ErrLineItemNotFound)
	})

	t.Run("remote update forwards color and applies locally on failure", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(
			`{"items":[{"id":"ci-1","productVariantId":"v1","name":"Shirt","price":10,"quantity":1,"options":{"color":"red"}}]}`,
		), nil)
		color := "red"
		f.gateway.On("Update", mock.Anything, "v1", cart.UpdateRequest{Quantity: 3, ColorID: &color}).
			Return(errors.New("503"))
		f.store.Hydrate(ctx)

		require.NoError(t, f.store.SetQuantity(ctx, "ci-1", 3))
		require.NoError(t, f.store.Flush(ctx))

		item, ok := f.store.Item("ci-1")
		require.True(t, ok)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, 1, f.recorder.syncFailuresFor(OpUpdate))
		f.gateway.AssertExpectations(t)
	})
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	payload := `{"data":[{"id":"ci-1","productVariantId":"v1","name":"Shirt","price":"10.00","quantity":2}]}`

	t.Run("remote failure leaves item in place", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(payload), nil).Once()
		f.gateway.On("RemoveByID", mock.Anything, "ci-1").Return(errors.New("timeout"))
		f.store.Hydrate(ctx)

		err := f.store.Remove(ctx, "ci-1")

		require.Error(t, err)
		assert.ErrorIs(t, err, cart.ErrRemoteRemoveFailed)
		_, ok := f.store.Item("ci-1")
		assert.True(t, ok)
		assert.Equal(t, 1, f.recorder.removeFailure)
		f.gateway.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("remote success re-hydrates", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(payload), nil).Once()
		f.gateway.On("List", mock.Anything).Return(listResponse(`{"data":[]}`), nil).Once()
		f.gateway.On("RemoveByID", mock.Anything, "ci-1").Return(nil)
		f.store.Hydrate(ctx)
		require.Len(t, f.store.Items(), 1)

		require.NoError(t, f.store.Remove(ctx, "ci-1"))

		assert.Empty(t, f.store.Items())
		f.gateway.AssertNumberOfCalls(t, "List", 2)
	})

	t.Run("item added in session is removed by its server id", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(`{"data":[]}`), nil).Once()
		f.gateway.On("Add", mock.Anything, cart.AddRequest{ProductVariantID: "v1", Quantity: 1}).Return(nil)
		f.store.Hydrate(ctx)

		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("v1", 10), Quantity: 1})
		require.NoError(t, err)
		require.Equal(t, "v1-no-options", res.Item.ID)

		f.gateway.On("List", mock.Anything).Return(listResponse(`{"data":[{"id":"srv-9","productVariantId":"v1","name":"Product v1","price":"10.00","quantity":1}]}`), nil).Once()
		f.gateway.On("RemoveByID", mock.Anything, "srv-9").Return(nil).Once()
		f.gateway.On("List", mock.Anything).Return(listResponse(`{"data":[]}`), nil).Once()

		require.NoError(t, f.store.Remove(ctx, res.Item.ID))

		assert.Empty(t, f.store.Items())
		f.gateway.AssertNotCalled(t, "RemoveByID", mock.Anything, "v1-no-options")
		f.gateway.AssertExpectations(t)
	})

	t.Run("item missing from remote cart resyncs without delete", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(`[]`), nil)
		f.gateway.On("Add", mock.Anything, mock.Anything).Return(errors.New("offline"))
		f.store.Hydrate(ctx)

		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("v1", 10), Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, f.store.Remove(ctx, res.Item.ID))

		assert.Empty(t, f.store.Items())
		f.gateway.AssertNotCalled(t, "RemoveByID", mock.Anything, mock.Anything)
	})

	t.Run("pending sync past deadline is a remote failure", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		release := make(chan struct{})
		defer close(release)
		f.gateway.On("List", mock.Anything).Return(listResponse(`[]`), nil).Once()
		f.gateway.On("Add", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil)
		f.store.Hydrate(ctx)

		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("v1", 10), Quantity: 1})
		require.NoError(t, err)

		deadline, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		err = f.store.Remove(deadline, res.Item.ID)

		assert.ErrorIs(t, err, cart.ErrRemoteRemoveFailed)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		var domainErr *shared.DomainError
		assert.True(t, errors.As(err, &domainErr))
		_, ok := f.store.Item(res.Item.ID)
		assert.True(t, ok)
		assert.Equal(t, 1, f.recorder.removeFailure)
	})

	t.Run("guest removes locally", func(t *testing.T) {
		f := newGuestFixture(t)
		res, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		require.NoError(t, f.store.Remove(ctx, res.Item.ID))
		assert.Empty(t, f.store.Items())
		assert.Empty(t, f.mirror.lastSave())
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newGuestFixture(t)
		assert.ErrorIs(t, f.store.Remove(ctx, "missing"), cart.ErrLineItemNotFound)
	})
}

func TestStore_RemoveSelectedSignedIn(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t, "token", nil)
	f.gateway.On("List", mock.Anything).Return(listResponse(`[]`), nil).Once()
	f.gateway.On("Add", mock.Anything, mock.Anything).Return(nil)
	f.store.Hydrate(ctx)

	a, err := f.store.Add(ctx, AddInput{Product: snapshotOf("v1", 10), Quantity: 1})
	require.NoError(t, err)
	b, err := f.store.Add(ctx, AddInput{Product: snapshotOf("v2", 4), Quantity: 2})
	require.NoError(t, err)
	_, err = f.store.SetSelected(ctx, b.Item.ID, false)
	require.NoError(t, err)

	f.gateway.On("List", mock.Anything).Return(listResponse(`{"data":[
		{"id":"srv-9","productVariantId":"v1","quantity":1},
		{"id":"srv-10","productVariantId":"v2","quantity":2}]}`), nil).Once()
	f.gateway.On("RemoveByID", mock.Anything, "srv-9").Return(nil).Once()

	removed := f.store.RemoveSelected(ctx)
	require.Len(t, removed, 1)
	assert.Equal(t, a.Item.ID, removed[0].ID)
	require.NoError(t, f.store.Flush(ctx))
	assert.Equal(t, 0, f.recorder.syncFailuresFor(OpRemove))

	f.gateway.On("List", mock.Anything).Return(listResponse(`[{"id":"srv-10","productVariantId":"v2","quantity":2}]`), nil).Once()
	f.store.Hydrate(ctx)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv-10", items[0].ID)
	f.gateway.AssertExpectations(t)
	f.gateway.AssertNotCalled(t, "RemoveByID", mock.Anything, "v1-no-options")
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t, "token", nil)
	f.gateway.On("List", mock.Anything).Return(listResponse(`[{"id":"a","variantId":"v1","quantity":1}]`), nil)
	f.gateway.On("Clear", mock.Anything).Return(errors.New("offline"))
	f.store.Hydrate(ctx)

	f.store.Clear(ctx)
	require.NoError(t, f.store.Flush(ctx))

	assert.Empty(t, f.store.Items())
	assert.Equal(t, 1, f.recorder.syncFailuresFor(OpClear))
	f.gateway.AssertExpectations(t)
}

func TestStore_Selection(t *testing.T) {
	ctx := context.Background()
	f := newGuestFixture(t)
	a, err := f.store.Add(ctx, AddInput{Product: snapshotOf("a", 10), Quantity: 2})
	require.NoError(t, err)
	b, err := f.store.Add(ctx, AddInput{Product: snapshotOf("b", 5), Quantity: 3})
	require.NoError(t, err)

	toggled, err := f.store.Toggle(ctx, b.Item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Selected)
	assert.Equal(t, 3, toggled.Quantity)
	assert.Equal(t, b.Item.ID, toggled.ID)

	totals := f.store.Totals()
	assert.Equal(t, 5, totals.TotalItems)
	assert.Equal(t, 2, totals.SelectedTotalItems)
	assert.Equal(t, "35.00", totals.TotalPrice.String())
	assert.Equal(t, "20.00", totals.SelectedTotalPrice.String())

	_, err = f.store.SetSelected(ctx, "missing", true)
	assert.ErrorIs(t, err, cart.ErrLineItemNotFound)

	f.store.SelectAll(ctx, false)
	assert.Equal(t, 0, f.store.Totals().SelectedTotalItems)

	_, err = f.store.SetSelected(ctx, a.Item.ID, true)
	require.NoError(t, err)
	removed := f.store.RemoveSelected(ctx)
	require.Len(t, removed, 1)
	assert.Equal(t, a.Item.ID, removed[0].ID)

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.Item.ID, items[0].ID)
	assert.Nil(t, f.store.RemoveSelected(ctx))
}

func TestStore_View(t *testing.T) {
	ctx := context.Background()
	f := newGuestFixture(t)
	_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("a", 10), Quantity: 2})
	require.NoError(t, err)
	_, err = f.store.Add(ctx, AddInput{Product: snapshotOf("b", 5), Quantity: 1})
	require.NoError(t, err)

	v := f.store.View()

	require.Len(t, v.Items, 2)
	assert.Equal(t, cart.Summarize(v.Items), v.Totals)
	assert.Equal(t, 3, v.Totals.TotalItems)
	assert.True(t, v.Hydrated)
	assert.False(t, v.Identity.Authenticated())

	v.Items[0].Quantity = 99
	assert.Equal(t, 2, f.store.Items()[0].Quantity)
}

func TestStore_Hydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("guest restores mirror with defaults", func(t *testing.T) {
		f := newStoreFixture(t, "", nil)
		off := false
		f.mirror.stored = []cart.StoredItem{
			{ID: "a-no-options", Product: snapshotOf("a", 10), Quantity: 1, Selected: &off},
			{Product: snapshotOf("b", 5), Quantity: 2},
		}

		res := f.store.Hydrate(ctx)

		assert.Equal(t, SourceMirror, res.Source)
		assert.Equal(t, 2, res.Count)
		items := f.store.Items()
		require.Len(t, items, 2)
		assert.False(t, items[0].Selected)
		assert.True(t, items[1].Selected)
		assert.Equal(t, f.clock.Now(), items[1].AddedAt)
		assert.True(t, f.store.Hydrated())
	})

	t.Run("unreadable mirror yields empty cart", func(t *testing.T) {
		f := newStoreFixture(t, "", nil)
		f.mirror.loadErr = errors.New("invalid character '}' looking for beginning of value")

		res := f.store.Hydrate(ctx)

		assert.Equal(t, 0, res.Count)
		assert.Empty(t, f.store.Items())
	})

	t.Run("authenticated loads remote and caches in mirror", func(t *testing.T) {
		resolver := mapResolver{"token": {UserID: "u1", Roles: []string{"customer"}}}
		f := newStoreFixture(t, "token", resolver)
		f.gateway.On("List", mock.Anything).Return(listResponse(`{"cartItems":[
			{"id":"ci-1","productVariantId":"v1","name":"Shirt","price":"10.00","quantity":2},
			{"id":"ci-2","quantity":1}
		]}`), nil)

		res := f.store.Hydrate(ctx)

		assert.Equal(t, SourceRemote, res.Source)
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, 1, res.Dropped)
		assert.Equal(t, "u1", f.store.Identity().UserID)
		assert.True(t, f.store.Identity().Authenticated())
		require.Len(t, f.mirror.lastSave(), 1)
		f.gateway.AssertExpectations(t)
	})

	t.Run("remote failure yields empty cart and keeps mirror", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(nil, errors.New("dial tcp: refused"))

		res := f.store.Hydrate(ctx)

		assert.Error(t, res.RemoteErr)
		assert.Empty(t, f.store.Items())
		assert.Equal(t, 0, f.mirror.saveCount())
	})

	t.Run("unsuccessful remote list yields empty cart", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(&cart.ListResponse{Success: false}, nil)

		res := f.store.Hydrate(ctx)

		assert.NoError(t, res.RemoteErr)
		assert.Empty(t, f.store.Items())
	})

	t.Run("selection carries over re-hydrate", func(t *testing.T) {
		f := newStoreFixture(t, "token", nil)
		f.gateway.On("List", mock.Anything).Return(listResponse(
			`[{"id":"ci-1","variantId":"v1","quantity":1},{"id":"ci-2","variantId":"v2","quantity":1}]`,
		), nil)
		f.store.Hydrate(ctx)
		_, err := f.store.SetSelected(ctx, "ci-1", false)
		require.NoError(t, err)

		f.store.Hydrate(ctx)

		item, ok := f.store.Item("ci-1")
		require.True(t, ok)
		assert.False(t, item.Selected)
	})

	t.Run("invalid credential falls back to guest", func(t *testing.T) {
		f := newStoreFixture(t, "expired", mapResolver{})

		res := f.store.Hydrate(ctx)

		assert.Equal(t, SourceMirror, res.Source)
		assert.False(t, f.store.Identity().Authenticated())
		f.gateway.AssertNotCalled(t, "List", mock.Anything)
	})
}

func TestStore_PrivilegedIdentity(t *testing.T) {
	ctx := context.Background()
	resolver := mapResolver{"admin-token": {UserID: "a1", Roles: []string{"Admin"}}}
	f := newStoreFixture(t, "admin-token", resolver)

	res := f.store.Hydrate(ctx)

	assert.Equal(t, SourcePrivileged, res.Source)
	_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrPrivilegedIdentity)
	f.store.SelectAll(ctx, true)
	assert.Empty(t, f.store.Items())
	assert.Equal(t, 0, f.mirror.saveCount())
	f.gateway.AssertNotCalled(t, "List", mock.Anything)
}

func TestStore_MirrorPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("no saves before hydrate", func(t *testing.T) {
		f := newStoreFixture(t, "", nil)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		assert.Equal(t, 0, f.mirror.saveCount())
		assert.False(t, f.store.Hydrated())
	})

	t.Run("guest cart not persisted when disabled", func(t *testing.T) {
		f := newGuestFixture(t, WithPersistGuestCart(false))
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		assert.Equal(t, 0, f.mirror.saveCount())
	})

	t.Run("every mutation saves the latest collection", func(t *testing.T) {
		f := newGuestFixture(t)
		_, err := f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)
		f.clock.Advance(time.Second)
		_, err = f.store.Add(ctx, AddInput{Product: snapshotOf("p1", 10), Quantity: 1})
		require.NoError(t, err)

		last := f.mirror.lastSave()
		require.Len(t, last, 1)
		assert.Equal(t, 2, last[0].Quantity)
	})
}

func TestStore_Teardown(t *testing.T) {
	ctx := context.Background()
	resolver := mapResolver{"token": {UserID: "u1"}}
	f := newStoreFixture(t, "token", resolver)
	f.gateway.On("List", mock.Anything).Return(listResponse(`[{"id":"ci-1","variantId":"v1","quantity":1}]`), nil)
	f.store.Hydrate(ctx)
	require.Len(t, f.store.Items(), 1)

	f.store.Teardown(ctx)

	assert.Empty(t, f.store.Items())
	assert.Equal(t, 1, f.mirror.cleared)
	assert.False(t, f.store.Identity().Authenticated())
	assert.True(t, f.store.Hydrated())
}

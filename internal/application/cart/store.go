package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/storefront/cart/internal/domain/cart"
	"github.com/storefront/cart/internal/domain/identity"
)

// Hydration sources reported in HydrateResult
const (
	SourceRemote     = "remote"
	SourceMirror     = "mirror"
	SourcePrivileged = "privileged"
)

// Sync operation names
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
	OpClear  = "clear"
)

// Deps are the collaborators of a Store. Gateway, Mirror, Credentials and
// Resolver are optional: without a gateway the store never goes remote,
// without a mirror nothing is persisted, without credentials every session
// is a guest.
type Deps struct {
	Gateway     cart.Gateway
	Mirror      cart.Mirror
	Credentials identity.CredentialSource
	Resolver    identity.Resolver
	Logger      *zap.Logger
	Recorder    cart.Recorder
}

// Option configures a Store
type Option func(*Store)

// WithDedupWindow sets the duplicate-add suppression window
func WithDedupWindow(window time.Duration) Option {
	return func(s *Store) {
		s.dedupWindow = window
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPrivilegedRoles sets the roles that mark an identity without a cart
func WithPrivilegedRoles(roles ...string) Option {
	return func(s *Store) {
		s.privilegedRoles = roles
	}
}

// WithPersistGuestCart controls whether guest carts are written to the mirror
func WithPersistGuestCart(persist bool) Option {
	return func(s *Store) {
		s.persistGuest = persist
	}
}

// WithSyncQueueSize sets the capacity of the outbound sync queue
func WithSyncQueueSize(size int) Option {
	return func(s *Store) {
		s.queueSize = size
	}
}

// WithSyncTimeout bounds each remote call made by the store
func WithSyncTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		s.syncTimeout = timeout
	}
}

// AddInput is a request to add a product to the cart
type AddInput struct {
	Product  cart.ProductSnapshot
	Quantity int
	Options  cart.Options
}

// AddResult reports the item after an add. Suppressed is true when the add
// was absorbed by the dedup guard; the call still counts as a success.
type AddResult struct {
	Item       cart.LineItem
	Suppressed bool
}

// HydrateResult describes a completed hydration. RemoteErr carries a swallowed
// gateway failure; the collection is empty in that case.
type HydrateResult struct {
	Source    string
	Count     int
	Dropped   int
	RemoteErr error
}

// Store owns the canonical cart collection for one session. Every mutation
// is a copy-on-write transition applied under a lock; outbound remote calls
// for add, update and clear go through a Syncer and never block the caller.
// Remove is the exception: it waits for the gateway and only then resyncs.
type Store struct {
	gateway     cart.Gateway
	mirror      cart.Mirror
	credentials identity.CredentialSource
	resolver    identity.Resolver
	logger      *zap.Logger
	recorder    cart.Recorder

	dedupWindow     time.Duration
	now             func() time.Time
	privilegedRoles []string
	persistGuest    bool
	queueSize       int
	syncTimeout     time.Duration

	guard  *cart.DedupGuard
	syncer *Syncer

	mu       sync.RWMutex
	items    cart.Items
	ident    identity.Identity
	hydrated bool
	version  uint64

	persistMu sync.Mutex
	persisted uint64
}

// snapshot is the state captured by a transition for persisting outside the lock
type snapshot struct {
	version  uint64
	items    cart.Items
	ident    identity.Identity
	hydrated bool
}

// NewStore creates an empty, unhydrated store and starts its sync worker
func NewStore(deps Deps, opts ...Option) *Store {
	s := &Store{
		gateway:         deps.Gateway,
		mirror:          deps.Mirror,
		credentials:     deps.Credentials,
		resolver:        deps.Resolver,
		logger:          deps.Logger,
		recorder:        deps.Recorder,
		dedupWindow:     cart.DefaultDedupWindow,
		now:             time.Now,
		privilegedRoles: []string{"admin"},
		persistGuest:    true,
		queueSize:       64,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.recorder == nil {
		s.recorder = cart.NopRecorder{}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = cart.NewDedupGuard(s.dedupWindow)
	s.syncer = NewSyncer(s.queueSize, s.syncTimeout, s.logger, s.recorder)
	return s
}

// Hydrate reloads the collection from the gateway when a credential is
// present, otherwise from the mirror. It replaces the collection, carrying
// over selection flags of items that survive. Failures degrade to an empty
// collection; Hydrate never returns an error.
func (s *Store) Hydrate(ctx context.Context) HydrateResult {
	ident := s.resolveIdentity(ctx)
	now := s.now()

	var (
		items  cart.Items
		result HydrateResult
	)
	switch {
	case s.isPrivileged(ident):
		result.Source = SourcePrivileged
	case s.remoteEnabled(ident):
		result.Source = SourceRemote
		items, result.Dropped, result.RemoteErr = s.loadRemote(ctx, now)
	default:
		result.Source = SourceMirror
		items = s.loadMirror(ctx, now)
	}

	s.mu.Lock()
	if ident.UserID == s.ident.UserID {
		items = items.CarrySelection(s.items)
	}
	s.ident = ident
	s.hydrated = true
	snap := s.commitLocked(items)
	s.mu.Unlock()

	result.Count = len(items)
	s.recorder.Hydrated(ctx, result.Source, result.Dropped)
	s.logger.Info("cart hydrated",
		zap.String("source", result.Source),
		zap.Int("items", result.Count),
		zap.Int("dropped", result.Dropped),
		zap.Bool("authenticated", ident.Authenticated()),
	)

	// keep the mirror as it was when the server could not be read
	if result.RemoteErr == nil {
		s.persist(ctx, snap)
	}
	return result
}

// Add puts quantity of a product/options pair into the cart, accumulating onto
// an existing item with the same identity key. A repeat of the previous add
// inside the dedup window is reported as success without changing anything.
func (s *Store) Add(ctx context.Context, in AddInput) (*AddResult, error) {
	if in.Product.Ref == "" {
		return nil, cart.ErrMissingProductRef
	}
	if in.Quantity < 1 {
		return nil, cart.ErrInvalidQuantity
	}

	now := s.now()
	key := cart.IdentityKey(in.Product.Ref, in.Options)

	s.mu.Lock()
	if s.isPrivileged(s.ident) {
		s.mu.Unlock()
		return nil, cart.ErrPrivilegedIdentity
	}
	if !s.guard.Admit(key, now) {
		item, _ := s.items.FindByKey(key)
		s.mu.Unlock()
		s.recorder.ItemAdded(ctx, true)
		s.logger.Debug("duplicate cart add suppressed", zap.String("key", key))
		return &AddResult{Item: item, Suppressed: true}, nil
	}

	if s.remoteEnabled(s.ident) {
		req := cart.AddRequest{ProductVariantID: in.Product.Ref, Quantity: in.Quantity}
		s.syncer.Enqueue(Command{Operation: OpAdd, Run: func(ctx context.Context) error {
			return s.gateway.Add(ctx, req)
		}})
	}
	next, item := s.items.Accumulate(in.Product, in.Options, in.Quantity, now)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.recorder.ItemAdded(ctx, false)
	s.persist(ctx, snap)
	return &AddResult{Item: item}, nil
}

// SetQuantity sets the quantity of an item. A quantity <= 0 removes the item
// through Remove. The local change applies even if the remote update fails.
func (s *Store) SetQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, id)
	}

	s.mu.Lock()
	item, ok := s.items.Find(id)
	if !ok {
		s.mu.Unlock()
		return cart.ErrLineItemNotFound
	}
	if s.remoteEnabled(s.ident) {
		req := cart.UpdateRequest{Quantity: quantity, ColorID: item.Options.ColorID()}
		ref := item.Product.Ref
		s.syncer.Enqueue(Command{Operation: OpUpdate, Run: func(ctx context.Context) error {
			return s.gateway.Update(ctx, ref, req)
		}})
	}
	next, _ := s.items.WithQuantity(id, quantity)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// Remove drops an item. For an authenticated session the remote removal is
// authoritative: on success the whole cart is re-hydrated, on failure the
// collection is left untouched and ErrRemoteRemoveFailed is returned.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.RLock()
	item, ok := s.items.Find(id)
	ident := s.ident
	s.mu.RUnlock()
	if !ok {
		return cart.ErrLineItemNotFound
	}

	if s.remoteEnabled(ident) {
		return s.removeRemote(ctx, item)
	}

	s.mu.Lock()
	next, ok := s.items.Without(id)
	if !ok {
		s.mu.Unlock()
		return cart.ErrLineItemNotFound
	}
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

func (s *Store) removeRemote(ctx context.Context, item cart.LineItem) error {
	// earlier queued commands must reach the server before the delete
	if err := s.syncer.Drain(ctx); err != nil {
		return s.removeFailed(ctx, item.ID, err)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	remoteIDs, err := s.remoteIDs(callCtx, cart.Items{item})
	if err != nil {
		return s.removeFailed(ctx, item.ID, err)
	}
	remoteID, ok := remoteIDs[item.ID]
	if !ok {
		s.logger.Info("cart item not on remote cart, resyncing", zap.String("item_id", item.ID))
		s.Hydrate(ctx)
		return nil
	}
	if err := s.gateway.RemoveByID(callCtx, remoteID); err != nil {
		return s.removeFailed(ctx, item.ID, err)
	}
	s.Hydrate(ctx)
	return nil
}

func (s *Store) removeFailed(ctx context.Context, id string, err error) error {
	s.recorder.RemoveFailed(ctx)
	s.logger.Warn("remote cart remove failed",
		zap.String("item_id", id),
		zap.Error(err),
	)
	return fmt.Errorf("%w: %w", cart.ErrRemoteRemoveFailed, err)
}

// remoteIDs maps the ids of items to server cart-entry ids. Items added in
// this session still carry their identity key as id; those are looked up in
// the remote list by identity key, then by product ref when that is
// unambiguous. Items missing from the remote cart are left out of the map.
func (s *Store) remoteIDs(ctx context.Context, items cart.Items) (map[string]string, error) {
	ids := make(map[string]string, len(items))
	var pending cart.Items
	for _, it := range items {
		if it.ID != it.Key() {
			ids[it.ID] = it.ID
			continue
		}
		pending = append(pending, it)
	}
	if len(pending) == 0 {
		return ids, nil
	}

	resp, err := s.gateway.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote cart: %w", err)
	}
	if resp == nil || !resp.Success {
		return nil, errors.New("list remote cart: unsuccessful reply")
	}
	remote, err := cart.NormalizeRemote(resp.Data, s.now())
	if err != nil {
		return nil, err
	}
	for _, it := range pending {
		if match, ok := remote.Items.FindByKey(it.Key()); ok {
			ids[it.ID] = match.ID
			continue
		}
		if match, ok := remote.Items.FindByRef(it.Product.Ref); ok {
			ids[it.ID] = match.ID
		}
	}
	return ids, nil
}

// Clear empties the cart. The remote clear is best-effort.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	if s.remoteEnabled(s.ident) {
		s.syncer.Enqueue(Command{Operation: OpClear, Run: s.gateway.Clear})
	}
	snap := s.commitLocked(nil)
	s.mu.Unlock()

	s.persist(ctx, snap)
}

// Toggle flips the selection flag of an item
func (s *Store) Toggle(ctx context.Context, id string) (cart.LineItem, error) {
	return s.updateSelection(ctx, id, func(items cart.Items) (cart.Items, bool) {
		return items.Toggled(id)
	})
}

// SetSelected sets the selection flag of an item
func (s *Store) SetSelected(ctx context.Context, id string, selected bool) (cart.LineItem, error) {
	return s.updateSelection(ctx, id, func(items cart.Items) (cart.Items, bool) {
		return items.WithSelected(id, selected)
	})
}

// SelectAll sets the selection flag of every item
func (s *Store) SelectAll(ctx context.Context, selected bool) {
	s.mu.Lock()
	snap := s.commitLocked(s.items.AllSelected(selected))
	s.mu.Unlock()

	s.persist(ctx, snap)
}

// RemoveSelected drops every selected item and returns them. Used after
// checkout; remote removal of each item is best-effort.
func (s *Store) RemoveSelected(ctx context.Context) cart.Items {
	s.mu.Lock()
	kept, removed := s.items.PartitionSelected()
	if len(removed) == 0 {
		s.mu.Unlock()
		return nil
	}
	if s.remoteEnabled(s.ident) {
		s.syncer.Enqueue(Command{Operation: OpRemove, Run: func(ctx context.Context) error {
			return s.removeRemoteItems(ctx, removed)
		}})
	}
	snap := s.commitLocked(kept)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return removed
}

// removeRemoteItems deletes items from the remote cart. It runs on the sync
// worker, so adds queued before it have already reached the server.
func (s *Store) removeRemoteItems(ctx context.Context, items cart.Items) error {
	ids, err := s.remoteIDs(ctx, items)
	if err != nil {
		return err
	}
	var errs []error
	for _, it := range items {
		remoteID, ok := ids[it.ID]
		if !ok {
			s.logger.Debug("checked-out item not on remote cart", zap.String("item_id", it.ID))
			continue
		}
		if err := s.gateway.RemoveByID(ctx, remoteID); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", remoteID, err))
		}
	}
	return errors.Join(errs...)
}

// Teardown clears the collection and the mirror and drops back to a guest
// session. Called on logout or when the credential disappears.
func (s *Store) Teardown(ctx context.Context) {
	s.mu.Lock()
	s.ident = identity.Guest()
	s.guard.Reset()
	snap := s.commitLocked(nil)
	s.mu.Unlock()
	s.logger.Info("cart torn down")

	if s.mirror == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.mirror.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear cart mirror", zap.Error(err))
	}
	s.persisted = snap.version
}

// Items returns a copy of the current collection
func (s *Store) Items() cart.Items {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Clone()
}

// Item returns the item with the given id
func (s *Store) Item(id string) (cart.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.Find(id)
}

// Totals recomputes the aggregates of the current collection
func (s *Store) Totals() cart.Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cart.Summarize(s.items)
}

// View is a consistent read of the cart state
type View struct {
	Items    cart.Items
	Totals   cart.Totals
	Identity identity.Identity
	Hydrated bool
}

// View returns items, totals and session state taken under one lock
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Items:    s.items.Clone(),
		Totals:   cart.Summarize(s.items),
		Identity: s.ident,
		Hydrated: s.hydrated,
	}
}

// Identity returns the identity the cart was last hydrated for
func (s *Store) Identity() identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ident
}

// Hydrated reports whether Hydrate has completed at least once
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Flush waits for queued remote commands to finish
func (s *Store) Flush(ctx context.Context) error {
	return s.syncer.Drain(ctx)
}

// Close stops the sync worker after draining its queue
func (s *Store) Close(ctx context.Context) error {
	return s.syncer.Close(ctx)
}

func (s *Store) updateSelection(ctx context.Context, id string, transition func(cart.Items) (cart.Items, bool)) (cart.LineItem, error) {
	s.mu.Lock()
	next, ok := transition(s.items)
	if !ok {
		s.mu.Unlock()
		return cart.LineItem{}, cart.ErrLineItemNotFound
	}
	item, _ := next.Find(id)
	snap := s.commitLocked(next)
	s.mu.Unlock()

	s.persist(ctx, snap)
	return item, nil
}

// commitLocked installs next as the collection. s.mu must be held.
func (s *Store) commitLocked(next cart.Items) snapshot {
	s.items = next
	s.version++
	return snapshot{
		version:  s.version,
		items:    next,
		ident:    s.ident,
		hydrated: s.hydrated,
	}
}

// persist writes snap to the mirror unless policy forbids it or a newer
// snapshot has already been written.
func (s *Store) persist(ctx context.Context, snap snapshot) {
	if s.mirror == nil || !snap.hydrated || s.isPrivileged(snap.ident) {
		return
	}
	if !snap.ident.Authenticated() && !s.persistGuest {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if snap.version <= s.persisted {
		return
	}
	if err := s.mirror.Save(ctx, snap.items); err != nil {
		s.logger.Warn("failed to save cart mirror",
			zap.Uint64("version", snap.version),
			zap.Error(err),
		)
		return
	}
	s.persisted = snap.version
}

func (s *Store) loadRemote(ctx context.Context, now time.Time) (cart.Items, int, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.gateway.List(callCtx)
	if err != nil {
		s.logger.Warn("remote cart list failed, using empty cart", zap.Error(err))
		return nil, 0, err
	}
	if resp == nil || !resp.Success {
		s.logger.Warn("remote cart list unsuccessful, using empty cart")
		return nil, 0, nil
	}

	result, err := cart.NormalizeRemote(resp.Data, now)
	if err != nil {
		s.logger.Warn("unusable remote cart payload, using empty cart", zap.Error(err))
		return nil, 0, nil
	}
	for _, d := range result.Dropped {
		s.logger.Warn("dropped remote cart record",
			zap.Int("index", d.Index),
			zap.String("reason", d.Reason),
		)
	}
	return result.Items, len(result.Dropped), nil
}

func (s *Store) loadMirror(ctx context.Context, now time.Time) cart.Items {
	if s.mirror == nil {
		return nil
	}
	stored, err := s.mirror.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load cart mirror, using empty cart", zap.Error(err))
		return nil
	}
	return cart.RestoreItems(stored, now)
}

func (s *Store) resolveIdentity(ctx context.Context) identity.Identity {
	if s.credentials == nil {
		return identity.Guest()
	}
	credential, err := s.credentials.Credential(ctx)
	if err != nil {
		s.logger.Warn("failed to read credential, treating session as guest", zap.Error(err))
		return identity.Guest()
	}
	if credential == "" {
		return identity.Guest()
	}
	if s.resolver == nil {
		return identity.Identity{Credential: credential}
	}
	ident, err := s.resolver.Resolve(ctx, credential)
	if err != nil {
		s.logger.Warn("invalid credential, treating session as guest", zap.Error(err))
		return identity.Guest()
	}
	ident.Credential = credential
	return ident
}

func (s *Store) isPrivileged(ident identity.Identity) bool {
	return len(s.privilegedRoles) > 0 && ident.HasAnyRole(s.privilegedRoles...)
}

func (s *Store) remoteEnabled(ident identity.Identity) bool {
	return s.gateway != nil && ident.Authenticated()
}

func (s *Store) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.syncTimeout > 0 {
		return context.WithTimeout(ctx, s.syncTimeout)
	}
	return context.WithCancel(ctx)
}

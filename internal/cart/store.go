package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultLocalKey = "user_cart"

	hydrateFlushTimeout = 5 * time.Second
)

// Store holds one session's cart in memory and mirrors every change to the
// local store and, for an authenticated user, to the user's remote document.
// The in-memory cart is the source of truth, the mirrors converge behind it.
type Store struct {
	local    port.LocalStore
	remote   port.CartDocumentStore
	log      logrus.FieldLogger
	tracer   trace.Tracer
	localKey string

	now func() time.Time

	mu        sync.Mutex
	items     []domain.LineItem
	userID    string
	updatedAt time.Time

	writer *writer
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		s.log = log
	}
}

func WithLocalKey(key string) Option {
	return func(s *Store) {
		s.localKey = key
	}
}

func WithUser(userID string) Option {
	return func(s *Store) {
		s.userID = userID
	}
}

func NewStore(local port.LocalStore, remote port.CartDocumentStore, opts ...Option) (*Store, error) {
	if local == nil {
		return nil, fmt.Errorf("local store is nil")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote store is nil")
	}

	s := &Store{
		local:    local,
		remote:   remote,
		log:      logrus.StandardLogger(),
		tracer:   otel.Tracer("github.com/nikolayk812/foodcart/internal/cart"),
		localKey: DefaultLocalKey,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(logrus.Fields{
		"component": "cart.store",
		"key":       s.localKey,
	})
	s.writer = startWriter(s.write)

	return s, nil
}

// Hydrate loads the cart for the current user. Anonymous sessions read the
// local store; authenticated ones prefer the remote document and fall back to
// the local store, uploading it when the user has no document yet.
// Failures are logged and leave the in-memory cart as it was.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hydrateLocked(ctx)
}

// SetUser records the authenticated identity ("" for none) and re-hydrates
// when it differs from the previous one. The cart starts empty for the new
// identity, so a failed or empty load never hands over the previous cart.
func (s *Store) SetUser(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userID == userID {
		return
	}

	s.log.WithFields(logrus.Fields{
		"from_user": s.userID,
		"to_user":   userID,
	}).Info("identity changed, re-hydrating cart")

	s.userID = userID
	// the previous owner's lines must not survive into the new identity
	s.items = []domain.LineItem{}
	s.updatedAt = time.Time{}
	s.hydrateLocked(ctx)
}

func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userID
}

func (s *Store) hydrateLocked(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "cart.hydrate", trace.WithAttributes(
		attribute.Bool("cart.authenticated", s.userID != ""),
	))
	defer span.End()

	log := s.log.WithField("user_id", s.userID)

	// pending writes of the previous state must land before the stores are read,
	// even when the caller's context is already done
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateFlushTimeout)
	err := s.writer.flush(flushCtx)
	cancel()
	if err != nil {
		log.WithError(err).Warn("pending cart writes not flushed before hydration")
	}

	items, err := s.loadLocked(ctx)
	if items != nil {
		s.items = *items
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("failed to load cart")
		return
	}

	log.WithField("items", len(s.items)).Debug("cart hydrated")
}

// loadLocked returns nil items when no store holds a cart, leaving the
// current state. Items and an error together mean the cart was loaded but
// mirroring it failed.
func (s *Store) loadLocked(ctx context.Context) (*[]domain.LineItem, error) {
	if s.userID == "" {
		return s.readLocal(ctx)
	}

	doc, found, err := s.remote.GetDocument(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("remote.GetDocument: %w", err)
	}

	if found {
		s.updatedAt = doc.UpdatedAt

		if len(doc.Items) > 0 {
			return &doc.Items, s.writeLocal(ctx, doc.Items)
		}

		empty := []domain.LineItem{}
		if err := s.local.Remove(ctx, s.localKey); err != nil {
			return &empty, fmt.Errorf("local.Remove: %w", err)
		}
		return &empty, nil
	}

	items, err := s.readLocal(ctx)
	if err != nil || items == nil {
		return items, err
	}

	if err := s.remote.SetDocument(ctx, s.userID, *items); err != nil {
		return items, fmt.Errorf("remote.SetDocument: %w", err)
	}

	return items, nil
}

func (s *Store) readLocal(ctx context.Context) (*[]domain.LineItem, error) {
	raw, found, err := s.local.Get(ctx, s.localKey)
	if err != nil {
		return nil, fmt.Errorf("local.Get: %w", err)
	}
	if !found {
		return nil, nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("local cart is not valid: %w", err)
	}
	if items == nil {
		items = []domain.LineItem{}
	}

	return &items, nil
}

func (s *Store) writeLocal(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.local.Set(ctx, s.localKey, string(raw)); err != nil {
		return fmt.Errorf("local.Set: %w", err)
	}

	return nil
}

// AddToCart merges item into the line with the same identity or appends it.
// Items from a restaurant other than the cart's are rejected with a
// *domain.RestaurantConflictError and the cart is left unchanged.
func (s *Store) AddToCart(item domain.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 {
		if current := s.items[0].RestaurantName; current != item.RestaurantName {
			return &domain.RestaurantConflictError{Current: current, Requested: item.RestaurantName}
		}
	}

	items := slices.Clone(s.items)

	if i := indexOf(items, item.Identity()); i >= 0 {
		// the existing unit price wins over the incoming one
		items[i].Qty += item.Qty
		items[i].Recalculate()
	} else {
		item.Recalculate()
		items = append(items, item)
	}

	s.replaceLocked(items, false)

	return nil
}

// UpdateCartItem replaces the line matching old with updated and recomputes
// its total. When the new identity belongs to another line the two lines are
// merged at the earlier position. Returns false if no line matches old.
func (s *Store) UpdateCartItem(old domain.Identity, updated domain.LineItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, old)
	if i < 0 {
		return false
	}

	items := slices.Clone(s.items)
	updated.Recalculate()

	j := -1
	for k := range items {
		if k != i && items[k].Identity() == updated.Identity() {
			j = k
			break
		}
	}

	if j < 0 {
		items[i] = updated
	} else {
		updated.Qty += items[j].Qty
		updated.Recalculate()

		keep, drop := min(i, j), max(i, j)
		items[keep] = updated
		items = slices.Delete(items, drop, drop+1)
	}

	s.replaceLocked(items, false)

	return true
}

// RemoveFromCart removes the line at position. Returns false when out of range.
func (s *Store) RemoveFromCart(position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 0 || position >= len(s.items) {
		return false
	}

	items := slices.Delete(slices.Clone(s.items), position, position+1)
	s.replaceLocked(items, false)

	return true
}

// RemoveItemsByRestaurant drops every line of restaurantName and returns how many were removed.
func (s *Store) RemoveItemsByRestaurant(restaurantName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.DeleteFunc(slices.Clone(s.items), func(item domain.LineItem) bool {
		return item.RestaurantName == restaurantName
	})

	removed := len(s.items) - len(items)
	if removed > 0 {
		s.replaceLocked(items, false)
	}

	return removed
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked([]domain.LineItem{}, true)
}

func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Cart{
		OwnerID:   s.userID,
		Items:     slices.Clone(s.items),
		UpdatedAt: s.updatedAt,
	}
}

func (s *Store) replaceLocked(items []domain.LineItem, cleared bool) {
	s.items = items
	s.updatedAt = s.now().UTC()
	s.persist(snapshot{
		userID:  s.userID,
		items:   slices.Clone(items),
		cleared: cleared,
	})
}

// persist hands the snapshot to the background writer without waiting for it.
func (s *Store) persist(snap snapshot) {
	if !s.writer.enqueue(snap) {
		s.log.WithField("user_id", snap.userID).Warn("cart store is closed, change not saved")
	}
}

func (s *Store) write(snap snapshot) {
	ctx, span := s.tracer.Start(context.Background(), "cart.persist", trace.WithAttributes(
		attribute.Int("cart.items", len(snap.items)),
		attribute.Bool("cart.cleared", snap.cleared),
	))
	defer span.End()

	log := s.log.WithField("user_id", snap.userID)

	var err error
	if snap.cleared {
		err = s.local.Remove(ctx, s.localKey)
		if err != nil {
			err = fmt.Errorf("local.Remove: %w", err)
		}
	} else {
		err = s.writeLocal(ctx, snap.items)
	}
	if err != nil {
		span.RecordError(err)
		log.WithError(err).Error("failed to save cart locally")
	}

	if snap.userID == "" {
		return
	}

	if err := s.remote.SetDocument(ctx, snap.userID, snap.items); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Error("failed to save cart remotely")
	}
}

// Flush blocks until every change made so far has been written.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close flushes pending changes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}

func indexOf(items []domain.LineItem, id domain.Identity) int {
	return slices.IndexFunc(items, func(item domain.LineItem) bool {
		return item.Identity() == id
	})
}

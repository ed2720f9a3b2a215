package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/sirupsen/logrus"
)

const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type session struct {
	store    *Store
	ready    chan struct{} // closed once the store is hydrated
	lastUsed time.Time
}

// Registry keeps one Store per device. Each device gets its own local key.
// Sessions idle for longer than the idle timeout are closed, and above the
// session limit the least recently used one is closed to make room.
type Registry struct {
	local     port.LocalStore
	remote    port.CartDocumentStore
	log       logrus.FieldLogger
	keyPrefix string

	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
	closed    bool
}

type RegistryOption func(*Registry)

func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.idleTimeout = d
	}
}

func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) {
		r.maxSessions = n
	}
}

func NewRegistry(local port.LocalStore, remote port.CartDocumentStore, keyPrefix string, log logrus.FieldLogger, opts ...RegistryOption) *Registry {
	if keyPrefix == "" {
		keyPrefix = DefaultLocalKey
	}

	r := &Registry{
		local:       local,
		remote:      remote,
		log:         log,
		keyPrefix:   keyPrefix,
		idleTimeout: DefaultIdleTimeout,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lastSweep = r.now()

	return r
}

// Session returns the device's store, creating and hydrating it on first use.
// Hydration runs outside the registry lock; concurrent callers for the same
// device wait for it.
func (r *Registry) Session(ctx context.Context, deviceID string) (*Store, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("deviceID is empty")
	}

	r.mu.Lock()

	if r.closed {
		r.mu.Unlock()
		return nil, ErrStoreClosed
	}

	now := r.now()

	if s, ok := r.sessions[deviceID]; ok {
		s.lastUsed = now
		r.mu.Unlock()
		return s.wait(ctx)
	}

	store, err := NewStore(r.local, r.remote,
		WithLocalKey(r.keyPrefix+":"+deviceID),
		WithLogger(r.log.WithField("device_id", deviceID)),
	)
	if err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("NewStore: %w", err)
	}

	evicted := r.evictLocked(now)

	s := &session{store: store, ready: make(chan struct{}), lastUsed: now}
	r.sessions[deviceID] = s
	r.mu.Unlock()

	r.closeEvicted(ctx, evicted)

	store.Hydrate(ctx)
	close(s.ready)

	return store, nil
}

func (s *session) wait(ctx context.Context) (*Store, error) {
	select {
	case <-s.ready:
		return s.store, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// evictLocked drops idle sessions, at most once per quarter of the idle
// timeout, and then the least recently used ones until a new session fits.
func (r *Registry) evictLocked(now time.Time) map[string]*Store {
	evicted := make(map[string]*Store)

	if r.idleTimeout > 0 && now.Sub(r.lastSweep) >= r.idleTimeout/4 {
		r.lastSweep = now
		for deviceID, s := range r.sessions {
			if now.Sub(s.lastUsed) >= r.idleTimeout {
				evicted[deviceID] = s.store
				delete(r.sessions, deviceID)
			}
		}
	}

	for r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		oldestID := ""
		var oldest time.Time
		for deviceID, s := range r.sessions {
			if oldestID == "" || s.lastUsed.Before(oldest) {
				oldestID, oldest = deviceID, s.lastUsed
			}
		}
		evicted[oldestID] = r.sessions[oldestID].store
		delete(r.sessions, oldestID)
	}

	return evicted
}

// closeEvicted flushes and stops evicted stores. Their carts stay in the local
// and remote stores and are hydrated again on the device's next request.
func (r *Registry) closeEvicted(ctx context.Context, evicted map[string]*Store) {
	if len(evicted) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for deviceID, store := range evicted {
		if err := store.Close(ctx); err != nil {
			r.log.WithError(err).WithField("device_id", deviceID).Warn("failed to close evicted cart session")
		}
	}

	r.log.WithField("evicted", len(evicted)).Debug("cart sessions evicted")
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// Close flushes and stops every session.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	var errs []error
	for deviceID, s := range sessions {
		if err := s.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("store[%s].Close: %w", deviceID, err))
		}
	}

	return errors.Join(errs...)
}

package cart_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/localstore"
)

var errUnavailable = errors.New("store unavailable")

type fakeDocuments struct {
	mu      sync.Mutex
	docs    map[string][]domain.LineItem
	updated map[string]time.Time
	getErr  error
	setErr  error
	sets    int
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{
		docs:    make(map[string][]domain.LineItem),
		updated: make(map[string]time.Time),
	}
}

func (f *fakeDocuments) GetDocument(_ context.Context, ownerID string) (domain.CartDocument, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return domain.CartDocument{}, false, f.getErr
	}

	items, ok := f.docs[ownerID]
	if !ok {
		return domain.CartDocument{}, false, nil
	}

	return domain.CartDocument{OwnerID: ownerID, Items: slices.Clone(items), UpdatedAt: f.updated[ownerID]}, true, nil
}

func (f *fakeDocuments) SetDocument(_ context.Context, ownerID string, items []domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}

	f.sets++
	f.docs[ownerID] = slices.Clone(items)
	f.updated[ownerID] = time.Now().UTC()
	return nil
}

func (f *fakeDocuments) document(ownerID string) ([]domain.LineItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.docs[ownerID]
	return items, ok
}

func (f *fakeDocuments) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.sets
}

// failingLocal wraps a memory store and fails writes when told to.
type failingLocal struct {
	*localstore.Memory

	mu      sync.Mutex
	failing bool
	// Set waits for gate to close when it is not nil
	gate chan struct{}
}

func (f *failingLocal) hold(gate chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gate = gate
}

func (f *failingLocal) fail(failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failing = failing
}

func (f *failingLocal) isFailing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.failing
}

func (f *failingLocal) Get(ctx context.Context, key string) (string, bool, error) {
	if f.isFailing() {
		return "", false, errUnavailable
	}
	return f.Memory.Get(ctx, key)
}

func (f *failingLocal) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	if f.isFailing() {
		return errUnavailable
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *failingLocal) Remove(ctx context.Context, key string) error {
	if f.isFailing() {
		return errUnavailable
	}
	return f.Memory.Remove(ctx, key)
}

package httpapi

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

type fakeMenu struct {
	mu          sync.Mutex
	items       map[uuid.UUID]domain.MenuItem
	restaurants map[string]domain.Restaurant
}

func newFakeMenu() *fakeMenu {
	return &fakeMenu{
		items:       make(map[uuid.UUID]domain.MenuItem),
		restaurants: make(map[string]domain.Restaurant),
	}
}

func (f *fakeMenu) put(item domain.MenuItem, status domain.RestaurantStatus) domain.MenuItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	f.items[item.ID] = item
	f.restaurants[item.RestaurantName] = domain.Restaurant{Name: item.RestaurantName, Status: status}

	return item
}

func (f *fakeMenu) ListItems(_ context.Context, category string) ([]domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []domain.MenuItem
	for _, item := range f.items {
		if category == "" || category == "all" || item.Category == category {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b domain.MenuItem) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return items, nil
}

func (f *fakeMenu) GetItem(_ context.Context, id uuid.UUID) (domain.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok {
		return domain.MenuItem{}, fmt.Errorf("menu item[%s]: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

func (f *fakeMenu) GetRestaurant(_ context.Context, name string) (domain.Restaurant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	restaurant, ok := f.restaurants[name]
	if !ok {
		return domain.Restaurant{}, fmt.Errorf("restaurant[%s]: %w", name, domain.ErrNotFound)
	}
	return restaurant, nil
}

func (f *fakeMenu) AddItem(_ context.Context, item domain.MenuItem) (uuid.UUID, error) {
	status := domain.RestaurantOpen

	f.mu.Lock()
	if restaurant, ok := f.restaurants[item.RestaurantName]; ok {
		status = restaurant.Status
	}
	f.mu.Unlock()

	item.ID = uuid.Nil
	return f.put(item, status).ID, nil
}

func (f *fakeMenu) UpdateItem(_ context.Context, item domain.MenuItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.items[item.ID]
	if !ok || current.RestaurantName != item.RestaurantName {
		return false, nil
	}
	item.Available = current.Available
	item.CreatedAt = current.CreatedAt
	f.items[item.ID] = item

	return true, nil
}

func (f *fakeMenu) SetItemAvailability(_ context.Context, restaurantName string, id uuid.UUID, available bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || item.RestaurantName != restaurantName {
		return false, nil
	}
	item.Available = available
	f.items[id] = item

	return true, nil
}

func (f *fakeMenu) DeleteItem(_ context.Context, restaurantName string, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || item.RestaurantName != restaurantName {
		return false, nil
	}
	delete(f.items, id)

	return true, nil
}

func (f *fakeMenu) SetRestaurantStatus(_ context.Context, name string, status domain.RestaurantStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.restaurants[name] = domain.Restaurant{Name: name, Status: status}
	return nil
}

type fakeDocuments struct {
	mu   sync.Mutex
	docs map[string][]domain.LineItem
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: make(map[string][]domain.LineItem)}
}

func (f *fakeDocuments) GetDocument(_ context.Context, ownerID string) (domain.CartDocument, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.docs[ownerID]
	if !ok {
		return domain.CartDocument{}, false, nil
	}
	return domain.CartDocument{OwnerID: ownerID, Items: slices.Clone(items)}, true, nil
}

func (f *fakeDocuments) SetDocument(_ context.Context, ownerID string, items []domain.LineItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.docs[ownerID] = slices.Clone(items)
	return nil
}

func (f *fakeDocuments) document(ownerID string) ([]domain.LineItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, ok := f.docs[ownerID]
	return items, ok
}

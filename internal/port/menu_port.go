package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
)

type MenuRepository interface {
	ListItems(ctx context.Context, category string) ([]domain.MenuItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error)
	GetRestaurant(ctx context.Context, name string) (domain.Restaurant, error)
	AddItem(ctx context.Context, item domain.MenuItem) (uuid.UUID, error)
	// UpdateItem, SetItemAvailability and DeleteItem only touch items of
	// restaurantName and report false when no such item exists.
	UpdateItem(ctx context.Context, item domain.MenuItem) (bool, error)
	SetItemAvailability(ctx context.Context, restaurantName string, id uuid.UUID, available bool) (bool, error)
	DeleteItem(ctx context.Context, restaurantName string, id uuid.UUID) (bool, error)
	SetRestaurantStatus(ctx context.Context, name string, status domain.RestaurantStatus) error
}

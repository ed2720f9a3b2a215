package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/foodcart/internal/db"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
)

type menuRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewMenu(pool *pgxpool.Pool) port.MenuRepository {
	return &menuRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewMenuWithTx(tx pgx.Tx) port.MenuRepository {
	return &menuRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *menuRepository) ListItems(ctx context.Context, category string) ([]domain.MenuItem, error) {
	var filter *string
	if category = strings.TrimSpace(category); category != "" && !strings.EqualFold(category, "all") {
		filter = &category
	}

	rows, err := r.q.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("q.ListMenuItems: %w", err)
	}

	items := make([]domain.MenuItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapMenuItemToDomain(row))
	}

	return items, nil
}

func (r *menuRepository) GetItem(ctx context.Context, id uuid.UUID) (domain.MenuItem, error) {
	row, err := r.q.GetMenuItem(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, fmt.Errorf("menu item[%s]: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("q.GetMenuItem: %w", err)
	}

	return mapMenuItemToDomain(row), nil
}

func (r *menuRepository) GetRestaurant(ctx context.Context, name string) (domain.Restaurant, error) {
	if name == "" {
		return domain.Restaurant{}, fmt.Errorf("name is empty")
	}

	row, err := r.q.GetRestaurant(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Restaurant{}, fmt.Errorf("restaurant[%s]: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Restaurant{}, fmt.Errorf("q.GetRestaurant: %w", err)
	}

	return domain.Restaurant{
		Name:   row.Name,
		Status: domain.RestaurantStatus(row.Status),
	}, nil
}

func (r *menuRepository) AddItem(ctx context.Context, item domain.MenuItem) (uuid.UUID, error) {
	if err := validateMenuItem(item); err != nil {
		return uuid.Nil, err
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (uuid.UUID, error) {
		if err := q.EnsureRestaurant(ctx, item.RestaurantName); err != nil {
			return uuid.Nil, fmt.Errorf("q.EnsureRestaurant: %w", err)
		}

		id, err := q.AddMenuItem(ctx, db.AddMenuItemParams{
			RestaurantName: item.RestaurantName,
			Name:           item.Name,
			Category:       strings.ToLower(item.Category),
			Price:          item.Price,
			Veg:            item.Veg,
			Available:      item.Available,
			ImageBase64:    item.ImageBase64,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("q.AddMenuItem: %w", err)
		}

		return id, nil
	})
}

func (r *menuRepository) UpdateItem(ctx context.Context, item domain.MenuItem) (bool, error) {
	if item.ID == uuid.Nil {
		return false, fmt.Errorf("id is empty")
	}
	if err := validateMenuItem(item); err != nil {
		return false, err
	}

	rowsAffected, err := r.q.UpdateMenuItem(ctx, db.UpdateMenuItemParams{
		ID:             item.ID,
		RestaurantName: item.RestaurantName,
		Name:           item.Name,
		Category:       strings.ToLower(item.Category),
		Price:          item.Price,
		Veg:            item.Veg,
		ImageBase64:    item.ImageBase64,
	})
	if err != nil {
		return false, fmt.Errorf("q.UpdateMenuItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *menuRepository) SetItemAvailability(ctx context.Context, restaurantName string, id uuid.UUID, available bool) (bool, error) {
	rowsAffected, err := r.q.SetMenuItemAvailability(ctx, db.SetMenuItemAvailabilityParams{
		ID:             id,
		RestaurantName: restaurantName,
		Available:      available,
	})
	if err != nil {
		return false, fmt.Errorf("q.SetMenuItemAvailability: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *menuRepository) DeleteItem(ctx context.Context, restaurantName string, id uuid.UUID) (bool, error) {
	rowsAffected, err := r.q.DeleteMenuItem(ctx, db.DeleteMenuItemParams{
		ID:             id,
		RestaurantName: restaurantName,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteMenuItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *menuRepository) SetRestaurantStatus(ctx context.Context, name string, status domain.RestaurantStatus) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if !status.Valid() {
		return fmt.Errorf("status[%s] is not valid", status)
	}

	err := r.q.SetRestaurantStatus(ctx, db.SetRestaurantStatusParams{
		Name:   name,
		Status: string(status),
	})
	if err != nil {
		return fmt.Errorf("q.SetRestaurantStatus: %w", err)
	}

	return nil
}

func validateMenuItem(item domain.MenuItem) error {
	switch {
	case item.RestaurantName == "":
		return fmt.Errorf("restaurantName is empty")
	case item.Name == "":
		return fmt.Errorf("name is empty")
	case item.Price.IsNegative():
		return fmt.Errorf("price is negative")
	}
	return nil
}

func mapMenuItemToDomain(row db.MenuItem) domain.MenuItem {
	return domain.MenuItem{
		ID:             row.ID,
		RestaurantName: row.RestaurantName,
		Name:           row.Name,
		Category:       row.Category,
		Price:          row.Price,
		Veg:            row.Veg,
		Available:      row.Available,
		ImageBase64:    row.ImageBase64,
		CreatedAt:      row.CreatedAt,
	}
}

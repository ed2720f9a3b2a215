package domain_test

import (
	"errors"
	"testing"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemValidate(t *testing.T) {
	tests := []struct {
		name      string
		item      domain.LineItem
		wantError string
	}{
		{
			name: "valid item: ok",
			item: domain.LineItem{ID: "p1", Qty: 1, Size: domain.SizeSmall, RestaurantName: "Meow Cafe"},
		},
		{
			name:      "zero qty: error",
			item:      domain.LineItem{ID: "p1", Qty: 0, Size: domain.SizeSmall, RestaurantName: "Meow Cafe"},
			wantError: "invalid line item: qty must be at least 1, got 0",
		},
		{
			name:      "empty restaurant: error",
			item:      domain.LineItem{ID: "p1", Qty: 2, Size: domain.SizeLarge},
			wantError: "invalid line item: restaurantName is empty",
		},
		{
			name:      "missing size: error",
			item:      domain.LineItem{ID: "p1", Qty: 1, RestaurantName: "Meow Cafe"},
			wantError: "invalid line item: size[] is not valid",
		},
		{
			name:      "unknown size: error",
			item:      domain.LineItem{ID: "p1", Qty: 1, Size: "Huge", RestaurantName: "Meow Cafe"},
			wantError: "invalid line item: size[Huge] is not valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLineItemRecalculate(t *testing.T) {
	item := domain.LineItem{Qty: 3, PricePerUnit: decimal.RequireFromString("12.50")}
	item.Recalculate()

	assert.True(t, decimal.RequireFromString("37.50").Equal(item.TotalPrice))
}

func TestRestaurantConflictError(t *testing.T) {
	var err error = &domain.RestaurantConflictError{Current: "Meow Cafe", Requested: "Other Cafe"}

	assert.ErrorIs(t, err, domain.ErrRestaurantConflict)

	var conflict *domain.RestaurantConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Meow Cafe", conflict.Current)
}

func TestCartGroupByRestaurant(t *testing.T) {
	cart := domain.Cart{Items: []domain.LineItem{
		{ID: "a", RestaurantName: "A", TotalPrice: decimal.NewFromInt(100)},
		{ID: "b", RestaurantName: "B", TotalPrice: decimal.NewFromInt(40)},
		{ID: "c", RestaurantName: "A", TotalPrice: decimal.NewFromInt(60)},
	}}

	groups := cart.GroupByRestaurant()
	require.Len(t, groups, 2)

	assert.Equal(t, "A", groups[0].RestaurantName)
	assert.Len(t, groups[0].Items, 2)
	assert.True(t, decimal.NewFromInt(160).Equal(groups[0].Total))
	assert.Equal(t, "B", groups[1].RestaurantName)

	assert.Equal(t, "A", cart.Restaurant())
	assert.True(t, decimal.NewFromInt(200).Equal(cart.Total()))
	assert.Len(t, cart.ItemsFor("B"), 1)
}

func TestEmptyCart(t *testing.T) {
	var cart domain.Cart

	assert.Empty(t, cart.Restaurant())
	assert.True(t, cart.Total().IsZero())
	assert.Empty(t, cart.GroupByRestaurant())
}

package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMenuItemUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		category string
		size     domain.Size
		want     int64
	}{
		{name: "pizza small", category: "pizza", size: domain.SizeSmall, want: 100},
		{name: "pizza medium", category: "Pizza", size: domain.SizeMedium, want: 130},
		{name: "pizza large", category: "PIZZA", size: domain.SizeLarge, want: 160},
		{name: "burger ignores size", category: "burger", size: domain.SizeLarge, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := domain.MenuItem{Category: tt.category, Price: decimal.NewFromInt(100)}
			assert.True(t, decimal.NewFromInt(tt.want).Equal(item.UnitPrice(tt.size)), "got %s", item.UnitPrice(tt.size))
		})
	}
}

func TestMenuItemLineItemDefaults(t *testing.T) {
	menuItem := domain.MenuItem{
		ID:             uuid.New(),
		RestaurantName: "Meow Cafe",
		Name:           "Veg Pizza",
		Category:       "pizza",
		Price:          decimal.NewFromInt(100),
	}

	item := menuItem.LineItem(domain.Selection{})

	assert.Equal(t, menuItem.ID.String(), item.ID)
	assert.Equal(t, 1, item.Qty)
	assert.Equal(t, domain.SizeMedium, item.Size)
	assert.True(t, item.Veg)
	assert.True(t, decimal.NewFromInt(130).Equal(item.PricePerUnit))
	assert.True(t, decimal.NewFromInt(130).Equal(item.TotalPrice))
	assert.Equal(t, "Meow Cafe", item.RestaurantName)
}

func TestMenuItemLineItemSelection(t *testing.T) {
	veg := false
	menuItem := domain.MenuItem{ID: uuid.New(), Category: "pizza", Price: decimal.NewFromInt(200)}

	item := menuItem.LineItem(domain.Selection{Qty: 2, Size: domain.SizeLarge, Veg: &veg})

	assert.False(t, item.Veg)
	assert.True(t, decimal.NewFromInt(520).Equal(item.TotalPrice))
}

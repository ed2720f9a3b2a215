package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRestaurantConflict = errors.New("restaurant conflict")
	ErrInvalidLineItem    = errors.New("invalid line item")
)

// RestaurantConflictError is returned when an item from another restaurant
// is added to a non-empty cart.
type RestaurantConflictError struct {
	Current   string
	Requested string
}

func (e *RestaurantConflictError) Error() string {
	return fmt.Sprintf("cart holds items from %q, cannot add items from %q", e.Current, e.Requested)
}

func (e *RestaurantConflictError) Is(target error) bool {
	return target == ErrRestaurantConflict
}

type Size string

const (
	SizeSmall  Size = "Small"
	SizeMedium Size = "Medium"
	SizeLarge  Size = "Large"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Identity decides whether two line items are the same cart line.
type Identity struct {
	ID   string `json:"id"`
	Size Size   `json:"size"`
	Veg  bool   `json:"veg"`
}

type LineItem struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ImageBase64    *string         `json:"imageBase64"`
	Qty            int             `json:"qty"`
	Veg            bool            `json:"veg"`
	Size           Size            `json:"size"`
	PricePerUnit   decimal.Decimal `json:"pricePerUnit"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	RestaurantName string          `json:"restaurantName"`
}

func (i LineItem) Identity() Identity {
	return Identity{ID: i.ID, Size: i.Size, Veg: i.Veg}
}

// Recalculate sets TotalPrice to Qty * PricePerUnit.
func (i *LineItem) Recalculate() {
	i.TotalPrice = i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Qty)))
}

func (i LineItem) Validate() error {
	if i.Qty < 1 {
		return fmt.Errorf("%w: qty must be at least 1, got %d", ErrInvalidLineItem, i.Qty)
	}
	if i.RestaurantName == "" {
		return fmt.Errorf("%w: restaurantName is empty", ErrInvalidLineItem)
	}
	if !i.Size.Valid() {
		return fmt.Errorf("%w: size[%s] is not valid", ErrInvalidLineItem, i.Size)
	}
	return nil
}

type Cart struct {
	OwnerID string
	Items   []LineItem
	// UpdatedAt is when the cart last changed, zero when unknown.
	UpdatedAt time.Time
}

// Restaurant returns the restaurant all lines belong to, or "" for an empty cart.
func (c Cart) Restaurant() string {
	if len(c.Items) == 0 {
		return ""
	}
	return c.Items[0].RestaurantName
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

func (c Cart) ItemsFor(restaurantName string) []LineItem {
	var items []LineItem
	for _, item := range c.Items {
		if item.RestaurantName == restaurantName {
			items = append(items, item)
		}
	}
	return items
}

type RestaurantGroup struct {
	RestaurantName string          `json:"restaurantName"`
	Items          []LineItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
}

// GroupByRestaurant groups lines in order of first appearance.
func (c Cart) GroupByRestaurant() []RestaurantGroup {
	var groups []RestaurantGroup
	index := make(map[string]int)

	for _, item := range c.Items {
		i, ok := index[item.RestaurantName]
		if !ok {
			i = len(groups)
			index[item.RestaurantName] = i
			groups = append(groups, RestaurantGroup{RestaurantName: item.RestaurantName, Total: decimal.Zero})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Total = groups[i].Total.Add(item.TotalPrice)
	}

	return groups
}

// CartDocument is the remote per-user copy of a cart.
type CartDocument struct {
	OwnerID   string
	Items     []LineItem
	UpdatedAt time.Time
}

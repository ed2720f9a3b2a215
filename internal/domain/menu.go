package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrItemUnavailable  = errors.New("item is not available")
	ErrRestaurantClosed = errors.New("restaurant is closed")
)

type RestaurantStatus string

const (
	RestaurantOpen   RestaurantStatus = "open"
	RestaurantClosed RestaurantStatus = "closed"
)

func (s RestaurantStatus) Valid() bool {
	return s == RestaurantOpen || s == RestaurantClosed
}

type Restaurant struct {
	Name   string
	Status RestaurantStatus
}

const categoryPizza = "pizza"

var pizzaSurcharge = map[Size]decimal.Decimal{
	SizeSmall:  decimal.Zero,
	SizeMedium: decimal.NewFromInt(30),
	SizeLarge:  decimal.NewFromInt(60),
}

type MenuItem struct {
	ID             uuid.UUID
	RestaurantName string
	Name           string
	Category       string
	Price          decimal.Decimal
	Veg            bool
	Available      bool
	ImageBase64    *string

	CreatedAt time.Time
}

// HasSizes reports whether the item's price depends on the selected size.
func (m MenuItem) HasSizes() bool {
	return strings.EqualFold(m.Category, categoryPizza)
}

// UnitPrice is the price of one unit in the given size.
func (m MenuItem) UnitPrice(size Size) decimal.Decimal {
	if !m.HasSizes() {
		return m.Price
	}
	return m.Price.Add(pizzaSurcharge[size])
}

// Selection is what a user picked for a menu item before adding it to the cart.
// Zero values fall back to qty 1, Medium and veg.
type Selection struct {
	Qty  int
	Size Size
	Veg  *bool
}

func (s Selection) WithDefaults() Selection {
	if s.Qty < 1 {
		s.Qty = 1
	}
	if s.Size == "" {
		s.Size = SizeMedium
	}
	if s.Veg == nil {
		veg := true
		s.Veg = &veg
	}
	return s
}

// LineItem builds the cart line for this menu item and selection.
func (m MenuItem) LineItem(sel Selection) LineItem {
	sel = sel.WithDefaults()

	item := LineItem{
		ID:             m.ID.String(),
		Name:           m.Name,
		ImageBase64:    m.ImageBase64,
		Qty:            sel.Qty,
		Veg:            *sel.Veg,
		Size:           sel.Size,
		PricePerUnit:   m.UnitPrice(sel.Size),
		RestaurantName: m.RestaurantName,
	}
	item.Recalculate()

	return item
}

package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/currency"
)

// Cart is the part of the cart store checkout works with.
type Cart interface {
	AddToCart(item domain.LineItem) error
	Cart() domain.Cart
	RemoveItemsByRestaurant(restaurantName string) int
}

type Service struct {
	menu     port.MenuRepository
	currency currency.Unit
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewService(menu port.MenuRepository, unit currency.Unit, log logrus.FieldLogger) *Service {
	return &Service{
		menu:     menu,
		currency: unit,
		log:      log.WithField("component", "checkout"),
		now:      time.Now,
	}
}

// AddMenuItem prices the selected menu item and adds it to the cart. Items
// that are unavailable or whose restaurant is closed are rejected.
func (s *Service) AddMenuItem(ctx context.Context, c Cart, itemID uuid.UUID, sel domain.Selection) (domain.LineItem, error) {
	if sel.Size != "" && !sel.Size.Valid() {
		return domain.LineItem{}, fmt.Errorf("%w: size[%s] is not valid", domain.ErrInvalidLineItem, sel.Size)
	}

	menuItem, err := s.menu.GetItem(ctx, itemID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("menu.GetItem: %w", err)
	}

	restaurant, err := s.menu.GetRestaurant(ctx, menuItem.RestaurantName)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("menu.GetRestaurant: %w", err)
	}

	if !menuItem.Available {
		return domain.LineItem{}, fmt.Errorf("menu item[%s]: %w", itemID, domain.ErrItemUnavailable)
	}
	if restaurant.Status == domain.RestaurantClosed {
		return domain.LineItem{}, fmt.Errorf("restaurant[%s]: %w", restaurant.Name, domain.ErrRestaurantClosed)
	}

	item := menuItem.LineItem(sel)
	if err := c.AddToCart(item); err != nil {
		return domain.LineItem{}, err
	}

	return item, nil
}

// PlaceOrder confirms an order for the restaurant's lines and removes them
// from the cart. The payment method is recorded as given, nothing is charged.
func (s *Service) PlaceOrder(c Cart, restaurantName string, method domain.PaymentMethod) (domain.OrderConfirmation, error) {
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return domain.OrderConfirmation{}, err
	}

	current := c.Cart()
	items := current.ItemsFor(restaurantName)
	if len(items) == 0 {
		return domain.OrderConfirmation{}, fmt.Errorf("restaurant[%s]: %w", restaurantName, domain.ErrEmptyOrder)
	}

	order := domain.OrderConfirmation{
		ID:             uuid.New(),
		RestaurantName: restaurantName,
		PaymentMethod:  method,
		Items:          items,
		Total:          domain.NewMoney(domain.Cart{Items: items}.Total(), s.currency),
		PlacedAt:       s.now().UTC(),
	}

	c.RemoveItemsByRestaurant(restaurantName)

	s.log.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"user_id":    current.OwnerID,
		"restaurant": restaurantName,
		"payment":    method,
		"total":      order.Total.String(),
	}).Info("order placed")

	return order, nil
}

package httpapi

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/auth"
	"github.com/nikolayk812/foodcart/internal/cart"
	"github.com/nikolayk812/foodcart/internal/checkout"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	HeaderDeviceID = "X-Device-ID"

	localsStore = "cart.store"
)

// CartHandler serves one cart session per device. The bearer token, when
// present, decides whose cart the session holds.
type CartHandler struct {
	registry *cart.Registry
	checkout *checkout.Service
	log      logrus.FieldLogger
}

func NewCartHandler(registry *cart.Registry, checkout *checkout.Service, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{registry: registry, checkout: checkout, log: log}
}

func (h *CartHandler) RegisterRoutes(app *fiber.App) {
	cartGroup := app.Group("/api/v1/cart", h.session)

	cartGroup.Get("", h.getCart)
	cartGroup.Delete("", h.clearCart)
	cartGroup.Post("/items", h.addItem)
	cartGroup.Put("/items", h.updateItem)
	cartGroup.Delete("/items/:position", h.removeItem)
	cartGroup.Delete("/restaurants/:name", h.removeRestaurant)
	cartGroup.Post("/menu-items/:id", h.addMenuItem)

	app.Post("/api/v1/orders", h.session, h.placeOrder)
}

func (h *CartHandler) session(c *fiber.Ctx) error {
	deviceID := c.Get(HeaderDeviceID)
	if deviceID == "" {
		return badRequest(c, "missing "+HeaderDeviceID+" header")
	}

	store, err := h.registry.Session(c.UserContext(), deviceID)
	if err != nil {
		return err
	}

	userID, _ := auth.UserID(c)
	store.SetUser(c.UserContext(), userID)

	c.Locals(localsStore, store)
	return c.Next()
}

func storeFrom(c *fiber.Ctx) *cart.Store {
	return c.Locals(localsStore).(*cart.Store)
}

type cartResponse struct {
	OwnerID        string                   `json:"ownerId,omitempty"`
	RestaurantName string                   `json:"restaurantName,omitempty"`
	Items          []domain.LineItem        `json:"items"`
	Groups         []domain.RestaurantGroup `json:"groups"`
	Total          decimal.Decimal          `json:"total"`
	UpdatedAt      *time.Time               `json:"updatedAt,omitempty"`
}

func toCartResponse(current domain.Cart) cartResponse {
	resp := cartResponse{
		OwnerID:        current.OwnerID,
		RestaurantName: current.Restaurant(),
		Items:          current.Items,
		Groups:         current.GroupByRestaurant(),
		Total:          current.Total(),
	}
	if resp.Items == nil {
		resp.Items = []domain.LineItem{}
	}
	if resp.Groups == nil {
		resp.Groups = []domain.RestaurantGroup{}
	}
	if !current.UpdatedAt.IsZero() {
		resp.UpdatedAt = &current.UpdatedAt
	}
	return resp
}

func (h *CartHandler) getCart(c *fiber.Ctx) error {
	return c.JSON(toCartResponse(storeFrom(c).Cart()))
}

func (h *CartHandler) addItem(c *fiber.Ctx) error {
	item := new(domain.LineItem)
	if err := c.BodyParser(item); err != nil {
		return badRequest(c, err.Error())
	}

	store := storeFrom(c)
	if err := store.AddToCart(*item); err != nil {
		return writeError(c, err)
	}

	return c.JSON(toCartResponse(store.Cart()))
}

type updateRequest struct {
	Match domain.Identity `json:"match"`
	Item  domain.LineItem `json:"item"`
}

func (h *CartHandler) updateItem(c *fiber.Ctx) error {
	payload := new(updateRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	if err := payload.Item.Validate(); err != nil {
		return writeError(c, err)
	}

	store := storeFrom(c)
	if !store.UpdateCartItem(payload.Match, payload.Item) {
		h.log.WithField("match", payload.Match).Debug("update of missing cart line ignored")
	}

	return c.JSON(toCartResponse(store.Cart()))
}

func (h *CartHandler) removeItem(c *fiber.Ctx) error {
	position, err := strconv.Atoi(c.Params("position"))
	if err != nil {
		return badRequest(c, "position must be an integer")
	}

	store := storeFrom(c)
	store.RemoveFromCart(position)

	return c.JSON(toCartResponse(store.Cart()))
}

func (h *CartHandler) removeRestaurant(c *fiber.Ctx) error {
	store := storeFrom(c)
	store.RemoveItemsByRestaurant(c.Params("name"))

	return c.JSON(toCartResponse(store.Cart()))
}

func (h *CartHandler) clearCart(c *fiber.Ctx) error {
	storeFrom(c).ClearCart()
	return c.SendStatus(fiber.StatusNoContent)
}

type selectionRequest struct {
	Qty  int         `json:"qty"`
	Size domain.Size `json:"size"`
	Veg  *bool       `json:"veg"`
}

func (h *CartHandler) addMenuItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "id must be a UUID")
	}

	payload := new(selectionRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return badRequest(c, err.Error())
		}
	}

	store := storeFrom(c)
	_, err = h.checkout.AddMenuItem(c.UserContext(), store, itemID, domain.Selection{
		Qty:  payload.Qty,
		Size: payload.Size,
		Veg:  payload.Veg,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(toCartResponse(store.Cart()))
}

type orderRequest struct {
	RestaurantName string `json:"restaurantName"`
	PaymentMethod  string `json:"paymentMethod"`
}

type orderResponse struct {
	ID             string            `json:"id"`
	RestaurantName string            `json:"restaurantName"`
	PaymentMethod  string            `json:"paymentMethod"`
	Items          []domain.LineItem `json:"items"`
	Total          decimal.Decimal   `json:"total"`
	Currency       string            `json:"currency"`
	PlacedAt       time.Time         `json:"placedAt"`
}

func (h *CartHandler) placeOrder(c *fiber.Ctx) error {
	payload := new(orderRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	if payload.RestaurantName == "" {
		return badRequest(c, "restaurantName is required")
	}

	method, err := domain.ParsePaymentMethod(payload.PaymentMethod)
	if err != nil {
		return writeError(c, err)
	}

	order, err := h.checkout.PlaceOrder(storeFrom(c), payload.RestaurantName, method)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(orderResponse{
		ID:             order.ID.String(),
		RestaurantName: order.RestaurantName,
		PaymentMethod:  string(order.PaymentMethod),
		Items:          order.Items,
		Total:          order.Total.Amount,
		Currency:       order.Total.Currency.String(),
		PlacedAt:       order.PlacedAt,
	})
}

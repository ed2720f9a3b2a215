package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/foodcart/internal/auth"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type MenuHandler struct {
	menu port.MenuRepository
	log  logrus.FieldLogger
}

func NewMenuHandler(menu port.MenuRepository, log logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{menu: menu, log: log}
}

func (h *MenuHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/v1/menu", h.listItems)

	admin := app.Group("/api/v1/admin", requireAdmin)
	admin.Post("/menu-items", h.addItem)
	admin.Put("/menu-items/:id", h.updateItem)
	admin.Patch("/menu-items/:id", h.setAvailability)
	admin.Delete("/menu-items/:id", h.deleteItem)
	admin.Put("/restaurants/:name/status", h.setRestaurantStatus)
}

const localsRestaurant = "admin.restaurant"

// requireAdmin lets through admins of a restaurant; admin writes are scoped to it.
func requireAdmin(c *fiber.Ctx) error {
	if _, ok := auth.UserID(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
	}

	restaurant, ok := auth.AdminRestaurant(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "restaurant admin role required"})
	}

	c.Locals(localsRestaurant, restaurant)
	return c.Next()
}

func adminRestaurant(c *fiber.Ctx) string {
	return c.Locals(localsRestaurant).(string)
}

func forbidden(c *fiber.Ctx, restaurant string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not an admin of " + restaurant})
}

type menuItemDTO struct {
	ID             uuid.UUID       `json:"id"`
	RestaurantName string          `json:"restaurantName"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Veg            bool            `json:"veg"`
	Available      bool            `json:"available"`
	ImageBase64    *string         `json:"imageBase64,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func toMenuItemDTO(item domain.MenuItem) menuItemDTO {
	return menuItemDTO{
		ID:             item.ID,
		RestaurantName: item.RestaurantName,
		Name:           item.Name,
		Category:       item.Category,
		Price:          item.Price,
		Veg:            item.Veg,
		Available:      item.Available,
		ImageBase64:    item.ImageBase64,
		CreatedAt:      item.CreatedAt,
	}
}

func (h *MenuHandler) listItems(c *fiber.Ctx) error {
	items, err := h.menu.ListItems(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}

	resp := make([]menuItemDTO, 0, len(items))
	for _, item := range items {
		resp = append(resp, toMenuItemDTO(item))
	}

	return c.JSON(resp)
}

type addMenuItemRequest struct {
	RestaurantName string          `json:"restaurantName"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Price          decimal.Decimal `json:"price"`
	Veg            bool            `json:"veg"`
	Available      *bool           `json:"available"`
	ImageBase64    *string         `json:"imageBase64"`
}

func (h *MenuHandler) addItem(c *fiber.Ctx) error {
	payload := new(addMenuItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}

	restaurant := adminRestaurant(c)
	if payload.RestaurantName == "" {
		payload.RestaurantName = restaurant
	}
	if payload.RestaurantName != restaurant {
		return forbidden(c, payload.RestaurantName)
	}

	switch {
	case payload.Name == "":
		return badRequest(c, "name is required")
	case payload.Price.IsNegative():
		return badRequest(c, "price must not be negative")
	}

	available := true
	if payload.Available != nil {
		available = *payload.Available
	}

	id, err := h.menu.AddItem(c.UserContext(), domain.MenuItem{
		RestaurantName: payload.RestaurantName,
		Name:           payload.Name,
		Category:       payload.Category,
		Price:          payload.Price,
		Veg:            payload.Veg,
		Available:      available,
		ImageBase64:    payload.ImageBase64,
	})
	if err != nil {
		return err
	}

	h.log.WithFields(logrus.Fields{
		"menu_item_id": id,
		"restaurant":   payload.RestaurantName,
	}).Info("menu item added")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

type updateMenuItemRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Veg         bool            `json:"veg"`
	ImageBase64 *string         `json:"imageBase64"`
}

// updateItem replaces the editable fields of an item; availability has its own route.
func (h *MenuHandler) updateItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "id must be a UUID")
	}

	payload := new(updateMenuItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}

	switch {
	case payload.Name == "":
		return badRequest(c, "name is required")
	case payload.Price.IsNegative():
		return badRequest(c, "price must not be negative")
	}

	updated, err := h.menu.UpdateItem(c.UserContext(), domain.MenuItem{
		ID:             id,
		RestaurantName: adminRestaurant(c),
		Name:           payload.Name,
		Category:       payload.Category,
		Price:          payload.Price,
		Veg:            payload.Veg,
		ImageBase64:    payload.ImageBase64,
	})
	if err != nil {
		return err
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
	}

	h.log.WithField("menu_item_id", id).Info("menu item updated")

	return c.SendStatus(fiber.StatusNoContent)
}

type availabilityRequest struct {
	Available *bool `json:"available"`
}

func (h *MenuHandler) setAvailability(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "id must be a UUID")
	}

	payload := new(availabilityRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	if payload.Available == nil {
		return badRequest(c, "available is required")
	}

	updated, err := h.menu.SetItemAvailability(c.UserContext(), adminRestaurant(c), id, *payload.Available)
	if err != nil {
		return err
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MenuHandler) deleteItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "id must be a UUID")
	}

	deleted, err := h.menu.DeleteItem(c.UserContext(), adminRestaurant(c), id)
	if err != nil {
		return err
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "menu item not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type restaurantStatusRequest struct {
	Status domain.RestaurantStatus `json:"status"`
}

func (h *MenuHandler) setRestaurantStatus(c *fiber.Ctx) error {
	payload := new(restaurantStatusRequest)
	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, err.Error())
	}
	if !payload.Status.Valid() {
		return badRequest(c, "status must be open or closed")
	}

	name := c.Params("name")
	if name != adminRestaurant(c) {
		return forbidden(c, name)
	}

	if err := h.menu.SetRestaurantStatus(c.UserContext(), name, payload.Status); err != nil {
		return writeError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

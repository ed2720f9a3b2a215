package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nikolayk812/foodcart/internal/auth"
	"github.com/nikolayk812/foodcart/internal/cart"
	"github.com/nikolayk812/foodcart/internal/checkout"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Registry  *cart.Registry
	Checkout  *checkout.Service
	Menu      port.MenuRepository
	JWTSecret string
	Log       logrus.FieldLogger
	Checks    map[string]HealthCheck
}

func NewApp(deps Deps) *fiber.App {
	log := deps.Log.WithField("component", "httpapi")

	app := fiber.New(fiber.Config{
		AppName:      "foodcart",
		UnescapePath: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
		},
	})

	app.Get("/healthz", healthHandler(deps.Checks))

	app.Use(auth.Middleware(deps.JWTSecret))

	NewCartHandler(deps.Registry, deps.Checkout, log).RegisterRoutes(app)
	NewMenuHandler(deps.Menu, log).RegisterRoutes(app)

	return app
}

func healthHandler(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		failing := fiber.Map{}
		for name, check := range checks {
			if err := check(c.UserContext()); err != nil {
				failing[name] = err.Error()
			}
		}

		if len(failing) > 0 {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "unhealthy", "failing": failing})
		}
		return c.JSON(fiber.Map{"message": "ok"})
	}
}

// statusFor maps domain errors to HTTP status codes, 0 means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRestaurantConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLineItem), errors.Is(err, domain.ErrInvalidPaymentMethod):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrItemUnavailable), errors.Is(err, domain.ErrRestaurantClosed), errors.Is(err, domain.ErrEmptyOrder):
		return fiber.StatusUnprocessableEntity
	}
	return 0
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == 0 {
		return err
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": message})
}

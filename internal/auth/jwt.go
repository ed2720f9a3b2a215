package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ClaimUserID     = "user_id"
	ClaimRole       = "role"
	ClaimRestaurant = "restaurant"

	RoleAdmin = "admin"

	contextKey = "user"
)

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret is empty")
	}

	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs an HS256 token for userID. role may be empty; admin tokens
// must name the restaurant the admin manages.
func (i *Issuer) Issue(userID, role, restaurant string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("userID is empty")
	}
	if role == RoleAdmin && restaurant == "" {
		return "", fmt.Errorf("restaurant is empty")
	}

	now := i.now()
	claims := jwt.MapClaims{
		ClaimUserID: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(i.ttl).Unix(),
	}
	if role != "" {
		claims[ClaimRole] = role
	}
	if restaurant != "" {
		claims[ClaimRestaurant] = restaurant
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}

	return signed, nil
}

// Middleware verifies bearer tokens when present. Requests without an
// Authorization header pass through as anonymous.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ContextKey: contextKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		},
	})
}

// UserID returns the authenticated user of the request, false for anonymous ones.
func UserID(c *fiber.Ctx) (string, bool) {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return "", false
	}

	switch v := claims[ClaimUserID].(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatInt(int64(v), 10), true
	}

	return "", false
}

func IsAdmin(c *fiber.Ctx) bool {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return false
	}

	role, _ := claims[ClaimRole].(string)
	return role == RoleAdmin
}

// AdminRestaurant returns the restaurant an admin token manages, false for
// anyone who is not an admin of some restaurant.
func AdminRestaurant(c *fiber.Ctx) (string, bool) {
	if !IsAdmin(c) {
		return "", false
	}

	claims, _ := claimsFromCtx(c)
	restaurant, _ := claims[ClaimRestaurant].(string)

	return restaurant, restaurant != ""
}

func claimsFromCtx(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals(contextKey).(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

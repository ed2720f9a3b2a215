package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder           = errors.New("no items to order")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// PaymentMethod is a label only, no transaction is made.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentUPI            PaymentMethod = "UPI"
	PaymentCard           PaymentMethod = "Card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch pm := PaymentMethod(s); pm {
	case PaymentCashOnDelivery, PaymentUPI, PaymentCard:
		return pm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, s)
}

type OrderConfirmation struct {
	ID             uuid.UUID
	RestaurantName string
	PaymentMethod  PaymentMethod
	Items          []LineItem
	Total          Money
	PlacedAt       time.Time
}

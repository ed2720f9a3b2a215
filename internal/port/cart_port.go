package port

import (
	"context"

	"github.com/nikolayk812/foodcart/internal/domain"
)

// LocalStore is the device-local key-value store the cart is mirrored to.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// CartDocumentStore keeps one cart document per authenticated user.
type CartDocumentStore interface {
	GetDocument(ctx context.Context, ownerID string) (domain.CartDocument, bool, error)
	SetDocument(ctx context.Context, ownerID string, items []domain.LineItem) error
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/foodcart/internal/db"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/port"
)

type cartDocumentRepository struct {
	q *db.Queries
}

func NewCartDocuments(pool *pgxpool.Pool) port.CartDocumentStore {
	return &cartDocumentRepository{
		q: db.New(pool),
	}
}

func (r *cartDocumentRepository) GetDocument(ctx context.Context, ownerID string) (domain.CartDocument, bool, error) {
	if ownerID == "" {
		return domain.CartDocument{}, false, fmt.Errorf("ownerID is empty")
	}

	row, err := r.q.GetCartDocument(ctx, ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CartDocument{}, false, nil
	}
	if err != nil {
		return domain.CartDocument{}, false, fmt.Errorf("q.GetCartDocument: %w", err)
	}

	doc, err := mapUserCartToDomain(row)
	if err != nil {
		return domain.CartDocument{}, false, fmt.Errorf("mapUserCartToDomain: %w", err)
	}

	return doc, true, nil
}

func (r *cartDocumentRepository) SetDocument(ctx context.Context, ownerID string, items []domain.LineItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}

	// an empty cart is stored as [] so that it reads back as an existing document without items
	if items == nil {
		items = []domain.LineItem{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = r.q.UpsertCartDocument(ctx, db.UpsertCartDocumentParams{
		OwnerID: ownerID,
		Items:   raw,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCartDocument: %w", err)
	}

	return nil
}

func mapUserCartToDomain(row db.UserCart) (domain.CartDocument, error) {
	var items []domain.LineItem

	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return domain.CartDocument{}, fmt.Errorf("items of owner[%s] are not valid: %w", row.OwnerID, err)
		}
	}

	return domain.CartDocument{
		OwnerID:   row.OwnerID,
		Items:     items,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

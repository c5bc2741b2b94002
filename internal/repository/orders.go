package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"rakitin/internal/models"
	"rakitin/internal/store"
)

type Orders struct {
	store store.Store
	log   *zap.Logger
}

// Recent returns the n newest orders. It does not fall back to an unordered
// fetch; callers decide how to degrade.
func (r *Orders) Recent(ctx context.Context, n int) ([]models.Order, error) {
	docs, err := r.store.List(ctx, models.CollectionOrders, store.ListOptions{Newest: true, Limit: n})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return decodeAll(docs, r.log, models.CollectionOrders, func(o *models.Order, doc store.Document) {
		o.ID = doc.ID
		if o.CreatedAt.IsZero() {
			o.CreatedAt = doc.CreatedAt
		}
	}), nil
}

func (r *Orders) UpdateStatus(ctx context.Context, id, status string) error {
	return merge(ctx, r.store, models.CollectionOrders, id, map[string]any{"status": status})
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"rakitin/internal/models"
	"rakitin/internal/store"
)

type Stock struct {
	store store.Store
	log   *zap.Logger
}

// StockChanges are the fields edit_stok overwrites.
type StockChanges struct {
	NamaBarang string
	SKU        string
	Kategori   string
	Stok       models.Quantity
	Satuan     string
}

func (c StockChanges) fields() map[string]any {
	return map[string]any{
		"nama_barang": c.NamaBarang,
		"sku":         c.SKU,
		"kategori":    c.Kategori,
		"stok":        c.Stok,
		"satuan":      c.Satuan,
	}
}

func (r *Stock) Create(ctx context.Context, item *models.StockItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	doc, err := encode(item.ID, item.CreatedAt, item)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, models.CollectionStock, doc); err != nil {
		return fmt.Errorf("failed to create stock item: %w", err)
	}
	return nil
}

func (r *Stock) Update(ctx context.Context, id string, c StockChanges) error {
	return merge(ctx, r.store, models.CollectionStock, id, c.fields())
}

func (r *Stock) Get(ctx context.Context, id string) (*models.StockItem, error) {
	doc, err := r.store.Get(ctx, models.CollectionStock, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock item %s: %w", id, err)
	}
	items := decodeAll([]store.Document{*doc}, r.log, models.CollectionStock, fixStock)
	if len(items) == 0 {
		return nil, fmt.Errorf("failed to decode stock item %s", id)
	}
	return &items[0], nil
}

// List returns items newest first.
func (r *Stock) List(ctx context.Context) ([]models.StockItem, error) {
	docs, err := listNewest(ctx, r.store, r.log, models.CollectionStock)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, r.log, models.CollectionStock, fixStock), nil
}

// All scans the whole collection without ordering.
func (r *Stock) All(ctx context.Context) ([]models.StockItem, error) {
	docs, err := r.store.List(ctx, models.CollectionStock, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", models.CollectionStock, err)
	}
	return decodeAll(docs, r.log, models.CollectionStock, fixStock), nil
}

func fixStock(item *models.StockItem, doc store.Document) {
	item.ID = doc.ID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = doc.CreatedAt
	}
}

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

type Tools struct {
	store store.Store
	log   *zap.Logger
}

type ToolChanges struct {
	NamaAlat     string
	Merk         string
	Kategori     string
	Ketersediaan models.Quantity
	Kondisi      string
}

func (c ToolChanges) fields() map[string]any {
	return map[string]any{
		"nama_alat":    c.NamaAlat,
		"merk":         c.Merk,
		"kategori":     c.Kategori,
		"ketersediaan": c.Ketersediaan,
		"kondisi":      c.Kondisi,
	}
}

// Create assigns the id, a random kode and the timestamp.
func (r *Tools) Create(ctx context.Context, tool *models.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	if tool.Kode == "" {
		tool.Kode = newCode("ALT")
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = time.Now().UTC()
	}
	doc, err := encode(tool.ID, tool.CreatedAt, tool)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, models.CollectionTools, doc); err != nil {
		return fmt.Errorf("failed to create tool: %w", err)
	}
	return nil
}

func (r *Tools) Update(ctx context.Context, id string, c ToolChanges) error {
	return merge(ctx, r.store, models.CollectionTools, id, c.fields())
}

func (r *Tools) List(ctx context.Context) ([]models.Tool, error) {
	docs, err := listNewest(ctx, r.store, r.log, models.CollectionTools)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, r.log, models.CollectionTools, func(t *models.Tool, doc store.Document) {
		t.ID = doc.ID
		if t.CreatedAt.IsZero() {
			t.CreatedAt = doc.CreatedAt
		}
	}), nil
}

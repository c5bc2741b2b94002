// Package repository turns raw store documents into typed records, one
// repository per collection.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"rakitin/internal/store"
)

type Repositories struct {
	Users   *Users
	Stock   *Stock
	Tools   *Tools
	Designs *Designs
	Orders  *Orders
}

func New(st store.Store, log *zap.Logger) *Repositories {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repositories{
		Users:   &Users{store: st},
		Stock:   &Stock{store: st, log: log},
		Tools:   &Tools{store: st, log: log},
		Designs: &Designs{store: st, log: log},
		Orders:  &Orders{store: st, log: log},
	}
}

// newCode returns a short human-readable identifier such as ALT-3F9A1C.
// Collisions are possible and tolerated.
func newCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

func encode(id string, createdAt time.Time, v any) (store.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return store.Document{}, fmt.Errorf("failed to encode document %s: %w", id, err)
	}
	return store.Document{ID: id, Data: data, CreatedAt: createdAt}, nil
}

// listNewest fetches newest-first and falls back to an unordered fetch when
// the store cannot order the collection.
func listNewest(ctx context.Context, st store.Store, log *zap.Logger, collection string) ([]store.Document, error) {
	docs, err := st.List(ctx, collection, store.ListOptions{Newest: true})
	if err == nil {
		return docs, nil
	}
	log.Warn("ordered list unavailable, falling back to unordered",
		zap.String("collection", collection), zap.Error(err))

	docs, err = st.List(ctx, collection, store.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return docs, nil
}

// decodeAll decodes each document into T, skipping malformed ones. fix copies
// the store-level id and timestamp into the record when the body lacks them.
func decodeAll[T any](docs []store.Document, log *zap.Logger, collection string, fix func(*T, store.Document)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := decodeDocument(doc.Data, &rec); err != nil {
			log.Warn("skipping malformed document",
				zap.String("collection", collection), zap.String("id", doc.ID), zap.Error(err))
			continue
		}
		fix(&rec, doc)
		out = append(out, rec)
	}
	return out
}

func merge(ctx context.Context, st store.Store, collection, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("failed to update %s: %w", collection, store.ErrNotFound)
	}
	if err := st.Merge(ctx, collection, id, fields); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

// IsNotFound reports whether err means the target document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

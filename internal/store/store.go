// Package store defines the schema-less document store the repositories are
// built on. Documents are JSON objects grouped by collection name.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrUnavailable means the collection or the index needed for the
	// requested ordering does not exist.
	ErrUnavailable = errors.New("collection or index unavailable")
)

type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
}

type ListOptions struct {
	// Newest orders by created_at descending.
	Newest bool
	// Limit of zero means no limit.
	Limit int
}

type Store interface {
	Create(ctx context.Context, collection string, doc Document) error
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Merge overwrites only the given top-level fields.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
	List(ctx context.Context, collection string, opts ListOptions) ([]Document, error)
}

// MergeJSON applies fields over an encoded JSON object and returns the result.
func MergeJSON(data json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	current := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, err
		}
	}
	for k, v := range fields {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		current[k] = encoded
	}
	return json.Marshal(current)
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"rakitin/internal/store"
)

// DocumentStore reaches the documents table through PostgREST with the
// service role key. It is used when no direct database connection is
// configured.
type DocumentStore struct {
	data *supabase.Client
}

var _ store.Store = (*DocumentStore)(nil)

func NewDocumentStore(client *Client) (*DocumentStore, error) {
	if client == nil || client.Data == nil {
		return nil, ErrNoServiceKey
	}
	return &DocumentStore{data: client.Data}, nil
}

type documentRow struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  *time.Time      `json:"created_at,omitempty"`
}

func (r documentRow) document() store.Document {
	doc := store.Document{ID: r.ID, Data: r.Data}
	if r.CreatedAt != nil {
		doc.CreatedAt = *r.CreatedAt
	}
	return doc
}

func (s *DocumentStore) Create(_ context.Context, collection string, doc store.Document) error {
	row := documentRow{Collection: collection, ID: doc.ID, Data: doc.Data}
	if !doc.CreatedAt.IsZero() {
		created := doc.CreatedAt.UTC()
		row.CreatedAt = &created
	}
	_, _, err := s.data.From(documentsTable).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert document %s/%s: %w", collection, doc.ID, restError(err))
	}
	return nil
}

func (s *DocumentStore) Get(_ context.Context, collection, id string) (*store.Document, error) {
	body, _, err := s.data.From(documentsTable).
		Select("id,data,created_at", "", false).
		Eq("collection", collection).
		Eq("id", id).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, restError(err))
	}

	var rows []documentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	doc := rows[0].document()
	return &doc, nil
}

// Merge reads the current body, applies fields and writes it back. PostgREST
// has no JSONB concatenation on update, so concurrent merges may interleave.
func (s *DocumentStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	merged, err := store.MergeJSON(current.Data, fields)
	if err != nil {
		return fmt.Errorf("failed to merge document %s/%s: %w", collection, id, err)
	}

	_, _, err = s.data.From(documentsTable).
		Update(map[string]any{"data": merged}, "minimal", "").
		Eq("collection", collection).
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, restError(err))
	}
	return nil
}

func (s *DocumentStore) List(_ context.Context, collection string, opts store.ListOptions) ([]store.Document, error) {
	q := s.data.From(documentsTable).
		Select("id,data,created_at", "", false).
		Eq("collection", collection)
	if opts.Newest {
		q = q.Order("created_at", &postgrest.OrderOpts{Ascending: false})
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit, "")
	}

	body, _, err := q.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, restError(err))
	}

	var rows []documentRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	docs := make([]store.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.document())
	}
	return docs, nil
}

// restError tags missing-relation responses with store.ErrUnavailable.
// PostgREST formats errors as "(code) message".
func restError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "(42P01)") || strings.Contains(msg, "(PGRST205)") {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

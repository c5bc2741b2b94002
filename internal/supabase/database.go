package supabase

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"rakitin/internal/store"
)

// DatabaseClient stores documents in Postgres directly. Merges use JSONB
// concatenation so concurrent field updates on one row do not clobber each
// other.
type DatabaseClient struct {
	db *sql.DB
}

var _ store.Store = (*DatabaseClient)(nil)

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// DB exposes the pool to the migrator.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) Create(ctx context.Context, collection string, doc store.Document) error {
	created := doc.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`, collection, doc.ID, []byte(doc.Data), created)
	if err != nil {
		return fmt.Errorf("failed to insert document %s/%s: %w", collection, doc.ID, pgError(err))
	}
	return nil
}

func (d *DatabaseClient) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	var (
		doc  store.Document
		data []byte
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT id, data, created_at
		FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&doc.ID, &data, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, pgError(err))
	}
	doc.Data = data
	return &doc, nil
}

func (d *DatabaseClient) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields for %s/%s: %w", collection, id, err)
	}
	res, err := d.db.ExecContext(ctx, `
		UPDATE documents
		SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2
	`, collection, id, patch)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, pgError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DatabaseClient) List(ctx context.Context, collection string, opts store.ListOptions) ([]store.Document, error) {
	query := `
		SELECT id, data, created_at
		FROM documents
		WHERE collection = $1`
	if opts.Newest {
		query += `
		ORDER BY created_at DESC`
	}
	args := []any{collection}
	if opts.Limit > 0 {
		query += `
		LIMIT $2`
		args = append(args, opts.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, pgError(err))
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var (
			doc  store.Document
			data []byte
		)
		if err := rows.Scan(&doc.ID, &data, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Data = data
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	return docs, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

func pgError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return err
}

package repository

import (
	"context"
	"fmt"
	"time"

	"rakitin/internal/models"
	"rakitin/internal/store"
)

type Users struct {
	store store.Store
}

func (r *Users) Get(ctx context.Context, uid string) (*models.User, error) {
	doc, err := r.store.Get(ctx, models.CollectionUsers, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", uid, err)
	}
	var u models.User
	if err := decodeDocument(doc.Data, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", uid, err)
	}
	u.UID = uid
	if u.CreatedAt.IsZero() {
		u.CreatedAt = doc.CreatedAt
	}
	return &u, nil
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	doc, err := encode(u.UID, u.CreatedAt, u)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, models.CollectionUsers, doc); err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.UID, err)
	}
	return nil
}

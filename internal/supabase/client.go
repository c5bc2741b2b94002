package supabase

import (
	"errors"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"rakitin/internal/config"
)

// documentsTable holds every collection; see database/migrations.
const documentsTable = "documents"

// ErrNoServiceKey is returned when a data client is needed but only the
// publishable key is configured.
var ErrNoServiceKey = errors.New("supabase service role key not configured")

// Client holds one supabase client per key. Auth carries the publishable key
// and only signs users in and up. Data carries the service role key and is
// the only client that touches the documents table; it is nil without one.
type Client struct {
	Auth *supabase.Client
	Data *supabase.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	auth, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize supabase auth client: %w", err)
	}

	c := &Client{Auth: auth}
	if cfg.SupabaseServiceKey != "" {
		data, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize supabase data client: %w", err)
		}
		c.Data = data
	}
	return c, nil
}

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

type Designs struct {
	store store.Store
	log   *zap.Logger
}

// DesignChanges are the fields edit_desain overwrites. Image is nil when no
// replacement file was uploaded.
type DesignChanges struct {
	NamaProyek string
	NamaKlien  string
	Kategori   string
	GayaDesain string
	Status     string
	Image      *DesignImage
}

type DesignImage struct {
	Format     string
	Ukuran     string
	FileBase64 string
	FileURL    string
}

func (c DesignChanges) fields() map[string]any {
	f := map[string]any{
		"nama_proyek": c.NamaProyek,
		"nama_klien":  c.NamaKlien,
		"kategori":    c.Kategori,
		"gaya_desain": c.GayaDesain,
	}
	if c.Status != "" {
		f["status"] = c.Status
	}
	if c.Image != nil {
		f["format"] = c.Image.Format
		f["ukuran"] = c.Image.Ukuran
		f["file_base64"] = c.Image.FileBase64
		if c.Image.FileURL != "" {
			f["file_url"] = c.Image.FileURL
		}
	}
	return f
}

// Create assigns the id, a random id_berkas, the default status and the
// timestamp where missing.
func (r *Designs) Create(ctx context.Context, d *models.DesignFile) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.IDBerkas == "" {
		d.IDBerkas = NewDesignCode()
	}
	if d.Status == "" {
		d.Status = models.DesignStatusPending
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	doc, err := encode(d.ID, d.CreatedAt, d)
	if err != nil {
		return err
	}
	if err := r.store.Create(ctx, models.CollectionDesigns, doc); err != nil {
		return fmt.Errorf("failed to create design file: %w", err)
	}
	return nil
}

// NewDesignCode returns a fresh id_berkas.
func NewDesignCode() string {
	return newCode("BRK")
}

func (r *Designs) Update(ctx context.Context, id string, c DesignChanges) error {
	return merge(ctx, r.store, models.CollectionDesigns, id, c.fields())
}

func (r *Designs) UpdateStatus(ctx context.Context, id, status string) error {
	return merge(ctx, r.store, models.CollectionDesigns, id, map[string]any{"status": status})
}

func (r *Designs) Get(ctx context.Context, id string) (*models.DesignFile, error) {
	doc, err := r.store.Get(ctx, models.CollectionDesigns, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get design file %s: %w", id, err)
	}
	designs := decodeAll([]store.Document{*doc}, r.log, models.CollectionDesigns, fixDesign)
	if len(designs) == 0 {
		return nil, fmt.Errorf("failed to decode design file %s", id)
	}
	return &designs[0], nil
}

func (r *Designs) List(ctx context.Context) ([]models.DesignFile, error) {
	docs, err := listNewest(ctx, r.store, r.log, models.CollectionDesigns)
	if err != nil {
		return nil, err
	}
	return decodeAll(docs, r.log, models.CollectionDesigns, fixDesign), nil
}

func fixDesign(d *models.DesignFile, doc store.Document) {
	d.ID = doc.ID
	if d.CreatedAt.IsZero() {
		d.CreatedAt = doc.CreatedAt
	}
}

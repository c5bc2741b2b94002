package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"rakitin/internal/models"
	"rakitin/internal/repository"
	"rakitin/internal/supabase"
	"rakitin/internal/upload"
)

// ErrMissingID is returned when an edit names no document.
var ErrMissingID = errors.New("missing document id")

// Archiver keeps a copy of an uploaded design outside the document store.
type Archiver interface {
	Archive(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// Author is who a design write is attributed to.
type Author struct {
	UID  string
	Name string
}

type DesignService struct {
	designs  *repository.Designs
	archiver Archiver
	log      *zap.Logger
}

// NewDesignService builds the service. archiver may be nil to keep images
// inline only.
func NewDesignService(designs *repository.Designs, archiver Archiver, log *zap.Logger) *DesignService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DesignService{designs: designs, archiver: archiver, log: log}
}

// Create encodes the optional image and inserts a design document. An
// oversized image returns upload.ErrTooLarge and nothing is written.
func (s *DesignService) Create(ctx context.Context, form models.DesignForm, file *multipart.FileHeader, by Author) (*models.DesignFile, error) {
	d := &models.DesignFile{
		IDBerkas:     repository.NewDesignCode(),
		NamaProyek:   strings.TrimSpace(form.NamaProyek),
		NamaKlien:    strings.TrimSpace(form.NamaKlien),
		Kategori:     strings.TrimSpace(form.Kategori),
		GayaDesain:   strings.TrimSpace(form.GayaDesain),
		Status:       strings.TrimSpace(form.Status),
		NamaArsitek:  by.Name,
		CreatedByUID: by.UID,
		Format:       upload.DefaultExtension,
		Ukuran:       upload.SizeMB(0),
	}

	if file != nil {
		enc, err := upload.Encode(file)
		if err != nil {
			return nil, err
		}
		d.Format = enc.Extension
		d.Ukuran = enc.SizeMB
		d.FileBase64 = enc.DataURI
		d.FileURL = s.archive(ctx, by.UID, d.IDBerkas, enc)
	}

	if err := s.designs.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update overwrites the text fields and, when file is present, the image.
// An oversized replacement aborts the whole update.
func (s *DesignService) Update(ctx context.Context, form models.DesignForm, file *multipart.FileHeader, by Author) error {
	id := strings.TrimSpace(form.ID)
	if id == "" {
		return ErrMissingID
	}

	changes := repository.DesignChanges{
		NamaProyek: strings.TrimSpace(form.NamaProyek),
		NamaKlien:  strings.TrimSpace(form.NamaKlien),
		Kategori:   strings.TrimSpace(form.Kategori),
		GayaDesain: strings.TrimSpace(form.GayaDesain),
		Status:     strings.TrimSpace(form.Status),
	}

	if file != nil {
		enc, err := upload.Encode(file)
		if err != nil {
			return err
		}
		image := &repository.DesignImage{
			Format:     enc.Extension,
			Ukuran:     enc.SizeMB,
			FileBase64: enc.DataURI,
		}
		if s.archiver != nil {
			current, err := s.designs.Get(ctx, id)
			if err != nil {
				return err
			}
			image.FileURL = s.archive(ctx, by.UID, current.IDBerkas, enc)
		}
		changes.Image = image
	}

	return s.designs.Update(ctx, id, changes)
}

func (s *DesignService) UpdateStatus(ctx context.Context, id, status string) error {
	return s.designs.UpdateStatus(ctx, id, status)
}

// archive returns the public URL, or "" when archiving is off or fails.
func (s *DesignService) archive(ctx context.Context, uid, idBerkas string, enc *upload.Encoded) string {
	if s.archiver == nil {
		return ""
	}
	path := supabase.DesignPath(uid, idBerkas, enc.Extension)
	url, err := s.archiver.Archive(ctx, path, enc.MimeType, enc.Bytes)
	if err != nil {
		s.log.Warn("design archive failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return url
}

// IsTooLarge reports whether err came from the upload size check.
func IsTooLarge(err error) bool {
	return errors.Is(err, upload.ErrTooLarge)
}

package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient archives design uploads in a public bucket.
type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, apiKey, bucket string) *StorageClient {
	baseURL := strings.TrimRight(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", apiKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// DesignPath is the object key for a design upload: designs/{uid}/{id_berkas}{ext}.
func DesignPath(uid, idBerkas, ext string) string {
	return fmt.Sprintf("designs/%s/%s%s", uid, idBerkas, strings.ToLower(ext))
}

// Archive uploads data under path, replacing any previous object, and
// returns its public URL.
func (s *StorageClient) Archive(_ context.Context, path, contentType string, data []byte) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.PublicURL(path), nil
}

func (s *StorageClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, path)
}

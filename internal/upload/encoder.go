// Package upload turns an uploaded image into the inline data URI stored on
// design documents.
package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxBytes keeps the encoded document under the store's per-document limit.
const MaxBytes = 800000

const (
	DefaultExtension = ".JPG"
	DefaultMimeType  = "image/jpeg"
)

var ErrTooLarge = errors.New("file exceeds upload limit")

type Encoded struct {
	Extension string
	SizeMB    string
	MimeType  string
	DataURI   string
	Bytes     []byte
}

// Encode reads fh fully and returns its data URI. Files over MaxBytes return
// ErrTooLarge without producing output.
func Encode(fh *multipart.FileHeader) (*Encoded, error) {
	if fh == nil {
		return nil, errors.New("no file provided")
	}
	if fh.Size > MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, MaxBytes)
	}

	mimeType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = DefaultMimeType
	}

	return &Encoded{
		Extension: Extension(fh.Filename),
		SizeMB:    SizeMB(int64(len(data))),
		MimeType:  mimeType,
		DataURI:   "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Bytes:     data,
	}, nil
}

// Extension returns the uppercased extension including the dot.
func Extension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" || ext == "." {
		return DefaultExtension
	}
	return strings.ToUpper(ext)
}

func SizeMB(n int64) string {
	return fmt.Sprintf("%.2f", float64(n)/1048576)
}

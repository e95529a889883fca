// Package storage is the blob store for uploaded images.
//
// Two drivers are available: "local" writes under a directory that the HTTP
// server exposes statically, "s3" writes to any S3-compatible bucket (AWS S3,
// MinIO, R2). Both return the public URL and the key used to address the blob.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"mocardapio-api/apperr"
	"mocardapio-api/config"

	"github.com/google/uuid"
)

// Blob identifies a stored object.
type Blob struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store is implemented by each driver.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Blob, error)
	Delete(ctx context.Context, key string) error
}

// New builds the driver selected by cfg.StorageDisk.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StorageDisk {
	case "local", "":
		return NewLocal(cfg.StorageLocalRoot, cfg.StorageURL)
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", cfg.StorageDisk)
	}
}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage sniffs the content type of r, rejects anything that is not an
// image and stores it under folder with a random name.
func UploadImage(ctx context.Context, s Store, folder string, r io.Reader) (Blob, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return Blob{}, fmt.Errorf("storage: read upload: %w", err)
	}
	if n == 0 {
		return Blob{}, apperr.Invalid("image", "empty file")
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := imageExt[contentType]
	if !ok {
		return Blob{}, apperr.Invalid("image", "unsupported content type "+contentType)
	}

	key := path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
	return s.Put(ctx, key, io.MultiReader(strings.NewReader(string(head)), r), contentType)
}

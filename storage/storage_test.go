package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mocardapio-api/apperr"
	"mocardapio-api/config"
	"mocardapio-api/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocal(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	blob, err := s.Put(ctx, "dishes/a.txt", strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/dishes/a.txt", blob.URL)
	assert.Equal(t, "dishes/a.txt", blob.PublicID)

	data, err := os.ReadFile(filepath.Join(root, "dishes", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, s.Delete(ctx, blob.PublicID))
	_, err = os.Stat(filepath.Join(root, "dishes", "a.txt"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, blob.PublicID))
}

func TestLocalKeysStayUnderRoot(t *testing.T) {
	root := t.TempDir()
	s, err := storage.NewLocal(filepath.Join(root, "uploads"), "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "uploads", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadImage(t *testing.T) {
	s, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	blob, err := storage.UploadImage(ctx, s, "/dishes/", bytes.NewReader(gif))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(blob.PublicID, "dishes/"), blob.PublicID)
	assert.True(t, strings.HasSuffix(blob.PublicID, ".gif"), blob.PublicID)

	_, err = storage.UploadImage(ctx, s, "dishes", strings.NewReader("%PDF-1.4"))
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = storage.UploadImage(ctx, s, "dishes", strings.NewReader(""))
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNew(t *testing.T) {
	s, err := storage.New(context.Background(), config.Config{StorageDisk: "local", StorageLocalRoot: t.TempDir(), StorageURL: "/u"})
	require.NoError(t, err)
	assert.IsType(t, &storage.Local{}, s)

	_, err = storage.New(context.Background(), config.Config{StorageDisk: "s3"})
	assert.Error(t, err, "bucket is required")

	_, err = storage.New(context.Background(), config.Config{StorageDisk: "ftp"})
	assert.Error(t, err)
}

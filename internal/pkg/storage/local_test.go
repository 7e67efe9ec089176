package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	stored, err := s.Upload(ctx, strings.NewReader("png-bytes"), "employees/e1/photo.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "employees/e1/photo.png", stored)

	data, err := os.ReadFile(filepath.Join(dir, "employees", "e1", "photo.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	assert.Equal(t, "http://localhost:8080/uploads/employees/e1/photo.png", s.URL(stored))
	assert.Empty(t, s.URL(""))

	require.NoError(t, s.Delete(ctx, stored))
	_, err = os.Stat(filepath.Join(dir, "employees", "e1", "photo.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, stored), "deleting twice is fine")
}

func TestLocalStorage_StaysInsideBase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(dir, "uploads"), "http://x/uploads")
	require.NoError(t, err)

	stored, err := s.Upload(ctx, strings.NewReader("x"), "../../escape.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", stored)
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoError(t, err)

	_, err = s.Upload(ctx, strings.NewReader("x"), "", "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Upload(ctx, uuid.New(), "service agreement.txt", strings.NewReader("contract body"))
	require.NoError(t, err)
	assert.NotEmpty(t, key)
	assert.NotContains(t, key, " ")

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "contract body", string(data))
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "ab/missing.txt")
	assert.Error(t, err)
}

func TestLocalStorage_Delete(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Upload(ctx, uuid.New(), "a.txt", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Download(ctx, key)
	assert.Error(t, err)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, key))
}

func TestUploadKey_Unique(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()

	assert.NotEqual(t, uploadKey(id1, "a.txt"), uploadKey(id2, "a.txt"))
	assert.Equal(t, uploadKey(id1, "a.txt"), uploadKey(id1, "a.txt"))
}

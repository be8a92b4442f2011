package services

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePhotos(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewStorageService(dir)
	require.NoError(t, err)

	payload := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))
	urls := svc.StorePhotos([]string{
		"data:image/png;base64," + payload,
		"https://cdn.example.com/already-hosted.jpg",
		"data:image/png;base64,%%%not-base64%%%",
	}, 3)

	require.Len(t, urls, 2)
	assert.True(t, strings.HasPrefix(urls[0], "/uploads/"))
	assert.True(t, strings.HasSuffix(urls[0], ".png"))
	assert.Equal(t, "https://cdn.example.com/already-hosted.jpg", urls[1])

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(urls[0], "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png-bytes"), written)
}

func TestStorePhotos_Cap(t *testing.T) {
	svc, err := NewStorageService(t.TempDir())
	require.NoError(t, err)

	urls := svc.StorePhotos([]string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, 3)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, urls)
}

package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,(.+)$`)

// StorageService persists report photos to local disk and hands back opaque
// URLs. Callers never look inside the URL again; swapping in a remote blob
// store only touches this file.
type StorageService struct {
	dir string
}

func NewStorageService(dir string) (*StorageService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &StorageService{dir: dir}, nil
}

// StorePhotos resolves up to max photo inputs to URLs. Base64 data URLs are
// decoded and written to disk; anything else is treated as an already-hosted
// URL and passed through. Undecodable entries are skipped rather than failing
// the report.
func (s *StorageService) StorePhotos(photos []string, max int) []string {
	if len(photos) > max {
		photos = photos[:max]
	}

	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		matches := dataURLPattern.FindStringSubmatch(photo)
		if matches == nil {
			urls = append(urls, photo)
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(matches[2])
		if err != nil {
			continue
		}

		name := uuid.New().String() + "." + matches[1]
		if err := os.WriteFile(filepath.Join(s.dir, name), raw, 0o644); err != nil {
			continue
		}
		urls = append(urls, "/uploads/"+name)
	}
	return urls
}

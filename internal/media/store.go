package media

import (
	"context"
	"log"
	"os"
)

// Asset is a stored media object reference.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Store uploads and deletes media objects. Callers must treat a nil asset
// or an empty URL as a failed upload, not only a non-nil error.
type Store interface {
	Upload(ctx context.Context, localPath string) (*Asset, error)
	Delete(ctx context.Context, assetURL string) error
}

// RemoveLocal deletes a spooled upload file. Best effort: failures are
// logged, never raised.
func RemoveLocal(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove temp file %s: %v", path, err)
	}
}

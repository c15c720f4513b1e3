// internal/state/blob.go
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// BlobStore stores binary asset payloads as individual files under
// assets/<key>.png. Writes to distinct keys are safe concurrently;
// callers must not write the same key concurrently.
type BlobStore struct {
	root string
}

// NewBlobStore creates a new file-backed BlobStore rooted at the given
// directory.
func NewBlobStore(root string) *BlobStore {
	return &BlobStore{root: root}
}

// Dir returns the directory blobs are written to.
func (b *BlobStore) Dir() string {
	return filepath.Join(b.root, "assets")
}

// SaveBlob writes data under the given key and returns the file path.
func (b *BlobStore) SaveBlob(_ context.Context, data []byte, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}

	dir := b.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	// Atomic write via temp file + rename
	target := filepath.Join(dir, key+".png")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write temp blob: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename temp blob: %w", err)
	}

	return target, nil
}

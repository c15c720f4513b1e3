// internal/types/interfaces.go
package types

import (
	"context"
)

// CampaignStore persists campaign manifests. Implementations own the
// on-disk layout; the engine treats storage as an external collaborator.
type CampaignStore interface {
	Put(ctx context.Context, m *Manifest) error
	Get(ctx context.Context, id CampaignID) (*Manifest, error)
	List(ctx context.Context) ([]*CampaignSummary, error)
	FindByAsset(ctx context.Context, assetID string) (*Manifest, error)
}

// BlobStore persists binary asset payloads keyed by asset id (or a
// version-qualified key during regeneration). Concurrent writers
// targeting different keys are safe; same-key concurrent writes are
// the caller's responsibility to avoid.
type BlobStore interface {
	SaveBlob(ctx context.Context, data []byte, key string) (string, error)
}

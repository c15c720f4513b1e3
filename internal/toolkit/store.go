package toolkit

import (
	"context"
	"fmt"

	"github.com/user/campaignforge/internal/types"
)

// StoreAsset writes a text payload to the blob store under an explicit key.
type StoreAsset struct {
	blobs types.BlobStore
}

// NewStoreAsset creates a new asset storage tool.
func NewStoreAsset(blobs types.BlobStore) *StoreAsset {
	return &StoreAsset{blobs: blobs}
}

func (s *StoreAsset) Kind() types.ToolKind { return types.ToolStoreAsset }

func (s *StoreAsset) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	if input.Key == "" {
		return nil, fmt.Errorf("key is required")
	}
	if input.Text == "" {
		return nil, fmt.Errorf("text is required")
	}

	path, err := s.blobs.SaveBlob(ctx, []byte(input.Text), input.Key)
	if err != nil {
		return nil, fmt.Errorf("save blob: %w", err)
	}

	return &types.ToolResult{
		Success: true,
		Path:    path,
	}, nil
}

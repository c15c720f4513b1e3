package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/user/campaignforge/internal/types"
)

// ErrAssetNotFound indicates a regeneration target that is not in the
// manifest's asset plan. The manifest is left unmodified.
var ErrAssetNotFound = errors.New("asset not found")

// Regenerate re-runs one asset's tool calls under a bumped version.
// Image assets draw a fresh seed; when modifyInstructions is non-empty
// it is appended to the prompt of every generation tool call. All of
// the asset's tool calls replay in original order, so moderation and
// embeddings are recomputed against the new content. Image blobs are
// written under a version-qualified key so prior versions survive.
func (e *Engine) Regenerate(ctx context.Context, m *types.Manifest, assetID, modifyInstructions string) error {
	var target *types.Asset
	for _, asset := range m.AssetPlan {
		if asset.ID == assetID {
			target = asset
			break
		}
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrAssetNotFound, assetID)
	}

	target.Version++

	if target.Type == types.AssetImage {
		seed := rand.Int64N(1_000_000) + 1
		target.Seed = &seed
	}

	if modifyInstructions != "" {
		for _, tc := range target.ToolCalls {
			if tc.Tool == types.ToolLLMText || tc.Tool == types.ToolImageGenerate {
				tc.Input.Prompt += "\n\nModification: " + modifyInstructions
			}
		}
	}

	e.runAsset(ctx, m, target, fmt.Sprintf("%s_v%d", assetID, target.Version))
	return nil
}

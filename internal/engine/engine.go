// Package engine executes campaign manifests: it drives every asset's
// declared tool calls through the retry executor, folds terminal
// results into the owning assets, and implements the regeneration
// protocol for single assets.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/user/campaignforge/internal/toolkit"
	"github.com/user/campaignforge/internal/types"
)

// Engine orchestrates tool-call execution across a manifest's asset
// plan. A single Engine value is safe to share across campaigns; the
// manifest passed to Execute or Regenerate must not be concurrently
// mutated by anyone else.
type Engine struct {
	exec  *Executor
	blobs types.BlobStore
}

// New creates an Engine over the given tool set and blob store. unit is
// the optional retry backoff time unit (default one second).
func New(tools *toolkit.Set, blobs types.BlobStore, unit ...time.Duration) *Engine {
	return &Engine{
		exec:  NewExecutor(tools, unit...),
		blobs: blobs,
	}
}

// Execute processes every asset in asset_plan order, running each
// asset's tool calls in their declared order, then marks the manifest
// ready. It is total: tool-level failures are recorded on the owning
// tool call and never returned. Ready does not imply every tool call
// succeeded -- callers wanting an aggregate signal must scan the asset
// plan for error fields.
func (e *Engine) Execute(ctx context.Context, m *types.Manifest) {
	for _, asset := range m.AssetPlan {
		e.runAsset(ctx, m, asset, asset.ID)
	}
	m.Status = types.StatusReady
}

// runAsset drives one asset's tool calls to terminal results. blobKey
// is the storage key for image payloads (version-qualified during
// regeneration).
func (e *Engine) runAsset(ctx context.Context, m *types.Manifest, asset *types.Asset, blobKey string) {
	for _, tc := range asset.ToolCalls {
		result, attempts := e.exec.Execute(ctx, tc)
		tc.Attempts = attempts
		tc.Result = result

		if !result.Success {
			msg := result.Error
			if msg == "" {
				msg = "Unknown error"
			}
			tc.Error = &types.ToolError{Code: "execution_failed", Message: msg}
			slog.Warn("tool call failed",
				"campaign_id", m.CampaignID,
				"asset_id", asset.ID,
				"tool_call", tc.ID,
				"tool", tc.Tool,
				"attempts", attempts,
				"error", msg,
			)
			continue
		}

		tc.Error = nil
		e.apply(ctx, asset, tc, result, blobKey)
	}
}

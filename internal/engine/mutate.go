package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/campaignforge/internal/types"
)

// apply folds a successful terminal result into the owning asset.
// Re-applying the same terminal result is idempotent. Search, embedding
// and store results stay on the tool call only; consumers read them
// from there.
func (e *Engine) apply(ctx context.Context, asset *types.Asset, tc *types.ToolCall, result *types.ToolResult, blobKey string) {
	switch tc.Tool {
	case types.ToolLLMText:
		asset.Content = result.Text
		asset.Model = result.Model

	case types.ToolImageGenerate:
		if len(result.ImageData) == 0 {
			return
		}
		path, err := e.blobs.SaveBlob(ctx, result.ImageData, blobKey)
		if err != nil {
			// Persistence is part of the image call's effect: a failed
			// write demotes the whole call to a terminal failure so the
			// asset never points at a blob that was not stored.
			msg := fmt.Sprintf("persist image: %v", err)
			tc.Result = &types.ToolResult{Success: false, Error: msg}
			tc.Error = &types.ToolError{Code: "execution_failed", Message: msg}
			slog.Warn("image persist failed", "asset_id", asset.ID, "tool_call", tc.ID, "error", err)
			return
		}
		asset.URL = path
		asset.Provider = result.Provider
		asset.Model = result.Model

	case types.ToolModeration:
		passed := true
		if result.ModerationPassed != nil {
			passed = *result.ModerationPassed
		}
		issues := result.Issues
		if issues == nil {
			issues = []string{}
		}
		asset.Safety = types.AssetSafety{
			ModerationPassed: passed,
			Issues:           issues,
		}
	}
}

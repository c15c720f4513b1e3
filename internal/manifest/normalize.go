// Package manifest normalizes raw generated campaign plans into
// canonical Manifest values. Normalization is side-effect free, calls
// no tools, and is idempotent: a canonical manifest passes through
// unchanged.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/campaignforge/internal/types"
)

// DefaultTimezone is used when the generated plan omits a timezone.
const DefaultTimezone = "Asia/Kolkata"

// topLevelKey wraps the generated plan payload.
const topLevelKey = "campaign_manifest"

// SchemaError indicates the payload could not be normalized into a
// valid Manifest. It is terminal for the whole generation request; no
// partial manifest is returned.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "schema error: " + e.Reason
}

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// synonyms maps loosely-keyed plan fields to their canonical names.
var synonyms = map[string]string{
	"campaign_strategy": "strategy",
	"assets":            "asset_plan",
	"calendar":          "posting_calendar",
}

// Normalize converts a raw generated plan into a canonical Manifest.
// brief is the original input text, used to back-fill the manifest's
// brief field when the plan omits it.
func Normalize(raw []byte, brief string) (*types.Manifest, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, schemaErrorf("plan is not a JSON object: %v", err)
	}

	inner, ok := wrapper[topLevelKey]
	if !ok {
		return nil, schemaErrorf("missing top-level %q key", topLevelKey)
	}

	var campaign map[string]any
	if err := json.Unmarshal(inner, &campaign); err != nil {
		return nil, schemaErrorf("%s is not a JSON object: %v", topLevelKey, err)
	}

	// Rename synonym keys. First occurrence wins: when both the old and
	// the canonical key are present, the canonical one is kept.
	for old, canonical := range synonyms {
		v, ok := campaign[old]
		if !ok {
			continue
		}
		if _, exists := campaign[canonical]; !exists {
			campaign[canonical] = v
		}
		delete(campaign, old)
	}

	// Back-fill required scalar fields.
	backfillScalar(campaign, "campaign_id", string(types.NewCampaignID()))
	backfillScalar(campaign, "brief", brief)
	backfillScalar(campaign, "created_at", time.Now().Format(time.RFC3339))
	backfillScalar(campaign, "timezone", DefaultTimezone)
	backfillScalar(campaign, "status", string(types.StatusDraft))

	// Back-fill required collection fields.
	for _, key := range []string{"asset_plan", "posting_calendar", "influencers"} {
		if _, ok := campaign[key]; !ok {
			campaign[key] = []any{}
		}
	}
	if _, ok := campaign["metadata"]; !ok {
		campaign["metadata"] = map[string]any{}
	}

	buf, err := json.Marshal(campaign)
	if err != nil {
		return nil, schemaErrorf("re-encode plan: %v", err)
	}

	var m types.Manifest
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, schemaErrorf("manifest shape: %v", err)
	}

	if err := validate(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// backfillScalar sets key to def when absent or empty.
func backfillScalar(m map[string]any, key, def string) {
	if v, ok := m[key]; ok {
		if s, isStr := v.(string); !isStr || s != "" {
			return
		}
	}
	m[key] = def
}

// validate enforces the structural invariants of the data model and
// applies per-asset defaults (version 1, safety {true, []}).
func validate(m *types.Manifest) error {
	seen := make(map[string]bool, len(m.AssetPlan))
	for i, asset := range m.AssetPlan {
		if asset == nil {
			return schemaErrorf("asset_plan[%d] is null", i)
		}
		if asset.ID == "" {
			return schemaErrorf("asset_plan[%d] missing id", i)
		}
		if asset.Type == "" {
			return schemaErrorf("asset %s missing type", asset.ID)
		}
		if seen[asset.ID] {
			return schemaErrorf("duplicate asset id %s", asset.ID)
		}
		seen[asset.ID] = true

		if asset.Version < 1 {
			asset.Version = 1
		}
		if asset.Safety.Issues == nil {
			asset.Safety = types.AssetSafety{ModerationPassed: true, Issues: []string{}}
		}

		if len(asset.ToolCalls) == 0 {
			return schemaErrorf("asset %s has no tool_calls", asset.ID)
		}
		if err := validateToolCalls(asset); err != nil {
			return err
		}
	}
	return nil
}

func validateToolCalls(asset *types.Asset) error {
	seen := make(map[string]bool, len(asset.ToolCalls))
	for i, tc := range asset.ToolCalls {
		if tc == nil {
			return schemaErrorf("asset %s: tool_calls[%d] is null", asset.ID, i)
		}
		if tc.Tool == "" {
			return schemaErrorf("asset %s: tool_calls[%d] missing tool", asset.ID, i)
		}
		if tc.ID == "" {
			return schemaErrorf("asset %s: tool_calls[%d] missing id", asset.ID, i)
		}
		if seen[tc.ID] {
			return schemaErrorf("asset %s: duplicate tool call id %s", asset.ID, tc.ID)
		}
		seen[tc.ID] = true

		if tc.RetryPolicy.MaxAttempts < 1 {
			return schemaErrorf("asset %s: tool call %s missing retry_policy", asset.ID, tc.ID)
		}
		if tc.RetryPolicy.Backoff == "" {
			tc.RetryPolicy.Backoff = types.BackoffExponential
		}

		switch tc.Tool {
		case types.ToolLLMText, types.ToolImageGenerate:
			if tc.Input.Prompt == "" {
				return schemaErrorf("asset %s: tool call %s missing input prompt", asset.ID, tc.ID)
			}
		case types.ToolWebSearch:
			if tc.Input.Query == "" {
				return schemaErrorf("asset %s: tool call %s missing input q", asset.ID, tc.ID)
			}
		}
	}
	return nil
}

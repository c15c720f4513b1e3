// internal/types/manifest.go
package types

import (
	"encoding/json"
)

// CampaignStatus is the lifecycle state of a campaign manifest.
// A manifest starts as draft and becomes ready once the execution
// engine has processed every asset. Ready means "processing finished",
// not "every tool call succeeded" -- callers must inspect per-tool-call
// errors for an aggregate success signal.
type CampaignStatus string

const (
	StatusDraft CampaignStatus = "draft"
	StatusReady CampaignStatus = "ready"
)

// AssetType classifies a content deliverable.
type AssetType string

const (
	AssetCaption     AssetType = "caption"
	AssetImage       AssetType = "image"
	AssetVideoScript AssetType = "video_script"
	AssetBlog        AssetType = "blog"
	AssetFlyer       AssetType = "flyer"
)

// ToolKind identifies a tool capability. The set is closed: dispatch is
// by kind through a toolkit.Set rather than by string matching at call
// sites. Unknown kinds survive normalization and resolve to a terminal
// failure in the retry executor.
type ToolKind string

const (
	ToolLLMText          ToolKind = "llm_text"
	ToolImageGenerate    ToolKind = "image_generate"
	ToolWebSearch        ToolKind = "web_search"
	ToolModeration       ToolKind = "moderation"
	ToolStoreAsset       ToolKind = "store_asset"
	ToolComputeEmbedding ToolKind = "compute_embedding"
)

// Backoff selects the delay curve between retry attempts.
type Backoff string

const (
	BackoffExponential Backoff = "exponential"
	BackoffFixed       Backoff = "fixed"
)

// Manifest is the full campaign record: strategy, asset plan, calendar,
// and metadata. One per campaign. The posting calendar, influencer list
// and metadata are opaque to the engine beyond existing-or-defaulted.
type Manifest struct {
	CampaignID      CampaignID                 `json:"campaign_id"`
	Brief           string                     `json:"brief"`
	CreatedAt       string                     `json:"created_at"`
	Timezone        string                     `json:"timezone"`
	Status          CampaignStatus             `json:"status"`
	Strategy        *Strategy                  `json:"strategy,omitempty"`
	AssetPlan       []*Asset                   `json:"asset_plan"`
	PostingCalendar []json.RawMessage          `json:"posting_calendar"`
	Influencers     []json.RawMessage          `json:"influencers"`
	Metadata        map[string]json.RawMessage `json:"metadata"`
}

// Strategy is the campaign strategy record, produced once and not versioned.
type Strategy struct {
	CoreConcept    string   `json:"core_concept,omitempty"`
	Tagline        string   `json:"tagline,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	KeyMessages    []string `json:"key_messages,omitempty"`
	Tone           string   `json:"tone,omitempty"`
	Channels       []string `json:"channels,omitempty"`
}

// Asset is one content deliverable with its own generation plan and
// version history. Owned by exactly one Manifest; its ID is stable
// across regenerations.
type Asset struct {
	ID        string      `json:"id"`
	Type      AssetType   `json:"type"`
	Version   int         `json:"version"`
	Seed      *int64      `json:"seed,omitempty"`
	Prompt    string      `json:"prompt,omitempty"`
	Content   string      `json:"content,omitempty"`
	URL       string      `json:"url,omitempty"`
	Provider  string      `json:"provider,omitempty"`
	Model     string      `json:"model,omitempty"`
	Safety    AssetSafety `json:"safety"`
	ToolCalls []*ToolCall `json:"tool_calls"`
}

// AssetSafety reflects only the most recent moderation tool call's
// result, not a logical AND across history.
type AssetSafety struct {
	ModerationPassed bool     `json:"moderation_passed"`
	Issues           []string `json:"issues"`
}

// ToolCall is one declarative tool invocation belonging to exactly one
// asset. Its order within the asset's tool_calls is the required
// execution order (generation -> moderation -> embedding).
type ToolCall struct {
	Tool                 ToolKind        `json:"tool"`
	ID                   string          `json:"id"`
	Input                ToolInput       `json:"input"`
	ExpectedOutputSchema json.RawMessage `json:"expected_output_schema,omitempty"`
	RetryPolicy          RetryPolicy     `json:"retry_policy"`
	SafetyChecks         []string        `json:"safety_checks,omitempty"`
	RequiresApproval     bool            `json:"requires_approval,omitempty"`
	Attempts             int             `json:"attempts,omitempty"`
	Result               *ToolResult     `json:"result,omitempty"`
	Error                *ToolError      `json:"error,omitempty"`
}

// ToolInput carries the tool-specific payload. Generation and search
// tools require Prompt or Query respectively; the remaining fields are
// optional hints forwarded verbatim to the tool implementation.
type ToolInput struct {
	Prompt      string  `json:"prompt,omitempty"`
	Query       string  `json:"q,omitempty"`
	Text        string  `json:"text,omitempty"`
	ContentType string  `json:"type,omitempty"`
	Model       string  `json:"model,omitempty"`
	Provider    string  `json:"provider,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Size        string  `json:"size,omitempty"`
	Seed        *int64  `json:"seed,omitempty"`
	N           int     `json:"n,omitempty"`
	Location    string  `json:"location,omitempty"`
	MaxResults  int     `json:"max_results,omitempty"`
	Key         string  `json:"key,omitempty"`
}

// RetryPolicy bounds the retry executor for a single tool call.
type RetryPolicy struct {
	MaxAttempts int     `json:"max_attempts"`
	Backoff     Backoff `json:"backoff"`
}

// ToolResult is the terminal outcome of a tool call: either a success
// with a kind-specific payload, or a failure with an error message.
type ToolResult struct {
	Success          bool           `json:"success"`
	Text             string         `json:"text,omitempty"`
	Model            string         `json:"model,omitempty"`
	Provider         string         `json:"provider,omitempty"`
	ImageData        []byte         `json:"image_data,omitempty"`
	Results          []SearchResult `json:"results,omitempty"`
	ModerationPassed *bool          `json:"moderation_passed,omitempty"`
	Issues           []string       `json:"issues,omitempty"`
	Embedding        []float64      `json:"embedding,omitempty"`
	Path             string         `json:"path,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// SearchResult is one web search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
}

// ToolError is the recorded failure descriptor on a tool call. It is
// mutually exclusive with a successful Result.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CampaignSummary is the listing view of a stored campaign.
type CampaignSummary struct {
	CampaignID CampaignID     `json:"campaign_id"`
	Brief      string         `json:"brief"`
	CreatedAt  string         `json:"created_at"`
	Status     CampaignStatus `json:"status"`
}

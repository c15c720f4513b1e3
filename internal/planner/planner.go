// Package planner turns a marketing brief into a raw campaign manifest
// via the LLM.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/user/campaignforge/internal/budget"
	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

const systemPromptTemplate = `You are an autonomous campaign orchestrator.

Take a short marketing brief and produce a single JSON object whose top-level key is "campaign_manifest". Return only valid JSON, no explanations and no extra text.

Hard rules:
1. Output JSON only. Top-level key: "campaign_manifest".
2. For each asset that needs generation, include a "tool_calls" array. Every tool_call must include:
   - "tool": one of ["llm_text","image_generate","web_search","moderation","store_asset","compute_embedding"]
   - "id": unique string id
   - "input": tool-specific inputs
   - "expected_output_schema": object describing expected output keys
   - "retry_policy": { "max_attempts": 3, "backoff": "exponential" }
   - "safety_checks": array of checks (e.g. ["moderation_text","moderation_image"])
   - optional "requires_approval": true for any outreach or scheduling drafts
3. Include the full generator prompt text verbatim in each tool_call input.
4. llm_text calls must include: model, temperature (0.2 for strategic outputs, 0.6 for creative outputs), max_tokens (default %d).
5. image_generate calls must include: provider="huggingface", prompt, size="1024x1024", seed (int|null), n (default 1).
6. web_search calls must include: q, location (if applicable), max_results.
7. Include a compute_embedding tool_call for every generated asset.
8. Include moderation tool_calls for every generated text and image.
9. Each asset must include: id, version (start at 1), seed, prompt, model/provider, url (null until stored), safety: { "moderation_passed": true, "issues": [] }.
10. Keep text outputs compact (captions <= 140 chars; short scripts <= %d tokens; blog/description <= %d tokens).
11. Do NOT include any publish/send tool calls. All outreach or scheduling must be drafts with requires_approval=true.
12. Use Asia/Kolkata timezone when computing dates if no timezone is given.

Campaign strategy structure: core_concept, tagline, target_audience, key_messages (3-5), tone, channels.

Asset types to generate:
- 3-5 social media captions (type: "caption")
- 2-3 hero images (type: "image")
- 1 short video script (type: "video_script")
- 1 blog post (type: "blog")
- 1 promotional flyer design (type: "flyer")

For each asset, order the tool_calls: generation (llm_text or image_generate), then moderation, then compute_embedding.`

// systemPrompt carries the token ceilings from the budget package so
// the planner and any downstream accounting agree on the limits.
var systemPrompt = fmt.Sprintf(systemPromptTemplate,
	budget.DefaultOutputTokens,
	budget.OutputCeiling(types.AssetVideoScript),
	budget.OutputCeiling(types.AssetBlog),
)

// Planner generates raw campaign manifests from briefs.
type Planner struct {
	provider llm.Provider
	counter  *budget.Counter
}

// New creates a Planner backed by the given provider. counter may be
// nil to skip input budget enforcement.
func New(provider llm.Provider, counter *budget.Counter) *Planner {
	return &Planner{provider: provider, counter: counter}
}

// GeneratePlan asks the LLM for a campaign manifest and returns the
// raw JSON bytes. Markdown code fences around the JSON are stripped;
// the caller is expected to normalize the result.
func (p *Planner) GeneratePlan(ctx context.Context, brief string) ([]byte, error) {
	if strings.TrimSpace(brief) == "" {
		return nil, fmt.Errorf("brief is required")
	}

	userPrompt := fmt.Sprintf("Brief: %s\n\nGenerate a complete campaign manifest following all rules. Include strategy, asset_plan with tool_calls, posting_calendar, and influencer search plan.", brief)

	if p.counter != nil {
		if err := p.counter.CheckInput(systemPrompt, userPrompt); err != nil {
			return nil, fmt.Errorf("plan prompt: %w", err)
		}
	}

	resp, err := p.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	text := stripFences(resp.Content)
	if text == "" {
		return nil, fmt.Errorf("empty plan response")
	}
	return []byte(text), nil
}

// stripFences removes markdown code fences the model sometimes wraps
// its JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

const moderationPrompt = `You are a content safety reviewer for marketing material.
Review the following content for hate speech, harassment, sexual content,
violence, and misleading claims. Respond with only a JSON object of the
form {"moderation_passed": true|false, "issues": ["..."]} and nothing else.

Content:
%s`

// imageBlocklist holds prompt terms that fail image moderation outright.
// Image bytes are not inspected; the generation prompt is the signal.
var imageBlocklist = []string{
	"nude", "nudity", "gore", "graphic violence", "weapon",
}

// Moderation checks generated text and images for safety issues. Text
// is reviewed by the LLM; images are screened by their generation
// prompt against a blocklist.
type Moderation struct {
	provider llm.Provider
}

// NewModeration creates a new moderation tool.
func NewModeration(provider llm.Provider) *Moderation {
	return &Moderation{provider: provider}
}

func (m *Moderation) Kind() types.ToolKind { return types.ToolModeration }

func (m *Moderation) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	content := input.Text
	if content == "" {
		content = input.Prompt
	}
	if content == "" {
		return nil, fmt.Errorf("text or prompt is required")
	}

	if input.ContentType == "image" {
		return m.moderateImage(content), nil
	}
	return m.moderateText(ctx, content)
}

// moderationVerdict is the JSON shape the reviewer model must return.
type moderationVerdict struct {
	ModerationPassed bool     `json:"moderation_passed"`
	Issues           []string `json:"issues"`
}

func (m *Moderation) moderateText(ctx context.Context, content string) (*types.ToolResult, error) {
	temp := float32(0.0)
	resp, err := m.provider.Complete(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(moderationPrompt, content)},
	}, &llm.CallOptions{Temperature: &temp})
	if err != nil {
		return nil, fmt.Errorf("moderate text: %w", err)
	}

	var verdict moderationVerdict
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &verdict); err != nil {
		return nil, fmt.Errorf("parse moderation verdict: %w", err)
	}

	issues := verdict.Issues
	if issues == nil {
		issues = []string{}
	}
	return &types.ToolResult{
		Success:          true,
		ModerationPassed: &verdict.ModerationPassed,
		Issues:           issues,
	}, nil
}

func (m *Moderation) moderateImage(prompt string) *types.ToolResult {
	passed := true
	issues := []string{}

	lower := strings.ToLower(prompt)
	for _, term := range imageBlocklist {
		if strings.Contains(lower, term) {
			passed = false
			issues = append(issues, "prompt contains blocked term: "+term)
		}
	}

	return &types.ToolResult{
		Success:          true,
		ModerationPassed: &passed,
		Issues:           issues,
	}
}

// stripFences removes markdown code fences from a model response.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

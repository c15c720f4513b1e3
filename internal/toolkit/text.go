package toolkit

import (
	"context"
	"fmt"

	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

// LLMText generates text content via a chat-completion provider.
type LLMText struct {
	provider llm.Provider
}

// NewLLMText creates a new text generation tool.
func NewLLMText(provider llm.Provider) *LLMText {
	return &LLMText{provider: provider}
}

func (t *LLMText) Kind() types.ToolKind { return types.ToolLLMText }

func (t *LLMText) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	if input.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	opts := &llm.CallOptions{
		Model:     input.Model,
		MaxTokens: input.MaxTokens,
	}
	if input.Temperature != 0 {
		temp := input.Temperature
		opts.Temperature = &temp
	}

	resp, err := t.provider.Complete(ctx, []llm.Message{{Role: "user", Content: input.Prompt}}, opts)
	if err != nil {
		return nil, fmt.Errorf("generate text: %w", err)
	}

	model := resp.Model
	if model == "" {
		model = input.Model
	}

	return &types.ToolResult{
		Success: true,
		Text:    resp.Content,
		Model:   model,
	}, nil
}

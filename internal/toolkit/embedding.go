package toolkit

import (
	"context"
	"fmt"

	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

// ComputeEmbedding computes alignment embeddings for generated content.
type ComputeEmbedding struct {
	embedder llm.Embedder
}

// NewComputeEmbedding creates a new embedding tool.
func NewComputeEmbedding(embedder llm.Embedder) *ComputeEmbedding {
	return &ComputeEmbedding{embedder: embedder}
}

func (c *ComputeEmbedding) Kind() types.ToolKind { return types.ToolComputeEmbedding }

func (c *ComputeEmbedding) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	text := input.Text
	if text == "" {
		text = input.Prompt
	}
	if text == "" {
		return nil, fmt.Errorf("text or prompt is required")
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("compute embedding: %w", err)
	}

	return &types.ToolResult{
		Success:   true,
		Embedding: vec,
	}, nil
}

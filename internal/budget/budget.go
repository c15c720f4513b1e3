// Package budget provides token accounting for planner prompts.
package budget

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/campaignforge/internal/types"
)

// Default output ceilings per asset type, in tokens. Assets not listed
// fall back to DefaultOutputTokens.
const DefaultOutputTokens = 500

var outputCeilings = map[types.AssetType]int{
	types.AssetCaption:     300,
	types.AssetVideoScript: 300,
	types.AssetBlog:        800,
}

// Counter counts tokens for a specific model's tokenizer.
type Counter struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
	reserve   int
}

// New creates a token counter for the given model with a total context
// window of maxTokens, reserving reserve tokens for the response.
// Unknown models fall back to the cl100k_base encoding.
func New(model string, maxTokens, reserve int) (*Counter, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Counter{
		tokenizer: enc,
		maxTokens: maxTokens,
		reserve:   reserve,
	}, nil
}

// Count returns the token count for a string.
func (c *Counter) Count(text string) int {
	return len(c.tokenizer.Encode(text, nil, nil))
}

// InputBudget returns the number of tokens available for prompt input.
func (c *Counter) InputBudget() int {
	return c.maxTokens - c.reserve
}

// CheckInput returns an error when the combined prompts exceed the
// input budget.
func (c *Counter) CheckInput(prompts ...string) error {
	total := 0
	for _, p := range prompts {
		total += c.Count(p)
	}
	if total > c.InputBudget() {
		return fmt.Errorf("prompt of %d tokens exceeds input budget of %d", total, c.InputBudget())
	}
	return nil
}

// OutputCeiling returns the generation token ceiling for an asset type.
func OutputCeiling(t types.AssetType) int {
	if n, ok := outputCeilings[t]; ok {
		return n
	}
	return DefaultOutputTokens
}

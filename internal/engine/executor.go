package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/user/campaignforge/internal/toolkit"
	"github.com/user/campaignforge/internal/types"
)

// maxRetriesError is the terminal failure after all attempts are
// exhausted. The last per-attempt error is discarded in its favor.
const maxRetriesError = "Max retries exceeded"

// Executor runs a single tool call to a terminal result with bounded,
// backoff-delayed retries. A gateway error and a {success:false} result
// count identically as a failed attempt.
type Executor struct {
	tools *toolkit.Set
	unit  time.Duration
	sleep func(time.Duration)
}

// NewExecutor creates an Executor over the given tool set. unit is the
// optional backoff time unit; it defaults to one second.
func NewExecutor(tools *toolkit.Set, unit ...time.Duration) *Executor {
	u := time.Second
	if len(unit) > 0 && unit[0] >= 0 {
		u = unit[0]
	}
	return &Executor{
		tools: tools,
		unit:  u,
		sleep: time.Sleep,
	}
}

// Delay returns the backoff delay after attempt k (0-indexed):
// 2^k units for exponential backoff, a constant 2 units otherwise.
func (e *Executor) Delay(policy types.RetryPolicy, attempt int) time.Duration {
	if policy.Backoff == types.BackoffExponential {
		return e.unit << attempt
	}
	return 2 * e.unit
}

// Execute runs the tool call up to its policy's max attempts, returning
// the terminal result and the number of gateway attempts made. The
// first success returns immediately. A structurally invalid call
// (unregistered tool kind) resolves to a single terminal failure with
// no delay and no gateway attempt.
func (e *Executor) Execute(ctx context.Context, tc *types.ToolCall) (*types.ToolResult, int) {
	tool, ok := e.tools.Get(tc.Tool)
	if !ok {
		return &types.ToolResult{
			Success: false,
			Error:   fmt.Sprintf("Unknown tool: %s", tc.Tool),
		}, 0
	}

	maxAttempts := tc.RetryPolicy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	attempts := 0
	for k := 0; k < maxAttempts; k++ {
		attempts++

		result, err := tool.Invoke(ctx, &tc.Input)
		if err != nil {
			result = &types.ToolResult{Success: false, Error: err.Error()}
		}
		if result.Success {
			return result, attempts
		}

		if k < maxAttempts-1 {
			e.sleep(e.Delay(tc.RetryPolicy, k))
		}
	}

	return &types.ToolResult{Success: false, Error: maxRetriesError}, attempts
}

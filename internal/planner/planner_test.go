package planner

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/user/campaignforge/internal/budget"
	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

type mockProvider struct {
	response string
	err      error
	lastMsgs []llm.Message
}

func (m *mockProvider) Complete(_ context.Context, msgs []llm.Message, _ *llm.CallOptions) (*llm.Response, error) {
	m.lastMsgs = msgs
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Response{Content: m.response}, nil
}

func TestGeneratePlan(t *testing.T) {
	mock := &mockProvider{response: `{"campaign_manifest": {"brief": "x"}}`}
	p := New(mock, nil)

	raw, err := p.GeneratePlan(context.Background(), "Diwali sale for a sneaker brand")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if string(raw) != `{"campaign_manifest": {"brief": "x"}}` {
		t.Errorf("unexpected plan: %s", raw)
	}

	if len(mock.lastMsgs) != 2 {
		t.Fatalf("expected system + user message, got %d", len(mock.lastMsgs))
	}
	if mock.lastMsgs[0].Role != "system" {
		t.Errorf("first message should be system, got %s", mock.lastMsgs[0].Role)
	}
	if mock.lastMsgs[1].Role != "user" {
		t.Errorf("second message should be user, got %s", mock.lastMsgs[1].Role)
	}
}

func TestGeneratePlanPromptCarriesOutputCeilings(t *testing.T) {
	mock := &mockProvider{response: `{"campaign_manifest": {}}`}
	p := New(mock, nil)

	if _, err := p.GeneratePlan(context.Background(), "brief"); err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}

	system := mock.lastMsgs[0].Content
	checks := []string{
		fmt.Sprintf("max_tokens (default %d)", budget.DefaultOutputTokens),
		fmt.Sprintf("short scripts <= %d tokens", budget.OutputCeiling(types.AssetVideoScript)),
		fmt.Sprintf("blog/description <= %d tokens", budget.OutputCeiling(types.AssetBlog)),
	}
	for _, want := range checks {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(system, "%d") {
		t.Error("system prompt has an unexpanded format verb")
	}
}

func TestGeneratePlanStripsFences(t *testing.T) {
	mock := &mockProvider{response: "```json\n{\"campaign_manifest\": {}}\n```"}
	p := New(mock, nil)

	raw, err := p.GeneratePlan(context.Background(), "brief")
	if err != nil {
		t.Fatalf("GeneratePlan failed: %v", err)
	}
	if string(raw) != `{"campaign_manifest": {}}` {
		t.Errorf("fences not stripped: %q", raw)
	}
}

func TestGeneratePlanEmptyBrief(t *testing.T) {
	p := New(&mockProvider{response: "{}"}, nil)

	if _, err := p.GeneratePlan(context.Background(), "   "); err == nil {
		t.Error("expected error for blank brief")
	}
}

func TestGeneratePlanProviderError(t *testing.T) {
	p := New(&mockProvider{err: fmt.Errorf("rate limited")}, nil)

	if _, err := p.GeneratePlan(context.Background(), "brief"); err == nil {
		t.Error("expected provider error to propagate")
	}
}

func TestGeneratePlanEmptyResponse(t *testing.T) {
	p := New(&mockProvider{response: "``````"}, nil)

	if _, err := p.GeneratePlan(context.Background(), "brief"); err == nil {
		t.Error("expected error for empty response")
	}
}

//go:build integration

package test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/user/campaignforge/internal/engine"
	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/orchestrator"
	"github.com/user/campaignforge/internal/planner"
	"github.com/user/campaignforge/internal/state"
	"github.com/user/campaignforge/internal/toolkit"
	"github.com/user/campaignforge/internal/types"
	"github.com/user/campaignforge/pkg/llm"
)

const planJSON = `{
  "campaign_manifest": {
    "strategy": {"core_concept": "Beat the heat", "tagline": "Cool deals all summer"},
    "asset_plan": [
      {
        "id": "caption_1",
        "type": "caption",
        "tool_calls": [
          {
            "tool": "llm_text",
            "id": "caption_1_gen",
            "input": {"prompt": "Write an Instagram caption for a summer sale"},
            "retry_policy": {"max_attempts": 3, "backoff": "exponential"}
          }
        ]
      },
      {
        "id": "caption_2",
        "type": "caption",
        "tool_calls": [
          {
            "tool": "llm_text",
            "id": "caption_2_gen",
            "input": {"prompt": "Write a Twitter caption for a summer sale"},
            "retry_policy": {"max_attempts": 3, "backoff": "exponential"}
          }
        ]
      }
    ],
    "posting_calendar": [{"date": "2026-09-01", "asset_id": "caption_1", "platform": "instagram"}]
  }
}`

// mockProvider serves both the planner and the text tool: planning
// requests (system message present) get the canned manifest, everything
// else gets a caption derived from the prompt.
type mockProvider struct{}

func (m *mockProvider) Complete(_ context.Context, msgs []llm.Message, _ *llm.CallOptions) (*llm.Response, error) {
	for _, msg := range msgs {
		if msg.Role == "system" {
			return &llm.Response{Content: planJSON}, nil
		}
	}
	prompt := msgs[len(msgs)-1].Content
	return &llm.Response{Content: "caption for: " + prompt, Model: "gpt-4o-mini"}, nil
}

func buildStack(t *testing.T) (*gateway.Gateway, *state.CampaignStore) {
	t.Helper()
	dir := t.TempDir()

	store := state.NewCampaignStore(dir)
	blobs := state.NewBlobStore(dir)

	provider := &mockProvider{}
	set := toolkit.NewSet()
	set.Register(toolkit.NewLLMText(provider))
	set.Register(toolkit.NewModeration(provider))
	set.Register(toolkit.NewStoreAsset(blobs))

	eng := engine.New(set, blobs, time.Millisecond)
	plan := planner.New(provider, nil)
	orch := orchestrator.New(plan, eng, store)

	gw := gateway.New(store, 2)
	gw.Queue.SetProcessor(orch.ProcessJob)
	gw.Start(context.Background())
	t.Cleanup(gw.Stop)

	return gw, store
}

func TestEndToEndGenerate(t *testing.T) {
	gw, store := buildStack(t)
	ctx := context.Background()

	var got *types.Manifest
	done := make(chan struct{})
	campaignID, err := gw.SubmitBrief(ctx, "Summer sale for a sneaker brand",
		gateway.WithOnComplete(func(m *types.Manifest, err error) {
			if err == nil {
				got = m
			}
			close(done)
		}))
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for campaign")
	}

	if got == nil {
		t.Fatal("campaign generation failed")
	}
	if got.CampaignID != campaignID {
		t.Errorf("manifest carries %s, submitted as %s", got.CampaignID, campaignID)
	}
	if got.Status != types.StatusReady {
		t.Errorf("expected ready status, got %s", got.Status)
	}
	if len(got.AssetPlan) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(got.AssetPlan))
	}
	for _, asset := range got.AssetPlan {
		if !strings.HasPrefix(asset.Content, "caption for: ") {
			t.Errorf("asset %s content not generated: %q", asset.ID, asset.Content)
		}
	}

	// The ready manifest must be on disk, not just in the callback.
	stored, err := store.Get(ctx, campaignID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != types.StatusReady {
		t.Errorf("persisted status %s, want ready", stored.Status)
	}
}

func TestEndToEndRegenerate(t *testing.T) {
	gw, store := buildStack(t)
	ctx := context.Background()

	done := make(chan struct{})
	if _, err := gw.SubmitBrief(ctx, "Summer sale",
		gateway.WithOnComplete(func(*types.Manifest, error) { close(done) })); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for campaign")
	}

	var got *types.Manifest
	regenDone := make(chan struct{})
	campaignID, err := gw.SubmitRegenerate(ctx, "caption_1", "make it punchier",
		gateway.WithOnComplete(func(m *types.Manifest, err error) {
			if err == nil {
				got = m
			}
			close(regenDone)
		}))
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-regenDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for regeneration")
	}

	if got == nil {
		t.Fatal("regeneration failed")
	}

	var asset *types.Asset
	for _, a := range got.AssetPlan {
		if a.ID == "caption_1" {
			asset = a
		}
	}
	if asset == nil {
		t.Fatal("regenerated asset missing from manifest")
	}
	if asset.Version != 2 {
		t.Errorf("expected version 2, got %d", asset.Version)
	}
	if !strings.Contains(asset.Content, "Modification: make it punchier") {
		t.Errorf("modification not threaded into regeneration: %q", asset.Content)
	}

	stored, err := store.Get(ctx, campaignID)
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range stored.AssetPlan {
		if a.ID == "caption_1" && a.Version != 2 {
			t.Errorf("persisted version %d, want 2", a.Version)
		}
	}
}

func TestEndToEndFIFOPerCampaign(t *testing.T) {
	gw, _ := buildStack(t)
	ctx := context.Background()

	done := make(chan struct{})
	if _, err := gw.SubmitBrief(ctx, "Diwali launch",
		gateway.WithOnComplete(func(*types.Manifest, error) { close(done) })); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for campaign")
	}

	// Two regenerations against the same campaign must run in order;
	// the second sees the version bump of the first.
	first := make(chan *types.Manifest, 1)
	second := make(chan *types.Manifest, 1)
	if _, err := gw.SubmitRegenerate(ctx, "caption_1", "",
		gateway.WithOnComplete(func(m *types.Manifest, err error) { first <- m })); err != nil {
		t.Fatal(err)
	}
	if _, err := gw.SubmitRegenerate(ctx, "caption_1", "",
		gateway.WithOnComplete(func(m *types.Manifest, err error) { second <- m })); err != nil {
		t.Fatal(err)
	}

	var m1, m2 *types.Manifest
	select {
	case m1 = <-first:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for first regeneration")
	}
	select {
	case m2 = <-second:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for second regeneration")
	}

	if m1 == nil || m2 == nil {
		t.Fatal("regeneration failed")
	}
	if v := m1.AssetPlan[0].Version; v != 2 {
		t.Errorf("first regeneration: version %d, want 2", v)
	}
	if v := m2.AssetPlan[0].Version; v != 3 {
		t.Errorf("second regeneration: version %d, want 3", v)
	}
}

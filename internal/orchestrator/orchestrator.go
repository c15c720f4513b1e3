// Package orchestrator processes campaign jobs end to end.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/campaignforge/internal/engine"
	"github.com/user/campaignforge/internal/gateway"
	"github.com/user/campaignforge/internal/manifest"
	"github.com/user/campaignforge/internal/types"
)

// Planner produces raw campaign manifest JSON from a brief.
type Planner interface {
	GeneratePlan(ctx context.Context, brief string) ([]byte, error)
}

// Orchestrator drives a job from brief to ready campaign: plan,
// normalize, persist the draft, execute all tool calls, persist the
// ready manifest.
type Orchestrator struct {
	planner Planner
	engine  *engine.Engine
	store   types.CampaignStore
}

// New creates an Orchestrator.
func New(planner Planner, eng *engine.Engine, store types.CampaignStore) *Orchestrator {
	return &Orchestrator{
		planner: planner,
		engine:  eng,
		store:   store,
	}
}

// ProcessJob is the queue processor. Generation jobs plan a new
// campaign and execute it; regeneration jobs replay one asset of a
// stored campaign. The updated manifest is persisted before OnComplete
// fires.
func (o *Orchestrator) ProcessJob(job *gateway.Job) error {
	ctx := job.Ctx

	var m *types.Manifest
	var err error
	switch job.Kind {
	case gateway.JobGenerate:
		m, err = o.generate(ctx, job)
	case gateway.JobRegenerate:
		m, err = o.regenerate(ctx, job)
	default:
		err = fmt.Errorf("unknown job kind: %s", job.Kind)
	}
	if err != nil {
		return err
	}

	if job.OnComplete != nil {
		job.OnComplete(m, nil)
	}
	return nil
}

func (o *Orchestrator) generate(ctx context.Context, job *gateway.Job) (*types.Manifest, error) {
	slog.Info("generating campaign", "campaign_id", string(job.CampaignID), "brief", job.Brief)

	raw, err := o.planner.GeneratePlan(ctx, job.Brief)
	if err != nil {
		return nil, fmt.Errorf("plan campaign: %w", err)
	}

	m, err := manifest.Normalize(raw, job.Brief)
	if err != nil {
		return nil, fmt.Errorf("normalize manifest: %w", err)
	}
	// The queue laned this job under its pre-assigned campaign ID; the
	// stored manifest must carry the same one.
	m.CampaignID = job.CampaignID

	if err := o.store.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("persist draft: %w", err)
	}

	o.engine.Execute(ctx, m)

	if err := o.store.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("persist campaign: %w", err)
	}

	slog.Info("campaign ready", "campaign_id", string(m.CampaignID), "assets", len(m.AssetPlan))
	return m, nil
}

func (o *Orchestrator) regenerate(ctx context.Context, job *gateway.Job) (*types.Manifest, error) {
	slog.Info("regenerating asset", "campaign_id", string(job.CampaignID), "asset_id", job.AssetID)

	m, err := o.store.Get(ctx, job.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("load campaign: %w", err)
	}

	if err := o.engine.Regenerate(ctx, m, job.AssetID, job.Instructions); err != nil {
		return nil, err
	}

	if err := o.store.Put(ctx, m); err != nil {
		return nil, fmt.Errorf("persist campaign: %w", err)
	}

	return m, nil
}

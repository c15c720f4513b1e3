// Package gateway queues campaign work for the orchestrator.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/campaignforge/internal/types"
)

// Gateway accepts campaign work and enqueues it for processing. Jobs
// for the same campaign run in order; distinct campaigns run in
// parallel up to the concurrency limit.
type Gateway struct {
	store types.CampaignStore
	Queue *Queue

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Gateway wired to the campaign store with the given
// concurrency limit for simultaneous job processing.
func New(store types.CampaignStore, maxConcurrent ...int64) *Gateway {
	var concurrency int64 = 2
	if len(maxConcurrent) > 0 && maxConcurrent[0] > 0 {
		concurrency = maxConcurrent[0]
	}
	return &Gateway{
		store: store,
		Queue: NewQueue(concurrency),
	}
}

// Start initialises the gateway's context and starts the internal queue.
func (g *Gateway) Start(ctx context.Context) {
	g.ctx, g.cancel = context.WithCancel(ctx)
	g.Queue.Start(g.ctx)
}

// Stop cancels the gateway context, stops the queue, and waits for any
// outstanding work to finish.
func (g *Gateway) Stop() {
	if g.cancel != nil {
		g.cancel()
	}
	g.Queue.Stop()
	g.wg.Wait()
}

// JobOption configures optional behavior on a Job.
type JobOption func(*Job)

// WithOnComplete sets a callback invoked when the job finishes.
func WithOnComplete(fn func(*types.Manifest, error)) JobOption {
	return func(j *Job) { j.OnComplete = fn }
}

// SubmitBrief enqueues a campaign generation job for the brief and
// returns the campaign ID assigned to it.
func (g *Gateway) SubmitBrief(_ context.Context, brief string, opts ...JobOption) (types.CampaignID, error) {
	if brief == "" {
		return "", fmt.Errorf("brief is required")
	}
	job := NewGenerateJob(brief)
	for _, opt := range opts {
		opt(job)
	}
	if err := g.Queue.Enqueue(job); err != nil {
		return "", err
	}
	return job.CampaignID, nil
}

// SubmitRegenerate resolves the campaign owning the asset and enqueues
// a regeneration job on that campaign's lane.
func (g *Gateway) SubmitRegenerate(ctx context.Context, assetID, instructions string, opts ...JobOption) (types.CampaignID, error) {
	m, err := g.store.FindByAsset(ctx, assetID)
	if err != nil {
		return "", fmt.Errorf("resolve campaign: %w", err)
	}
	job := NewRegenerateJob(m.CampaignID, assetID, instructions)
	for _, opt := range opts {
		opt(job)
	}
	if err := g.Queue.Enqueue(job); err != nil {
		return "", err
	}
	return m.CampaignID, nil
}

package gateway

import (
	"context"
	"time"

	"github.com/user/campaignforge/internal/types"
)

// JobKind distinguishes the two kinds of campaign work.
type JobKind string

const (
	JobGenerate   JobKind = "generate"
	JobRegenerate JobKind = "regenerate"
)

// JobStatus represents the lifecycle state of a Job.
type JobStatus string

const (
	JobStatusQueued   JobStatus = "queued"
	JobStatusRunning  JobStatus = "running"
	JobStatusComplete JobStatus = "complete"
	JobStatusFailed   JobStatus = "failed"
)

// Job tracks a single unit of campaign work: generating a new campaign
// from a brief, or regenerating one asset of an existing campaign.
type Job struct {
	ID         types.JobID
	Kind       JobKind
	CampaignID types.CampaignID

	// generate
	Brief string

	// regenerate
	AssetID      string
	Instructions string

	Status    JobStatus
	CreatedAt time.Time
	Ctx       context.Context

	// OnComplete is invoked with the resulting manifest once the job
	// finishes, or with a nil manifest and the failure error.
	OnComplete func(m *types.Manifest, err error)
}

// NewGenerateJob creates a queued campaign generation job. The campaign
// ID is assigned up front so the job can be laned before planning runs.
func NewGenerateJob(brief string) *Job {
	return &Job{
		ID:         types.NewJobID(),
		Kind:       JobGenerate,
		CampaignID: types.NewCampaignID(),
		Brief:      brief,
		Status:     JobStatusQueued,
		CreatedAt:  time.Now(),
	}
}

// NewRegenerateJob creates a queued asset regeneration job.
func NewRegenerateJob(campaignID types.CampaignID, assetID, instructions string) *Job {
	return &Job{
		ID:           types.NewJobID(),
		Kind:         JobRegenerate,
		CampaignID:   campaignID,
		AssetID:      assetID,
		Instructions: instructions,
		Status:       JobStatusQueued,
		CreatedAt:    time.Now(),
	}
}

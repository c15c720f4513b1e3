package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/campaignforge/internal/types"
)

// Queue manages per-campaign lanes with a global concurrency semaphore.
// Each campaign gets its own FIFO channel (lane) so that jobs touching a
// campaign are processed sequentially, while the semaphore limits the
// total number of concurrent job processors across all campaigns.
type Queue struct {
	lanes     map[types.CampaignID]chan *Job
	semaphore *semaphore.Weighted
	processor func(*Job) error
	active    atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
}

// NewQueue creates a Queue that allows up to maxConcurrent jobs to
// execute simultaneously across all campaign lanes.
func NewQueue(maxConcurrent int64) *Queue {
	return &Queue{
		lanes:     make(map[types.CampaignID]chan *Job),
		semaphore: semaphore.NewWeighted(maxConcurrent),
	}
}

// Start initialises the queue's context. Must be called before Enqueue.
func (q *Queue) Start(ctx context.Context) {
	q.ctx, q.cancel = context.WithCancel(ctx)
}

// Stop cancels the queue context, closes all lanes, and waits for
// in-flight processors to finish.
func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
	q.mu.Lock()
	for _, lane := range q.lanes {
		close(lane)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// Enqueue adds a Job to its campaign's lane, creating the lane (and its
// goroutine) on first use. Returns an error if the lane's buffer is full.
func (q *Queue) Enqueue(job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	lane, exists := q.lanes[job.CampaignID]
	if !exists {
		lane = make(chan *Job, 100)
		q.lanes[job.CampaignID] = lane
		q.wg.Add(1)
		go q.processLane(job.CampaignID, lane)
	}

	select {
	case lane <- job:
		return nil
	default:
		return fmt.Errorf("queue full for campaign %s", job.CampaignID)
	}
}

// processLane drains a single campaign lane, acquiring a semaphore slot
// before running the processor synchronously. This ensures strict FIFO
// ordering within a campaign while the semaphore limits cross-campaign
// parallelism.
func (q *Queue) processLane(campaignID types.CampaignID, lane chan *Job) {
	defer q.wg.Done()
	for {
		select {
		case job, ok := <-lane:
			if !ok {
				return
			}
			if err := q.semaphore.Acquire(q.ctx, 1); err != nil {
				return
			}
			if q.processor != nil {
				q.active.Add(1)
				job.Ctx = q.ctx
				job.Status = JobStatusRunning
				if err := q.processor(job); err != nil {
					job.Status = JobStatusFailed
					slog.Error("job failed", "job_id", string(job.ID), "campaign_id", string(job.CampaignID), "error", err)
					if job.OnComplete != nil {
						job.OnComplete(nil, err)
					}
				} else {
					job.Status = JobStatusComplete
				}
				q.active.Add(-1)
			}
			q.semaphore.Release(1)
		case <-q.ctx.Done():
			return
		}
	}
}

// WaitIdle blocks until no jobs are actively being processed, or the
// timeout expires. Returns true if idle, false if timed out.
func (q *Queue) WaitIdle(timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if q.active.Load() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// SetProcessor sets the function invoked for each dequeued Job.
func (q *Queue) SetProcessor(fn func(*Job) error) {
	q.processor = fn
}

package gateway

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/user/campaignforge/internal/types"
)

func TestQueueProcessesJobs(t *testing.T) {
	q := NewQueue(2)
	q.Start(context.Background())
	defer q.Stop()

	var mu sync.Mutex
	var processed []types.JobID
	q.SetProcessor(func(j *Job) error {
		mu.Lock()
		processed = append(processed, j.ID)
		mu.Unlock()
		return nil
	})

	job := NewGenerateJob("brief")
	if err := q.Enqueue(job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	if !q.WaitIdle(2 * time.Second) {
		t.Fatal("queue did not become idle")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(processed) != 1 || processed[0] != job.ID {
		t.Errorf("expected job processed once, got %v", processed)
	}
	if job.Status != JobStatusComplete {
		t.Errorf("expected complete status, got %s", job.Status)
	}
}

func TestQueueFIFOWithinCampaign(t *testing.T) {
	q := NewQueue(4)
	q.Start(context.Background())
	defer q.Stop()

	var mu sync.Mutex
	var order []string
	q.SetProcessor(func(j *Job) error {
		mu.Lock()
		order = append(order, j.AssetID)
		mu.Unlock()
		return nil
	})

	campaignID := types.NewCampaignID()
	for _, aid := range []string{"a", "b", "c"} {
		if err := q.Enqueue(NewRegenerateJob(campaignID, aid, "")); err != nil {
			t.Fatalf("Enqueue %s failed: %v", aid, err)
		}
	}

	if !q.WaitIdle(2 * time.Second) {
		t.Fatal("queue did not become idle")
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("expected FIFO order a,b,c, got %v", order)
	}
}

func TestQueueFailureInvokesOnComplete(t *testing.T) {
	q := NewQueue(1)
	q.Start(context.Background())
	defer q.Stop()

	q.SetProcessor(func(j *Job) error {
		return context.DeadlineExceeded
	})

	done := make(chan error, 1)
	job := NewGenerateJob("brief")
	job.OnComplete = func(m *types.Manifest, err error) {
		done <- err
	}
	if err := q.Enqueue(job); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected failure error in OnComplete")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnComplete not invoked")
	}
	if job.Status != JobStatusFailed {
		t.Errorf("expected failed status, got %s", job.Status)
	}
}

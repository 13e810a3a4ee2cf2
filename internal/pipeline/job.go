package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Status tracks a translation job through its lifecycle.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusCompleted    Status = "COMPLETED"
	StatusFailed       Status = "FAILED"
	StatusReviewNeeded Status = "REVIEW_NEEDED"
	StatusApproved     Status = "APPROVED"
)

// JobRequest describes one background document translation.
type JobRequest struct {
	Content     string
	TargetLang  string
	SourceLang  string
	ContentType string
	Provider    string
}

// Job is the handle for a fire-and-forget document translation.
// Cancellation is best effort: the flag is consulted between batches,
// and in-flight backend calls are allowed to complete with their
// results discarded.
type Job struct {
	ID string

	mu        sync.RWMutex
	status    Status
	result    *DocumentResult
	err       error
	cancelled atomic.Bool
	done      chan struct{}
}

// StartJob launches a document translation in the background and
// returns immediately with a job handle.
func (o *Orchestrator) StartJob(ctx context.Context, req JobRequest) *Job {
	job := &Job{
		ID:     uuid.NewString(),
		status: StatusPending,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(job.done)
		job.setStatus(StatusInProgress)

		result, err := o.translateDocument(ctx, req.Content, req.TargetLang, req.SourceLang, req.ContentType, req.Provider, job.cancelled.Load)
		job.mu.Lock()
		defer job.mu.Unlock()
		switch {
		case err != nil:
			job.err = err
			job.status = StatusFailed
			if errors.Is(err, context.Canceled) && job.cancelled.Load() {
				job.err = errors.New("job cancelled")
			}
		case len(result.Issues) > 0:
			job.result = result
			job.status = StatusReviewNeeded
		default:
			job.result = result
			job.status = StatusCompleted
		}
	}()

	return job
}

// Cancel requests a best-effort stop. The current batch finishes and
// its results are discarded with the job marked failed.
func (j *Job) Cancel() {
	j.cancelled.Store(true)
}

// Status returns the job's current state.
func (j *Job) Status() Status {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Approve marks a reviewed job as approved. Only review-needed or
// completed jobs can be approved.
func (j *Job) Approve() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusReviewNeeded && j.status != StatusCompleted {
		return false
	}
	j.status = StatusApproved
	return true
}

// Result returns the finished result and error. It returns nil result
// while the job is still running.
func (j *Job) Result() (*DocumentResult, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.result, j.err
}

// Wait blocks until the job finishes or ctx expires.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-j.done:
		return nil
	}
}

func (j *Job) setStatus(s Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = s
}

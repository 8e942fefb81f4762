// Package jobs simulates the long-running server tasks whose progress the
// client tracks: certificate exports, bulk reminder mails and the like.
// Each run streams job-started, job-progress and a terminal job-complete
// frame to the owning user.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventhub/internal/domain"
	"eventhub/internal/event"
	"eventhub/internal/model"
	"eventhub/internal/server/hub"
)

type Runner struct {
	hub      *hub.Hub
	log      *zap.Logger
	interval time.Duration
}

func NewRunner(h *hub.Hub, logger *zap.Logger) *Runner {
	return &Runner{hub: h, log: logger, interval: 500 * time.Millisecond}
}

// NewRunnerWithInterval is used by tests to speed the stream up.
func NewRunnerWithInterval(h *hub.Hub, logger *zap.Logger, interval time.Duration) *Runner {
	return &Runner{hub: h, log: logger, interval: interval}
}

// Run starts a simulated job and returns its id immediately; the lifecycle
// streams in the background until done or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, userID, jobType string, total int, fail bool) string {
	jobID := uuid.NewString()
	if total <= 0 {
		total = 10
	}

	go r.stream(ctx, jobID, userID, jobType, total, fail)
	return jobID
}

func (r *Runner) stream(ctx context.Context, jobID, userID, jobType string, total int, fail bool) {
	r.push(event.KindJobStarted, model.BackgroundJob{
		JobID:   jobID,
		UserID:  userID,
		Type:    jobType,
		Status:  domain.JobStatusStarted,
		Total:   total,
		Message: "queued",
	})

	for completed := 1; completed <= total; completed++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval):
		}

		if fail && completed == total/2+1 {
			r.push(event.KindJobComplete, model.BackgroundJob{
				JobID:   jobID,
				UserID:  userID,
				Type:    jobType,
				Status:  domain.JobStatusFailed,
				Message: fmt.Sprintf("failed after %d of %d", completed-1, total),
			})
			return
		}

		r.push(event.KindJobProgress, model.BackgroundJob{
			JobID:     jobID,
			UserID:    userID,
			Type:      jobType,
			Status:    domain.JobStatusInProgress,
			Progress:  completed * 100 / total,
			Completed: completed,
			Total:     total,
			Message:   fmt.Sprintf("%d of %d", completed, total),
		})
	}

	r.push(event.KindJobComplete, model.BackgroundJob{
		JobID:   jobID,
		UserID:  userID,
		Type:    jobType,
		Status:  domain.JobStatusCompleted,
		Total:   total,
		Message: "done",
	})
}

func (r *Runner) push(kind event.Kind, job model.BackgroundJob) {
	frame, err := event.NewFrame(kind, job)
	if err != nil {
		r.log.Error("encode job frame failed", zap.String("job_id", job.JobID), zap.Error(err))
		return
	}
	r.hub.Broadcast(job.UserID, frame)
}

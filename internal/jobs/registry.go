// Package jobs tracks in-flight background work streamed from the server.
// Every event is an upsert keyed by job id: the channel gives no ordering
// promise across a reconnect gap, so a progress or terminal event may be
// the first thing the session ever sees for a job.
package jobs

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/domain"
	"eventhub/internal/model"
)

type Registry struct {
	grace time.Duration
	log   *zap.Logger

	mu      sync.Mutex
	jobs    map[string]model.BackgroundJob
	order   []string
	timers  map[string]*time.Timer
	expired map[string]struct{}
}

func NewRegistry(cfg *config.Config, logger *zap.Logger) *Registry {
	return &Registry{
		grace:   cfg.JobGraceDelay,
		log:     logger,
		jobs:    make(map[string]model.BackgroundJob),
		timers:  make(map[string]*time.Timer),
		expired: make(map[string]struct{}),
	}
}

// Started inserts a fresh record at progress 0, or restamps an existing one
// back to started. A stray duplicate start for a job already progressing
// must not append a second record.
func (r *Registry) Started(job model.BackgroundJob) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.jobs[job.JobID]
	if !ok {
		record = job
		record.Progress = 0
		r.order = append(r.order, job.JobID)
	} else {
		record = merge(record, job)
	}
	record.Status = domain.JobStatusStarted
	r.jobs[job.JobID] = record
}

// Progress merges the update, inserting if the job was never seen.
func (r *Registry) Progress(job model.BackgroundJob) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.jobs[job.JobID]
	if !ok {
		record = job
		r.order = append(r.order, job.JobID)
	} else {
		record = merge(record, job)
	}
	record.Status = domain.JobStatusInProgress
	record.Progress = clamp(record.Progress)
	r.jobs[job.JobID] = record
}

// Terminal marks the job completed or failed, pins progress at 100, and
// schedules removal after the grace delay. A duplicate terminal before the
// timer fires never reschedules it; a terminal for an id already removed is
// dropped outright.
func (r *Registry) Terminal(job model.BackgroundJob) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, gone := r.expired[job.JobID]; gone {
		r.log.Debug("terminal event for removed job dropped", zap.String("job_id", job.JobID))
		return
	}

	record, ok := r.jobs[job.JobID]
	if !ok {
		record = job
		r.order = append(r.order, job.JobID)
	} else {
		record = merge(record, job)
	}
	if domain.IsJobFailure(job.Status) {
		record.Status = domain.JobStatusFailed
	} else {
		record.Status = domain.JobStatusCompleted
	}
	record.Progress = 100
	r.jobs[job.JobID] = record

	if _, scheduled := r.timers[job.JobID]; !scheduled {
		id := job.JobID
		r.timers[id] = time.AfterFunc(r.grace, func() { r.remove(id) })
	}
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.jobs, id)
	delete(r.timers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.expired[id] = struct{}{}
}

func (r *Registry) Get(id string) (model.BackgroundJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	return job, ok
}

// Jobs returns all tracked jobs in first-seen order.
func (r *Registry) Jobs() []model.BackgroundJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.BackgroundJob, 0, len(r.order))
	for _, id := range r.order {
		if job, ok := r.jobs[id]; ok {
			result = append(result, job)
		}
	}
	return result
}

// Reset cancels every pending removal timer and drops all state. Used on
// session teardown; no timer may survive a logout.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
	r.jobs = make(map[string]model.BackgroundJob)
	r.order = nil
	r.expired = make(map[string]struct{})
}

// merge folds the fields present on an incoming event into the stored
// record. Zero values mean "not provided" on the wire.
func merge(record, incoming model.BackgroundJob) model.BackgroundJob {
	if incoming.Type != "" {
		record.Type = incoming.Type
	}
	if incoming.UserID != "" {
		record.UserID = incoming.UserID
	}
	if incoming.Message != "" {
		record.Message = incoming.Message
	}
	if incoming.Progress != 0 {
		record.Progress = incoming.Progress
	}
	if incoming.Completed != 0 {
		record.Completed = incoming.Completed
	}
	if incoming.Total != 0 {
		record.Total = incoming.Total
	}
	return record
}

func clamp(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

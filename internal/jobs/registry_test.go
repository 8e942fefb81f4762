package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/domain"
	"eventhub/internal/model"
)

func newRegistry(grace time.Duration) *Registry {
	return NewRegistry(&config.Config{JobGraceDelay: grace}, zap.NewNop())
}

func TestLifecycleUpsert(t *testing.T) {
	r := newRegistry(50 * time.Millisecond)

	r.Started(model.BackgroundJob{JobID: "J", Type: "export", Progress: 30})
	job, ok := r.Get("J")
	require.True(t, ok)
	require.Equal(t, domain.JobStatusStarted, job.Status)
	require.Equal(t, 0, job.Progress, "start always lands at zero progress")

	r.Progress(model.BackgroundJob{JobID: "J", Progress: 40, Completed: 4, Total: 10, Message: "sending"})
	job, _ = r.Get("J")
	require.Equal(t, domain.JobStatusInProgress, job.Status)
	require.Equal(t, 40, job.Progress)
	require.Equal(t, "export", job.Type, "merge keeps earlier fields")
	require.Equal(t, "sending", job.Message)

	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusFailed, Progress: 40})
	job, _ = r.Get("J")
	require.Equal(t, domain.JobStatusFailed, job.Status)
	require.Equal(t, 100, job.Progress, "terminal pins progress at 100")
	require.Len(t, r.Jobs(), 1, "events are upserts, never appends")

	require.Eventually(t, func() bool {
		_, ok := r.Get("J")
		return !ok
	}, 2*time.Second, 10*time.Millisecond, "record removed after grace delay")
}

func TestDuplicateStartDoesNotAppend(t *testing.T) {
	r := newRegistry(time.Second)
	r.Started(model.BackgroundJob{JobID: "J", Type: "export"})
	r.Progress(model.BackgroundJob{JobID: "J", Progress: 60})
	r.Started(model.BackgroundJob{JobID: "J"})

	require.Len(t, r.Jobs(), 1)
	job, _ := r.Get("J")
	require.Equal(t, domain.JobStatusStarted, job.Status)
}

func TestProgressWithoutStartInserts(t *testing.T) {
	r := newRegistry(time.Second)
	r.Progress(model.BackgroundJob{JobID: "K", Progress: 70})

	job, ok := r.Get("K")
	require.True(t, ok)
	require.Equal(t, domain.JobStatusInProgress, job.Status)
	require.Equal(t, 70, job.Progress)
}

func TestTerminalWithoutPriorRecord(t *testing.T) {
	r := newRegistry(50 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "x", Status: domain.JobStatusCompleted})

	job, ok := r.Get("x")
	require.True(t, ok)
	require.Equal(t, domain.JobStatusCompleted, job.Status)
	require.Equal(t, 100, job.Progress)

	require.Eventually(t, func() bool {
		_, ok := r.Get("x")
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDuplicateTerminalDoesNotResetTimer(t *testing.T) {
	r := newRegistry(120 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})

	// A late duplicate at the halfway point must not push removal out.
	time.Sleep(80 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})

	time.Sleep(80 * time.Millisecond)
	_, ok := r.Get("J")
	require.False(t, ok, "removal fires at the originally scheduled time")
}

func TestTerminalAfterRemovalIsDropped(t *testing.T) {
	r := newRegistry(20 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})

	require.Eventually(t, func() bool {
		_, ok := r.Get("J")
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})
	_, ok := r.Get("J")
	require.False(t, ok, "terminal for an already-removed id is a no-op")
}

func TestProgressClamped(t *testing.T) {
	r := newRegistry(time.Second)
	r.Progress(model.BackgroundJob{JobID: "J", Progress: 150})
	job, _ := r.Get("J")
	require.Equal(t, 100, job.Progress)

	r.Progress(model.BackgroundJob{JobID: "L", Progress: -5})
	job, _ = r.Get("L")
	require.Equal(t, 0, job.Progress)
}

func TestResetCancelsTimers(t *testing.T) {
	r := newRegistry(50 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})
	r.Started(model.BackgroundJob{JobID: "K"})

	r.Reset()
	require.Empty(t, r.Jobs())

	// If the timer survived Reset it would re-add J to the expired set;
	// a fresh terminal for J must behave like a brand new job.
	time.Sleep(80 * time.Millisecond)
	r.Terminal(model.BackgroundJob{JobID: "J", Status: domain.JobStatusCompleted})
	_, ok := r.Get("J")
	require.True(t, ok)
}

func TestJobsReturnsFirstSeenOrder(t *testing.T) {
	r := newRegistry(time.Second)
	r.Started(model.BackgroundJob{JobID: "a"})
	r.Started(model.BackgroundJob{JobID: "b"})
	r.Progress(model.BackgroundJob{JobID: "a", Progress: 10})

	jobs := r.Jobs()
	require.Len(t, jobs, 2)
	require.Equal(t, "a", jobs[0].JobID)
	require.Equal(t, "b", jobs[1].JobID)
}

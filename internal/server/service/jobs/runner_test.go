package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/domain"
	"eventhub/internal/event"
	"eventhub/internal/model"
	"eventhub/internal/server/hub"
	"eventhub/internal/transport"
)

func collectJobFrames(t *testing.T, ch <-chan transport.Frame, want int) []model.BackgroundJob {
	t.Helper()
	var jobs []model.BackgroundJob
	timeout := time.After(3 * time.Second)
	for len(jobs) < want {
		select {
		case frame := <-ch:
			job, err := event.DecodeJob(frame.Data)
			require.NoError(t, err)
			jobs = append(jobs, job)
		case <-timeout:
			t.Fatalf("got %d job frames, want %d", len(jobs), want)
		}
	}
	return jobs
}

func TestRunStreamsFullLifecycle(t *testing.T) {
	h := hub.NewHub()
	go h.Run(t.Context())

	client := &hub.Client{UserID: "u-1", Ch: make(chan transport.Frame, 16)}
	h.Register(client)
	defer h.Unregister(client)

	runner := NewRunnerWithInterval(h, zap.NewNop(), 5*time.Millisecond)
	jobID := runner.Run(t.Context(), "u-1", "certificate-export", 3, false)
	require.NotEmpty(t, jobID)

	// started + 3 progress + terminal.
	frames := collectJobFrames(t, client.Ch, 5)

	require.Equal(t, domain.JobStatusStarted, frames[0].Status)
	require.Equal(t, jobID, frames[0].JobID)

	require.Equal(t, domain.JobStatusInProgress, frames[1].Status)
	require.Equal(t, 1, frames[1].Completed)
	require.Equal(t, 100, frames[3].Progress)

	last := frames[4]
	require.Equal(t, domain.JobStatusCompleted, last.Status)
	require.Equal(t, jobID, last.JobID)
}

func TestRunCanFail(t *testing.T) {
	h := hub.NewHub()
	go h.Run(t.Context())

	client := &hub.Client{UserID: "u-2", Ch: make(chan transport.Frame, 16)}
	h.Register(client)
	defer h.Unregister(client)

	runner := NewRunnerWithInterval(h, zap.NewNop(), 5*time.Millisecond)
	runner.Run(t.Context(), "u-2", "bulk-email", 4, true)

	// started + 2 progress + failure.
	frames := collectJobFrames(t, client.Ch, 4)
	require.Equal(t, domain.JobStatusFailed, frames[len(frames)-1].Status)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsTerminalJobStatus(t *testing.T) {
	t.Run("terminal", func(t *testing.T) {
		for _, s := range []string{JobStatusCompleted, JobStatusFailed} {
			require.True(t, IsTerminalJobStatus(s), "expected terminal status: %s", s)
		}
	})

	t.Run("non-terminal", func(t *testing.T) {
		for _, s := range []string{JobStatusStarted, JobStatusInProgress, "", "done"} {
			require.False(t, IsTerminalJobStatus(s), "expected non-terminal status: %s", s)
		}
	})
}

func TestIsJobFailure(t *testing.T) {
	require.True(t, IsJobFailure(JobStatusFailed))
	require.True(t, IsJobFailure("error"))
	require.False(t, IsJobFailure(JobStatusCompleted))
	require.False(t, IsJobFailure(""))
}

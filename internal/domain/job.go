package domain

const (
	JobStatusStarted    = "started"
	JobStatusInProgress = "in-progress"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

func IsTerminalJobStatus(status string) bool {
	return status == JobStatusCompleted || status == JobStatusFailed
}

// IsJobFailure reports whether a terminal event carries a failure outcome.
// Producers are loose about the exact tag, so "error" is accepted too.
func IsJobFailure(status string) bool {
	switch status {
	case JobStatusFailed, "error":
		return true
	default:
		return false
	}
}

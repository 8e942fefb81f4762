package model

// BackgroundJob is the streamed view of one long-running server task.
// Completed/Total are used by batch jobs ("N of M recipients") alongside
// the percentage.
type BackgroundJob struct {
	JobID     string `json:"jobId"`
	UserID    string `json:"userId,omitempty"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Completed int    `json:"completed,omitempty"`
	Total     int    `json:"total,omitempty"`
	Message   string `json:"message,omitempty"`
}

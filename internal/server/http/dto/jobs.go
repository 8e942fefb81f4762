package dto

type RunJobRequest struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
	Total  int    `json:"total,omitempty"`
	Fail   bool   `json:"fail,omitempty"`
}

type RunJobResponse struct {
	JobID string `json:"jobId"`
}

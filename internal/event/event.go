// Package event defines the typed push-event vocabulary shared by the hub
// server and the client session. Payloads are validated here, at the channel
// boundary, so the stores behind it never see a malformed record.
package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"eventhub/internal/model"
	"eventhub/internal/transport"
)

type Kind string

const (
	// KindIdentify flows client to server on every (re)connection so the
	// server can associate the channel with a user.
	KindIdentify Kind = "identify"

	KindNotification Kind = "notification"
	KindJobStarted   Kind = "job-started"
	KindJobProgress  Kind = "job-progress"
	KindJobComplete  Kind = "job-complete"
)

var (
	ErrUnknownKind    = errors.New("unknown event kind")
	ErrInvalidPayload = errors.New("invalid event payload")
)

func IsJobKind(kind Kind) bool {
	switch kind {
	case KindJobStarted, KindJobProgress, KindJobComplete:
		return true
	default:
		return false
	}
}

func IsKnownKind(kind Kind) bool {
	switch kind {
	case KindIdentify, KindNotification, KindJobStarted, KindJobProgress, KindJobComplete:
		return true
	default:
		return false
	}
}

type Identify struct {
	UserID string `json:"userId"`
}

// NewFrame marshals a typed payload into a wire frame.
func NewFrame(kind Kind, payload any) (transport.Frame, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return transport.Frame{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return transport.Frame{Event: string(kind), Data: data}, nil
}

func DecodeIdentify(data []byte) (Identify, error) {
	var id Identify
	if err := json.Unmarshal(data, &id); err != nil {
		return Identify{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if id.UserID == "" {
		return Identify{}, fmt.Errorf("%w: identify requires userId", ErrInvalidPayload)
	}
	return id, nil
}

func DecodeNotification(data []byte) (model.Notification, error) {
	var n model.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return model.Notification{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if n.ID == "" || n.Type == "" {
		return model.Notification{}, fmt.Errorf("%w: notification requires id and type", ErrInvalidPayload)
	}
	return n, nil
}

func DecodeJob(data []byte) (model.BackgroundJob, error) {
	var job model.BackgroundJob
	if err := json.Unmarshal(data, &job); err != nil {
		return model.BackgroundJob{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if job.JobID == "" {
		return model.BackgroundJob{}, fmt.Errorf("%w: job event requires jobId", ErrInvalidPayload)
	}
	return job, nil
}

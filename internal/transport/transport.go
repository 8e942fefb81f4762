// Package transport carries push frames between the hub server and a client
// session. A Frame is the unit of delivery on every transport; the payload
// stays raw until the channel boundary decodes it into a typed event.
package transport

import (
	"context"
	"encoding/json"
	"errors"
)

type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

var ErrSendUnsupported = errors.New("transport: send not supported for this frame")

// Conn is one live connection. Receive blocks until a frame arrives or the
// connection dies; Close unblocks any pending Receive. Implementations are
// not safe for concurrent Receive calls.
type Conn interface {
	Send(ctx context.Context, frame Frame) error
	Receive() (Frame, error)
	Close() error
}

// Dialer establishes a Conn for one user identity. Dialers are tried in
// preference order by the channel manager; the first that connects wins.
type Dialer interface {
	Name() string
	Dial(ctx context.Context, userID string) (Conn, error)
}

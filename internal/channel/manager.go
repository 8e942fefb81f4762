// Package channel maintains the one live push connection a session owns.
// Frames missed while disconnected are gone: a reconnection produces a gap,
// not a catch-up stream.
package channel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/event"
	"eventhub/internal/metrics"
	"eventhub/internal/transport"
)

var (
	ErrNoDialers        = errors.New("channel: no transports configured")
	ErrIdentityMismatch = errors.New("channel: already open for another identity")
)

// Manager owns at most one live connection. Open is idempotent per
// identity; Close is idempotent full stop. Inbound frames are delivered in
// arrival order on a bounded queue.
type Manager struct {
	cfg     *config.Config
	log     *zap.Logger
	dialers []transport.Dialer

	mu     sync.Mutex
	open   bool
	userID string
	cancel context.CancelFunc
	frames chan transport.Frame
	done   chan struct{}
}

func NewManager(cfg *config.Config, logger *zap.Logger, dialers ...transport.Dialer) *Manager {
	return &Manager{cfg: cfg, log: logger, dialers: dialers}
}

func (m *Manager) Open(ctx context.Context, userID string) error {
	if len(m.dialers) == 0 {
		return ErrNoDialers
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		if m.userID == userID {
			return nil
		}
		return ErrIdentityMismatch
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.open = true
	m.userID = userID
	m.cancel = cancel
	m.frames = make(chan transport.Frame, m.cfg.ChannelBuffer)
	m.done = make(chan struct{})

	go m.run(runCtx, userID, m.frames, m.done)
	return nil
}

// Frames returns the inbound queue for the current connection. The channel
// is closed when the manager closes; a nil channel is returned before the
// first Open.
func (m *Manager) Frames() <-chan transport.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *Manager) Close() {
	m.mu.Lock()
	if !m.open {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	done := m.done
	m.open = false
	m.userID = ""
	m.mu.Unlock()

	cancel()
	<-done
}

func (m *Manager) run(ctx context.Context, userID string, frames chan transport.Frame, done chan struct{}) {
	defer close(done)
	defer close(frames)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = m.cfg.ReconnectInitialDelay
	bo.MaxInterval = m.cfg.ReconnectMaxDelay
	bo.MaxElapsedTime = 0 // reconnect forever

	first := true
	for {
		conn := m.connect(ctx, userID, bo)
		if conn == nil {
			return
		}
		bo.Reset()
		if !first {
			metrics.ClientReconnects.Inc()
		}
		first = false

		// The server re-learns the channel's owner on every physical
		// connection; reconnection does not preserve routing.
		if err := m.identify(ctx, conn, userID); err != nil {
			_ = conn.Close()
			if ctx.Err() != nil {
				return
			}
			m.log.Warn("channel identify failed", zap.String("user_id", userID), zap.Error(err))
			continue
		}

		m.pump(ctx, conn, frames)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		m.log.Warn("channel disconnected, reconnecting", zap.String("user_id", userID))
	}
}

// connect tries each transport in preference order, sleeping the backoff
// schedule between full rounds. Returns nil only when ctx is done.
func (m *Manager) connect(ctx context.Context, userID string, bo backoff.BackOff) transport.Conn {
	for {
		for _, dialer := range m.dialers {
			dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
			conn, err := dialer.Dial(dialCtx, userID)
			cancel()
			if err == nil {
				m.log.Info("channel connected",
					zap.String("transport", dialer.Name()),
					zap.String("user_id", userID),
				)
				return conn
			}
			if ctx.Err() != nil {
				return nil
			}
			m.log.Warn("channel dial failed",
				zap.String("transport", dialer.Name()),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(bo.NextBackOff()):
		}
	}
}

func (m *Manager) identify(ctx context.Context, conn transport.Conn, userID string) error {
	frame, err := event.NewFrame(event.KindIdentify, event.Identify{UserID: userID})
	if err != nil {
		return err
	}
	sendCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()
	return conn.Send(sendCtx, frame)
}

// pump moves frames from the connection to the queue until the connection
// dies or ctx is cancelled. Closing the connection unblocks Receive.
func (m *Manager) pump(ctx context.Context, conn transport.Conn, frames chan transport.Frame) {
	watcherDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-watcherDone:
		}
	}()
	defer close(watcherDone)

	for {
		frame, err := conn.Receive()
		if err != nil {
			if ctx.Err() == nil {
				m.log.Warn("channel receive failed", zap.Error(err))
			}
			return
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

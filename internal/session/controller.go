// Package session binds the notification store, the job registry and the
// push channel to one authenticated identity. One controller per session;
// Start and Stop bracket its whole lifetime.
package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/event"
	"eventhub/internal/jobs"
	"eventhub/internal/metrics"
	"eventhub/internal/notify"
	"eventhub/internal/transport"
)

var ErrAlreadyStarted = errors.New("session: already started for another identity")

// EventChannel is the push side of a session. *channel.Manager implements
// it.
type EventChannel interface {
	Open(ctx context.Context, userID string) error
	Frames() <-chan transport.Frame
	Close()
}

type Controller struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *notify.Store
	jobs    *jobs.Registry
	channel EventChannel

	mu       sync.Mutex
	started  bool
	userID   string
	loopDone chan struct{}
}

func NewController(cfg *config.Config, store *notify.Store, registry *jobs.Registry, ch EventChannel, logger *zap.Logger) *Controller {
	return &Controller{cfg: cfg, store: store, jobs: registry, channel: ch, log: logger}
}

// Start seeds the store from the baseline, opens the channel and begins
// routing frames. A failed baseline load is logged and not fatal: the push
// stream still delivers everything from here on, and the next explicit
// reload resyncs. Idempotent for the same identity.
func (c *Controller) Start(ctx context.Context, userID string) error {
	c.mu.Lock()
	if c.started {
		same := c.userID == userID
		c.mu.Unlock()
		if same {
			return nil
		}
		return ErrAlreadyStarted
	}
	c.started = true
	c.userID = userID
	c.loopDone = make(chan struct{})
	loopDone := c.loopDone
	c.mu.Unlock()

	if err := c.store.LoadBaseline(ctx, userID); err != nil {
		c.log.Warn("session started without baseline", zap.String("user_id", userID), zap.Error(err))
	}

	if err := c.channel.Open(ctx, userID); err != nil {
		c.mu.Lock()
		c.started = false
		c.userID = ""
		c.mu.Unlock()
		close(loopDone)
		return err
	}

	go func() {
		defer close(loopDone)
		for frame := range c.channel.Frames() {
			c.dispatch(frame)
		}
	}()

	c.log.Info("session started", zap.String("user_id", userID))
	return nil
}

// dispatch routes one frame by kind. Malformed or unknown frames are logged
// and dropped; nothing here is fatal to the session.
func (c *Controller) dispatch(frame transport.Frame) {
	metrics.ClientFramesReceived.WithLabelValues(frame.Event).Inc()

	switch event.Kind(frame.Event) {
	case event.KindNotification:
		n, err := event.DecodeNotification(frame.Data)
		if err != nil {
			c.log.Warn("malformed notification frame dropped", zap.Error(err))
			return
		}
		c.store.Ingest(n)
	case event.KindJobStarted:
		job, err := event.DecodeJob(frame.Data)
		if err != nil {
			c.log.Warn("malformed job frame dropped", zap.Error(err))
			return
		}
		c.jobs.Started(job)
	case event.KindJobProgress:
		job, err := event.DecodeJob(frame.Data)
		if err != nil {
			c.log.Warn("malformed job frame dropped", zap.Error(err))
			return
		}
		c.jobs.Progress(job)
	case event.KindJobComplete:
		job, err := event.DecodeJob(frame.Data)
		if err != nil {
			c.log.Warn("malformed job frame dropped", zap.Error(err))
			return
		}
		c.jobs.Terminal(job)
	default:
		c.log.Warn("unknown frame kind dropped", zap.String("event", frame.Event))
	}
}

// Stop tears the session down: channel closed, routing loop drained, job
// timers cancelled, both collections cleared. Safe to call repeatedly.
// In-flight REST requests are not cancelled; their results land in a store
// that has already been reset and are effectively discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.started = false
	userID := c.userID
	c.userID = ""
	loopDone := c.loopDone
	c.mu.Unlock()

	c.channel.Close()
	<-loopDone
	c.jobs.Reset()
	c.store.Reset()
	c.log.Info("session stopped", zap.String("user_id", userID))
}

// Store exposes the notification state for collaborators (drawers, badges).
func (c *Controller) Store() *notify.Store { return c.store }

// Jobs exposes the job registry for collaborators (progress toasts).
func (c *Controller) Jobs() *jobs.Registry { return c.jobs }

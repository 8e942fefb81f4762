// Package notify holds a session's in-memory notification collection and
// its derived unread counter. The counter and the collection move in the
// same critical section: there is no observable state where they disagree.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/model"
)

// Commander is the server side of the store's mutations. *rest.Client
// implements it.
type Commander interface {
	FetchBaseline(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) (model.Notification, error)
	ClearAll(ctx context.Context, userID string) error
}

type Store struct {
	api    Commander
	log    *zap.Logger
	dedupe bool

	mu     sync.Mutex
	items  []model.Notification
	unread int
}

func NewStore(cfg *config.Config, api Commander, logger *zap.Logger) *Store {
	return &Store{api: api, log: logger, dedupe: cfg.DedupePushed}
}

// LoadBaseline replaces the whole collection with the server's authoritative
// set and recomputes the counter from scratch. On failure the prior state is
// left untouched.
func (s *Store) LoadBaseline(ctx context.Context, userID string) error {
	notifications, err := s.api.FetchBaseline(ctx, userID)
	if err != nil {
		s.log.Error("baseline fetch failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	s.mu.Lock()
	s.items = notifications
	s.unread = unread
	s.mu.Unlock()
	return nil
}

// Ingest prepends a pushed notification (newest first) and counts it as
// unread. With dedupe enabled, a redelivered id is dropped instead of
// producing a duplicate entry.
func (s *Store) Ingest(n model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dedupe {
		for _, existing := range s.items {
			if existing.ID == n.ID {
				s.log.Debug("duplicate pushed notification dropped", zap.String("id", n.ID))
				return
			}
		}
	}

	s.items = append([]model.Notification{n}, s.items...)
	s.unread++
}

// MarkRead flips the record optimistically, then confirms with the server
// and overwrites the local record with the canonical one. A failed request
// is returned but the optimistic change stands; the next baseline load
// resynchronizes.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	flipped := false
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		if s.items[i].Read {
			s.mu.Unlock()
			return nil
		}
		s.items[i].Read = true
		if s.unread > 0 {
			s.unread--
		}
		flipped = true
		break
	}
	s.mu.Unlock()

	if !flipped {
		return nil
	}

	updated, err := s.api.MarkRead(ctx, id)
	if err != nil {
		s.log.Error("mark read failed, local state kept", zap.String("id", id), zap.Error(err))
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ClearAll empties the collection optimistically, then asks the server to
// delete. On failure the cleared state is not restored; the error surfaces
// to the caller.
func (s *Store) ClearAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.items = nil
	s.unread = 0
	s.mu.Unlock()

	if err := s.api.ClearAll(ctx, userID); err != nil {
		s.log.Error("clear all failed, local state already cleared",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Notifications returns a copy of the collection, newest first.
func (s *Store) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.items...)
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unread
}

// Reset drops all local state. Used on session teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.unread = 0
	s.mu.Unlock()
}

package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
	"eventhub/internal/model"
)

func (s *Store) CreateNotification(_ context.Context, notification model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, notification)
	return notification, nil
}

func (s *Store) ListNotificationsByUser(_ context.Context, userID string) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []model.Notification
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].UserID != userID {
			continue
		}
		result = append(result, s.records[i])
	}
	return result, nil
}

func (s *Store) MarkNotificationRead(_ context.Context, id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Read = true
			return s.records[i], nil
		}
	}
	return model.Notification{}, domain.ErrNotificationNotFound
}

func (s *Store) DeleteNotificationsByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, record := range s.records {
		if record.UserID != userID {
			kept = append(kept, record)
		}
	}
	s.records = kept
	return nil
}

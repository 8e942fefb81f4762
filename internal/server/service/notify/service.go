package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eventhub/internal/event"
	"eventhub/internal/model"
	"eventhub/internal/server/hub"
	"eventhub/internal/server/repository"
)

var ErrMissingFields = fmt.Errorf("notification requires userId and type")

type Service struct {
	store repository.NotificationRepository
	hub   *hub.Hub
	log   *zap.Logger
}

func NewService(store repository.NotificationRepository, h *hub.Hub, logger *zap.Logger) *Service {
	return &Service{store: store, hub: h, log: logger}
}

// Create persists the notification and pushes it to every channel the
// recipient holds open.
func (s *Service) Create(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.UserID == "" || notification.Type == "" {
		return model.Notification{}, ErrMissingFields
	}

	created, err := s.store.CreateNotification(ctx, notification)
	if err != nil {
		s.log.Error("store create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
		return model.Notification{}, err
	}

	frame, err := event.NewFrame(event.KindNotification, created)
	if err != nil {
		s.log.Error("encode notification frame failed", zap.Error(err))
		return created, nil
	}
	s.hub.Broadcast(created.UserID, frame)
	return created, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]model.Notification, error) {
	notifications, err := s.store.ListNotificationsByUser(ctx, userID)
	if err != nil {
		s.log.Error("store list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	updated, err := s.store.MarkNotificationRead(ctx, id)
	if err != nil {
		s.log.Error("store mark read failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	return updated, nil
}

func (s *Service) ClearAll(ctx context.Context, userID string) error {
	if err := s.store.DeleteNotificationsByUser(ctx, userID); err != nil {
		s.log.Error("store clear notifications failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

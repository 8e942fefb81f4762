package repository

import (
	"context"

	"eventhub/internal/model"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (model.Notification, error)
	DeleteNotificationsByUser(ctx context.Context, userID string) error
}

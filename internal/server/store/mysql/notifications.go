package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"eventhub/internal/domain"
	"eventhub/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, notification model.Notification) (model.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	var data []byte
	if notification.Data != nil {
		var err error
		data, err = json.Marshal(notification.Data)
		if err != nil {
			s.log.Error("sql marshal notification data failed", zap.Error(err))
			return model.Notification{}, err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, data, priority, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		data,
		notification.Priority,
		notification.Read,
		notification.CreatedAt,
	)
	if err != nil {
		s.log.Error("sql create notification failed",
			zap.String("user_id", notification.UserID),
			zap.String("type", notification.Type),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Store) ListNotificationsByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, type, title, message, data, priority, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		s.log.Error("sql list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			s.log.Error("sql scan notification failed", zap.Error(err))
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) (model.Notification, error) {
	// A repeat mark-read updates zero rows; the select below still returns
	// the canonical record either way.
	if _, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = ?`, id); err != nil {
		s.log.Error("sql mark notification read failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, title, message, data, priority, is_read, created_at
		FROM notifications WHERE id = ?`,
		id,
	)
	notification, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, domain.ErrNotificationNotFound
	}
	if err != nil {
		return model.Notification{}, err
	}
	return notification, nil
}

func (s *Store) DeleteNotificationsByUser(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID); err != nil {
		s.log.Error("sql delete notifications failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (model.Notification, error) {
	var (
		notification model.Notification
		data         sql.NullString
		priority     sql.NullString
	)
	err := row.Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&data,
		&priority,
		&notification.Read,
		&notification.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, err
	}
	if priority.Valid {
		notification.Priority = priority.String
	}
	if data.Valid && data.String != "" {
		if err := json.Unmarshal([]byte(data.String), &notification.Data); err != nil {
			return model.Notification{}, err
		}
	}
	return notification, nil
}

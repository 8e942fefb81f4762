package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/domain"
	"eventhub/internal/model"
)

func TestCreateAndListNewestFirst(t *testing.T) {
	s := New(zap.NewNop())
	ctx := context.Background()

	first, err := s.CreateNotification(ctx, model.Notification{UserID: "u-1", Type: "reminder"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	second, err := s.CreateNotification(ctx, model.Notification{UserID: "u-1", Type: "announcement"})
	require.NoError(t, err)

	_, err = s.CreateNotification(ctx, model.Notification{UserID: "u-2", Type: "reminder"})
	require.NoError(t, err)

	list, err := s.ListNotificationsByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.Equal(t, first.ID, list[1].ID)
}

func TestMarkNotificationRead(t *testing.T) {
	s := New(zap.NewNop())
	ctx := context.Background()

	created, err := s.CreateNotification(ctx, model.Notification{UserID: "u-1", Type: "reminder"})
	require.NoError(t, err)

	updated, err := s.MarkNotificationRead(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, updated.Read)

	_, err = s.MarkNotificationRead(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func TestDeleteNotificationsByUser(t *testing.T) {
	s := New(zap.NewNop())
	ctx := context.Background()

	_, err := s.CreateNotification(ctx, model.Notification{UserID: "u-1"})
	require.NoError(t, err)
	_, err = s.CreateNotification(ctx, model.Notification{UserID: "u-2"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteNotificationsByUser(ctx, "u-1"))

	list, err := s.ListNotificationsByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = s.ListNotificationsByUser(ctx, "u-2")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

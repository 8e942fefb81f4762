//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/domain"
	"eventhub/internal/model"
)

func TestMySQLNotificationStore(t *testing.T) {
	ctx := context.Background()
	dsn, cleanup := setupMySQLContainer(t, ctx)
	defer cleanup()

	dbConn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()

	store := New(dbConn, zap.NewNop())

	t.Run("create and list newest first", func(t *testing.T) {
		first, err := store.CreateNotification(ctx, model.Notification{
			UserID:  "u-1",
			Type:    "reminder",
			Title:   "Event tomorrow",
			Message: "Tech fest starts at 9am",
			Data:    map[string]any{"eventId": "e-1"},
		})
		require.NoError(t, err)
		require.NotEmpty(t, first.ID)

		second, err := store.CreateNotification(ctx, model.Notification{
			UserID:   "u-1",
			Type:     "announcement",
			Title:    "Venue changed",
			Priority: domain.PriorityHigh,
		})
		require.NoError(t, err)

		list, err := store.ListNotificationsByUser(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, second.ID, list[0].ID)
		require.Equal(t, "e-1", list[1].Data["eventId"])
	})

	t.Run("mark read round trip", func(t *testing.T) {
		created, err := store.CreateNotification(ctx, model.Notification{UserID: "u-2", Type: "reminder"})
		require.NoError(t, err)

		updated, err := store.MarkNotificationRead(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, updated.Read)

		again, err := store.MarkNotificationRead(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, again.Read)

		_, err = store.MarkNotificationRead(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotificationNotFound)
	})

	t.Run("delete by user", func(t *testing.T) {
		_, err := store.CreateNotification(ctx, model.Notification{UserID: "u-3", Type: "reminder"})
		require.NoError(t, err)

		require.NoError(t, store.DeleteNotificationsByUser(ctx, "u-3"))

		list, err := store.ListNotificationsByUser(ctx, "u-3")
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

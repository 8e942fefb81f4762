package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"eventhub/internal/config"
	"eventhub/internal/model"
)

type commanderMock struct {
	mock.Mock
}

func (m *commanderMock) FetchBaseline(ctx context.Context, userID string) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *commanderMock) MarkRead(ctx context.Context, id string) (model.Notification, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *commanderMock) ClearAll(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newStore(api Commander, dedupe bool) *Store {
	return NewStore(&config.Config{DedupePushed: dedupe}, api, zap.NewNop())
}

func requireInvariant(t *testing.T, s *Store) {
	t.Helper()
	unread := 0
	for _, n := range s.Notifications() {
		if !n.Read {
			unread++
		}
	}
	require.Equal(t, unread, s.UnreadCount())
}

func TestLoadBaseline(t *testing.T) {
	t.Run("counter recomputed from scratch", func(t *testing.T) {
		api := &commanderMock{}
		api.On("FetchBaseline", mock.Anything, "u-1").Return([]model.Notification{
			{ID: "1", Read: false},
			{ID: "2", Read: true},
		}, nil).Once()
		s := newStore(api, false)

		require.NoError(t, s.LoadBaseline(context.Background(), "u-1"))
		require.Equal(t, 1, s.UnreadCount())
		requireInvariant(t, s)
		api.AssertExpectations(t)
	})

	t.Run("failure leaves prior state", func(t *testing.T) {
		api := &commanderMock{}
		api.On("FetchBaseline", mock.Anything, "u-1").
			Return([]model.Notification{{ID: "1"}}, nil).Once()
		api.On("FetchBaseline", mock.Anything, "u-1").
			Return([]model.Notification(nil), errors.New("boom")).Once()
		s := newStore(api, false)

		require.NoError(t, s.LoadBaseline(context.Background(), "u-1"))
		require.Error(t, s.LoadBaseline(context.Background(), "u-1"))
		require.Len(t, s.Notifications(), 1)
		require.Equal(t, 1, s.UnreadCount())
	})
}

func TestIngest(t *testing.T) {
	t.Run("prepends newest first and counts unread", func(t *testing.T) {
		api := &commanderMock{}
		api.On("FetchBaseline", mock.Anything, "u-1").Return([]model.Notification{
			{ID: "1", Read: false},
			{ID: "2", Read: true},
		}, nil).Once()
		s := newStore(api, false)
		require.NoError(t, s.LoadBaseline(context.Background(), "u-1"))

		s.Ingest(model.Notification{ID: "3", Read: false})

		items := s.Notifications()
		require.Equal(t, []string{"3", "1", "2"}, []string{items[0].ID, items[1].ID, items[2].ID})
		require.Equal(t, 2, s.UnreadCount())
		requireInvariant(t, s)
	})

	t.Run("duplicate id visible when dedupe off", func(t *testing.T) {
		s := newStore(&commanderMock{}, false)
		s.Ingest(model.Notification{ID: "1"})
		s.Ingest(model.Notification{ID: "1"})
		require.Len(t, s.Notifications(), 2)
		require.Equal(t, 2, s.UnreadCount())
	})

	t.Run("duplicate id dropped when dedupe on", func(t *testing.T) {
		s := newStore(&commanderMock{}, true)
		s.Ingest(model.Notification{ID: "1"})
		s.Ingest(model.Notification{ID: "1"})
		require.Len(t, s.Notifications(), 1)
		require.Equal(t, 1, s.UnreadCount())
		requireInvariant(t, s)
	})
}

func TestMarkRead(t *testing.T) {
	seed := func(api Commander) *Store {
		s := newStore(api, false)
		s.Ingest(model.Notification{ID: "3", Type: "reminder"})
		return s
	}

	t.Run("server record overwrites local", func(t *testing.T) {
		api := &commanderMock{}
		api.On("MarkRead", mock.Anything, "3").
			Return(model.Notification{ID: "3", Type: "reminder", Read: true, Priority: "high"}, nil).Once()
		s := seed(api)

		require.NoError(t, s.MarkRead(context.Background(), "3"))
		require.Equal(t, 0, s.UnreadCount())
		items := s.Notifications()
		require.True(t, items[0].Read)
		require.Equal(t, "high", items[0].Priority)
		requireInvariant(t, s)
		api.AssertExpectations(t)
	})

	t.Run("already read is a no-op without a command", func(t *testing.T) {
		api := &commanderMock{}
		api.On("MarkRead", mock.Anything, "3").
			Return(model.Notification{ID: "3", Read: true}, nil).Once()
		s := seed(api)

		require.NoError(t, s.MarkRead(context.Background(), "3"))
		require.NoError(t, s.MarkRead(context.Background(), "3"))
		api.AssertNumberOfCalls(t, "MarkRead", 1)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		api := &commanderMock{}
		s := seed(api)
		require.NoError(t, s.MarkRead(context.Background(), "missing"))
		api.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("failure keeps the optimistic flip", func(t *testing.T) {
		api := &commanderMock{}
		api.On("MarkRead", mock.Anything, "3").
			Return(model.Notification{}, errors.New("boom")).Once()
		s := seed(api)

		require.Error(t, s.MarkRead(context.Background(), "3"))
		require.Equal(t, 0, s.UnreadCount())
		require.True(t, s.Notifications()[0].Read)
	})
}

func TestClearAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api := &commanderMock{}
		api.On("ClearAll", mock.Anything, "u-1").Return(nil).Once()
		s := newStore(api, false)
		s.Ingest(model.Notification{ID: "1"})

		require.NoError(t, s.ClearAll(context.Background(), "u-1"))
		require.Empty(t, s.Notifications())
		require.Equal(t, 0, s.UnreadCount())
		api.AssertExpectations(t)
	})

	t.Run("failure does not restore", func(t *testing.T) {
		api := &commanderMock{}
		api.On("ClearAll", mock.Anything, "u-1").Return(errors.New("boom")).Once()
		s := newStore(api, false)
		s.Ingest(model.Notification{ID: "1"})

		require.Error(t, s.ClearAll(context.Background(), "u-1"))
		require.Empty(t, s.Notifications())
		require.Equal(t, 0, s.UnreadCount())
	})
}

func TestInvariantAcrossSequence(t *testing.T) {
	api := &commanderMock{}
	api.On("FetchBaseline", mock.Anything, "u-1").Return([]model.Notification{
		{ID: "a", Read: false},
		{ID: "b", Read: true},
	}, nil).Once()
	api.On("MarkRead", mock.Anything, mock.Anything).
		Return(model.Notification{ID: "c", Read: true}, nil)
	api.On("ClearAll", mock.Anything, "u-1").Return(nil)

	s := newStore(api, false)
	require.NoError(t, s.LoadBaseline(context.Background(), "u-1"))
	requireInvariant(t, s)

	s.Ingest(model.Notification{ID: "c"})
	requireInvariant(t, s)

	require.NoError(t, s.MarkRead(context.Background(), "c"))
	requireInvariant(t, s)

	require.NoError(t, s.ClearAll(context.Background(), "u-1"))
	requireInvariant(t, s)
}

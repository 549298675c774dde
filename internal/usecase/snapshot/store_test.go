package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
	redismock "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/redis/mock"
)

func setupStore(t *testing.T) (*Store, *redismock.MockClient, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockClient := redismock.NewMockClient(ctrl)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return NewSnapshotStore(mockClient, "STX-USDA", log), mockClient, ctrl
}

func TestStore_Store(t *testing.T) {
	t.Run("writes snapshot keyed by pair", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		snapshot := &snapshotv1.Snapshot{
			OrderOffset: 42,
			NextOrderID: 7,
			Sequence:    6,
		}

		mockClient.EXPECT().
			Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
			DoAndReturn(func(_ context.Context, _ string, value any, _ time.Duration) error {
				buf, ok := value.([]byte)
				require.True(t, ok)

				var decoded snapshotv1.Snapshot
				require.NoError(t, json.Unmarshal(buf, &decoded))
				assert.Equal(t, int64(42), decoded.OrderOffset)
				assert.Equal(t, uint64(7), decoded.NextOrderID)
				return nil
			}).
			Times(1)

		assert.NoError(t, store.Store(context.Background(), snapshot))
	})

	t.Run("redis failure is surfaced when reconnect fails", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		mockClient.EXPECT().
			Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
			Return(errors.New("connection refused")).
			Times(1)
		mockClient.EXPECT().
			Reconnect(gomock.Any()).
			Return(false).
			Times(1)

		assert.Error(t, store.Store(context.Background(), &snapshotv1.Snapshot{}))
	})

	t.Run("reconnects and retries the write once", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		gomock.InOrder(
			mockClient.EXPECT().
				Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
				Return(errors.New("connection reset")),
			mockClient.EXPECT().
				Reconnect(gomock.Any()).
				Return(true),
			mockClient.EXPECT().
				Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
				Return(nil),
		)

		assert.NoError(t, store.Store(context.Background(), &snapshotv1.Snapshot{}))
	})

	t.Run("retry failure is surfaced", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		gomock.InOrder(
			mockClient.EXPECT().
				Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
				Return(errors.New("connection reset")),
			mockClient.EXPECT().
				Reconnect(gomock.Any()).
				Return(true),
			mockClient.EXPECT().
				Set(gomock.Any(), "STX-USDA", gomock.Any(), time.Duration(0)).
				Return(errors.New("still down")),
		)

		assert.Error(t, store.Store(context.Background(), &snapshotv1.Snapshot{}))
	})
}

func TestStore_LoadStore(t *testing.T) {
	t.Run("round trips a stored snapshot", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		stored := &snapshotv1.Snapshot{
			OrderOffset: 42,
			NextOrderID: 7,
			Sequence:    6,
			BookSnapshot: snapshotv1.BookSnapshot{
				Orders: []snapshotv1.BookOrder{
					{OrderID: 1, Owner: "alice", Side: 1, Price: 1_500_000, OriginalAmount: 100, RemainingAmount: 100, Status: "open", CreatedAt: 1},
				},
			},
		}
		buf, err := json.Marshal(stored)
		require.NoError(t, err)

		mockClient.EXPECT().
			Get(gomock.Any(), "STX-USDA").
			Return(string(buf), nil).
			Times(1)

		loaded, err := store.LoadStore(context.Background())
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, stored.OrderOffset, loaded.OrderOffset)
		assert.Equal(t, stored.NextOrderID, loaded.NextOrderID)
		require.Len(t, loaded.BookSnapshot.Orders, 1)
		assert.Equal(t, "alice", loaded.BookSnapshot.Orders[0].Owner)
	})

	t.Run("missing snapshot yields nil without error", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		mockClient.EXPECT().
			Get(gomock.Any(), "STX-USDA").
			Return("", nil).
			Times(1)

		loaded, err := store.LoadStore(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("corrupt payload fails", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		mockClient.EXPECT().
			Get(gomock.Any(), "STX-USDA").
			Return("{not json", nil).
			Times(1)

		_, err := store.LoadStore(context.Background())
		assert.Error(t, err)
	})

	t.Run("redis failure is surfaced", func(t *testing.T) {
		store, mockClient, ctrl := setupStore(t)
		defer ctrl.Finish()

		mockClient.EXPECT().
			Get(gomock.Any(), "STX-USDA").
			Return("", errors.New("connection refused")).
			Times(1)

		_, err := store.LoadStore(context.Background())
		assert.Error(t, err)
	})
}

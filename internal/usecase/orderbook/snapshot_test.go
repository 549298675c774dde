package orderbook

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
)

func TestBook_CreateSnapshot(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()

	_, err := book.PlaceLimitOrder(ctx, "alice", orderbookv1.SideBuy, 1_400_000, 100)
	require.NoError(t, err)
	_, err = book.PlaceLimitOrder(ctx, "bob", orderbookv1.SideSell, 1_600_000, 50)
	require.NoError(t, err)

	// A fully matched pair leaves nothing behind in the snapshot
	_, err = book.PlaceLimitOrder(ctx, "carol", orderbookv1.SideSell, 1_700_000, 25)
	require.NoError(t, err)
	_, err = book.PlaceLimitOrder(ctx, "dave", orderbookv1.SideBuy, 1_700_000, 25)
	require.NoError(t, err)

	snapshot := book.CreateSnapshot()

	require.Len(t, snapshot.BookSnapshot.Orders, 2)
	assert.Equal(t, uint64(5), snapshot.NextOrderID)

	byID := make(map[uint64]snapshotv1.BookOrder)
	for _, order := range snapshot.BookSnapshot.Orders {
		byID[order.OrderID] = order
	}
	assert.Equal(t, "alice", byID[1].Owner)
	assert.Equal(t, uint64(100), byID[1].RemainingAmount)
	assert.Equal(t, "bob", byID[2].Owner)
	assert.Equal(t, uint64(50), byID[2].RemainingAmount)
}

func TestBook_RestoreBook(t *testing.T) {
	t.Run("nil snapshot rejected", func(t *testing.T) {
		book := newTestBook(t)

		assert.ErrorIs(t, book.RestoreBook(nil), orderbookv1.ErrInvalidOrderParameters)
	})

	t.Run("round trip preserves book state", func(t *testing.T) {
		source := newTestBook(t)
		ctx := context.Background()

		_, err := source.PlaceLimitOrder(ctx, "alice", orderbookv1.SideBuy, 1_400_000, 100)
		require.NoError(t, err)
		_, err = source.PlaceLimitOrder(ctx, "bob", orderbookv1.SideBuy, 1_500_000, 70)
		require.NoError(t, err)
		_, err = source.PlaceLimitOrder(ctx, "carol", orderbookv1.SideSell, 1_600_000, 30)
		require.NoError(t, err)

		restored := newTestBook(t)
		require.NoError(t, restored.RestoreBook(source.CreateSnapshot()))

		assert.Equal(t, source.ActiveBuyPrices(), restored.ActiveBuyPrices())
		assert.Equal(t, source.ActiveSellPrices(), restored.ActiveSellPrices())
		assert.Equal(t, source.BidTotalVolume(), restored.BidTotalVolume())
		assert.Equal(t, source.AskTotalVolume(), restored.AskTotalVolume())
		assert.Equal(t, source.UserOrders("alice"), restored.UserOrders("alice"))

		// Id allocation continues where the source left off
		next, err := restored.PlaceLimitOrder(ctx, "dave", orderbookv1.SideBuy, 1_300_000, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(4), next.OrderID)
	})

	t.Run("restore rebuilds time priority within a level", func(t *testing.T) {
		source := newTestBook(t)
		ctx := context.Background()

		first, err := source.PlaceLimitOrder(ctx, "alice", orderbookv1.SideSell, 1_500_000, 40)
		require.NoError(t, err)
		second, err := source.PlaceLimitOrder(ctx, "bob", orderbookv1.SideSell, 1_500_000, 40)
		require.NoError(t, err)

		restored := newTestBook(t)
		require.NoError(t, restored.RestoreBook(source.CreateSnapshot()))

		// The first-placed order still matches first
		taker, err := restored.PlaceMarketOrder(ctx, "carol", orderbookv1.SideBuy, 40)
		require.NoError(t, err)
		require.Len(t, taker.Matches, 1)
		assert.Equal(t, first.OrderID, taker.Matches[0].SellOrderID)

		secondView, found := restored.GetOrder(second.OrderID)
		require.True(t, found)
		assert.Equal(t, uint64(40), secondView.RemainingAmount)
	})

	t.Run("zero next id falls back to one", func(t *testing.T) {
		book := newTestBook(t)
		require.NoError(t, book.RestoreBook(&snapshotv1.Snapshot{}))

		placed, err := book.PlaceLimitOrder(context.Background(), "alice", orderbookv1.SideBuy, 1_500_000, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), placed.OrderID)
	})
}

package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceLevel_AddAndFront(t *testing.T) {
	level := NewPriceLevel(1_500_000)

	first := NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)
	second := NewOrder(2, "bob", SideSell, KindLimit, 1_500_000, 50, 2)

	require.NoError(t, level.Add(first))
	require.NoError(t, level.Add(second))

	assert.Equal(t, 2, level.OrderCount())
	assert.Equal(t, uint64(150), level.Volume())

	// FIFO: the earlier order keeps time priority
	front := level.Front()
	require.NotNil(t, front)
	assert.Equal(t, uint64(1), front.ID)
}

func TestPriceLevel_AddRejectsBadOrders(t *testing.T) {
	level := NewPriceLevel(1_500_000)

	assert.ErrorIs(t, level.Add(nil), ErrInvalidOrderParameters)

	exhausted := NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)
	require.NoError(t, exhausted.ApplyFill(100))
	assert.ErrorIs(t, level.Add(exhausted), ErrInvalidOrderParameters)
}

func TestPriceLevel_Remove(t *testing.T) {
	level := NewPriceLevel(1_500_000)

	first := NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)
	second := NewOrder(2, "bob", SideSell, KindLimit, 1_500_000, 50, 2)
	require.NoError(t, level.Add(first))
	require.NoError(t, level.Add(second))

	require.NoError(t, level.Remove(first))

	assert.Equal(t, 1, level.OrderCount())
	assert.Equal(t, uint64(50), level.Volume())
	assert.Equal(t, uint64(2), level.Front().ID)

	// Removing again fails
	assert.ErrorIs(t, level.Remove(first), ErrOrderNotAtLevel)
	assert.ErrorIs(t, level.Remove(nil), ErrInvalidOrderParameters)
}

func TestPriceLevel_VolumeBookkeeping(t *testing.T) {
	level := NewPriceLevel(1_500_000)

	order := NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)
	require.NoError(t, level.Add(order))

	level.ReduceVolume(30)
	assert.Equal(t, uint64(70), level.Volume())

	level.RestoreVolume(30)
	assert.Equal(t, uint64(100), level.Volume())
}

func TestPriceLevel_Validate(t *testing.T) {
	t.Run("consistent level passes", func(t *testing.T) {
		level := NewPriceLevel(1_500_000)
		require.NoError(t, level.Add(NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)))

		assert.NoError(t, level.Validate())
	})

	t.Run("zero price fails", func(t *testing.T) {
		level := NewPriceLevel(0)

		assert.ErrorIs(t, level.Validate(), ErrInvalidOrderParameters)
	})

	t.Run("volume mismatch fails", func(t *testing.T) {
		level := NewPriceLevel(1_500_000)
		require.NoError(t, level.Add(NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)))

		level.ReduceVolume(10)

		assert.Error(t, level.Validate())
	})
}

func TestPriceLevel_GetOrdersReturnsCopy(t *testing.T) {
	level := NewPriceLevel(1_500_000)
	require.NoError(t, level.Add(NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)))
	require.NoError(t, level.Add(NewOrder(2, "bob", SideSell, KindLimit, 1_500_000, 50, 2)))

	orders := level.GetOrders()
	require.Len(t, orders, 2)

	orders[0] = nil
	assert.NotNil(t, level.Front())
}

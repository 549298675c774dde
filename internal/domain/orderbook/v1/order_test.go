package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide(t *testing.T) {
	assert.True(t, SideBuy.Valid())
	assert.True(t, SideSell.Valid())
	assert.False(t, Side(0).Valid())
	assert.False(t, Side(3).Valid())

	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())

	assert.Equal(t, "buy", SideBuy.String())
	assert.Equal(t, "sell", SideSell.String())
	assert.Equal(t, "unknown", Side(7).String())
}

func TestStatus_Transitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{name: "open to partially filled", from: StatusOpen, to: StatusPartiallyFilled, allowed: true},
		{name: "open to filled", from: StatusOpen, to: StatusFilled, allowed: true},
		{name: "open to cancelled", from: StatusOpen, to: StatusCancelled, allowed: true},
		{name: "partially filled stays partially filled", from: StatusPartiallyFilled, to: StatusPartiallyFilled, allowed: true},
		{name: "partially filled to filled", from: StatusPartiallyFilled, to: StatusFilled, allowed: true},
		{name: "partially filled to cancelled", from: StatusPartiallyFilled, to: StatusCancelled, allowed: true},
		{name: "filled is terminal", from: StatusFilled, to: StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: StatusCancelled, to: StatusPartiallyFilled, allowed: false},
		{name: "open cannot go back to open", from: StatusOpen, to: StatusOpen, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to))
		})
	}

	assert.True(t, StatusFilled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusOpen.Terminal())
	assert.False(t, StatusPartiallyFilled.Terminal())
}

func TestOrder_Crosses(t *testing.T) {
	testCases := []struct {
		name         string
		order        *Order
		restingPrice uint64
		crosses      bool
	}{
		{
			name:         "buy crosses equal ask",
			order:        NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1),
			restingPrice: 1_500_000,
			crosses:      true,
		},
		{
			name:         "buy crosses cheaper ask",
			order:        NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1),
			restingPrice: 1_400_000,
			crosses:      true,
		},
		{
			name:         "buy does not cross pricier ask",
			order:        NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1),
			restingPrice: 1_600_000,
			crosses:      false,
		},
		{
			name:         "sell crosses higher bid",
			order:        NewOrder(2, "bob", SideSell, KindLimit, 1_500_000, 100, 2),
			restingPrice: 1_600_000,
			crosses:      true,
		},
		{
			name:         "sell does not cross lower bid",
			order:        NewOrder(2, "bob", SideSell, KindLimit, 1_500_000, 100, 2),
			restingPrice: 1_400_000,
			crosses:      false,
		},
		{
			name:         "market buy crosses anything",
			order:        NewOrder(3, "carol", SideBuy, KindMarket, 0, 100, 3),
			restingPrice: 999_999_999,
			crosses:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.crosses, tc.order.Crosses(tc.restingPrice))
		})
	}
}

func TestOrder_ApplyFill(t *testing.T) {
	t.Run("partial fill keeps order alive", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)

		require.NoError(t, order.ApplyFill(40))

		assert.Equal(t, uint64(60), order.RemainingAmount)
		assert.Equal(t, uint64(40), order.FilledAmount())
		assert.Equal(t, StatusPartiallyFilled, order.Status)
	})

	t.Run("exact fill terminates order", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)

		require.NoError(t, order.ApplyFill(100))

		assert.Equal(t, uint64(0), order.RemainingAmount)
		assert.Equal(t, StatusFilled, order.Status)
		assert.True(t, order.Status.Terminal())
	})

	t.Run("zero fill rejected", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)

		assert.ErrorIs(t, order.ApplyFill(0), ErrInvalidFillAmount)
	})

	t.Run("overfill rejected", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)

		assert.ErrorIs(t, order.ApplyFill(101), ErrInvalidFillAmount)
		assert.Equal(t, uint64(100), order.RemainingAmount)
		assert.Equal(t, StatusOpen, order.Status)
	})

	t.Run("fill after terminal rejected", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)
		require.NoError(t, order.MarkCancelled())

		assert.ErrorIs(t, order.ApplyFill(10), ErrInvalidFillAmount)
	})
}

func TestOrder_UndoFill(t *testing.T) {
	order := NewOrder(1, "alice", SideSell, KindLimit, 1_500_000, 100, 1)

	prev := order.Status
	require.NoError(t, order.ApplyFill(30))
	order.UndoFill(30, prev)

	assert.Equal(t, uint64(100), order.RemainingAmount)
	assert.Equal(t, StatusOpen, order.Status)
}

func TestOrder_MarkCancelled(t *testing.T) {
	t.Run("open order cancels and zeroes remaining", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)

		require.NoError(t, order.MarkCancelled())

		assert.Equal(t, StatusCancelled, order.Status)
		assert.Equal(t, uint64(0), order.RemainingAmount)
	})

	t.Run("partially filled order cancels", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)
		require.NoError(t, order.ApplyFill(25))

		require.NoError(t, order.MarkCancelled())

		assert.Equal(t, StatusCancelled, order.Status)
		assert.Equal(t, uint64(0), order.RemainingAmount)
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)
		require.NoError(t, order.MarkCancelled())

		assert.ErrorIs(t, order.MarkCancelled(), ErrAlreadyTerminal)
	})

	t.Run("cancelling filled order fails", func(t *testing.T) {
		order := NewOrder(1, "alice", SideBuy, KindLimit, 1_500_000, 100, 1)
		require.NoError(t, order.ApplyFill(100))

		assert.ErrorIs(t, order.MarkCancelled(), ErrAlreadyTerminal)
	})
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code uint32
		ok   bool
	}{
		{name: "invalid parameters", err: ErrInvalidOrderParameters, code: CodeInvalidOrderParameters, ok: true},
		{name: "not authorized", err: ErrNotAuthorized, code: CodeNotAuthorized, ok: true},
		{name: "not found", err: ErrOrderNotFound, code: CodeOrderNotFound, ok: true},
		{name: "already terminal", err: ErrAlreadyTerminal, code: CodeAlreadyTerminal, ok: true},
		{name: "uncoded error", err: ErrInvalidFillAmount, code: 0, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := ErrorCode(tc.err)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.code, code)
		})
	}
}

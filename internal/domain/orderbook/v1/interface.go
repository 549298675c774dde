package orderbookv1

import (
	"context"

	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
)

// PlaceResult is the outcome of an accepted placement: the allocated order id
// and the fills executed against resting liquidity, in execution order.
type PlaceResult struct {
	OrderID uint64
	Matches []Match
}

// OrderView is a read-only copy of an order's state returned by queries.
type OrderView struct {
	ID              uint64 `json:"id"`
	Owner           string `json:"owner"`
	Side            Side   `json:"side"`
	Kind            Kind   `json:"kind"`
	Price           uint64 `json:"price"`
	OriginalAmount  uint64 `json:"originalAmount"`
	RemainingAmount uint64 `json:"remainingAmount"`
	Status          Status `json:"status"`
	CreatedAt       int64  `json:"createdAt"`
}

// Book defines the order book operations exposed to the engine and to the
// read-side collaborators. Mutating operations are serialized by the caller.
type Book interface {
	PlaceLimitOrder(ctx context.Context, owner string, side Side, price, amount uint64) (*PlaceResult, error)
	PlaceMarketOrder(ctx context.Context, owner string, side Side, amount uint64) (*PlaceResult, error)
	CancelOrder(ctx context.Context, caller string, orderID uint64) (bool, error)

	GetOrder(orderID uint64) (OrderView, bool)
	UserOrders(owner string) []uint64
	ActiveBuyPrices() []uint64
	ActiveSellPrices() []uint64
	BestBid() (uint64, bool)
	BestAsk() (uint64, bool)
	BidTotalVolume() uint64
	AskTotalVolume() uint64

	CreateSnapshot() *snapshotv1.Snapshot
	RestoreBook(snapshot *snapshotv1.Snapshot) error
}

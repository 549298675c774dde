package historyv1

import "context"

// Archive defines the interface for persisting order and trade history.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=historyv1_mock
type Archive interface {
	// StoreOrder upserts the current state of an order.
	StoreOrder(ctx context.Context, record *OrderRecord) error
	// StoreTrades bulk-inserts executed trades.
	StoreTrades(ctx context.Context, records []*TradeRecord) error
	// StoreOrderWithTrades upserts a taker order and inserts its trades in a
	// single transaction.
	StoreOrderWithTrades(ctx context.Context, record *OrderRecord, trades []*TradeRecord) error
}

package historyv1

import "time"

// OrderRecord is the archived form of an order, written to Postgres for audit
// queries. The in-memory book remains the authoritative store; archiving is
// best effort and never affects matching.
type OrderRecord struct {
	OrderID         uint64    `json:"orderID"`
	Pair            string    `json:"pair"`
	Owner           string    `json:"owner"`
	Side            string    `json:"side"`
	Kind            string    `json:"kind"`
	Price           uint64    `json:"price"`
	OriginalAmount  uint64    `json:"originalAmount"`
	RemainingAmount uint64    `json:"remainingAmount"`
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
}

// TradeRecord is the archived form of an executed trade.
type TradeRecord struct {
	TradeID     string    `json:"tradeID"`
	Pair        string    `json:"pair"`
	BuyOrderID  uint64    `json:"buyOrderID"`
	SellOrderID uint64    `json:"sellOrderID"`
	Buyer       string    `json:"buyer"`
	Seller      string    `json:"seller"`
	Amount      uint64    `json:"amount"`
	Price       uint64    `json:"price"`
	Timestamp   time.Time `json:"timestamp"`
}

package orderbookv1

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Match represents one fill between a buy and a sell order. The resting
// (maker) order sets the price. Matches are ephemeral output records consumed
// by the notification layer; they are not book state.
type Match struct {
	TradeID     string `json:"tradeID"`
	BuyOrderID  uint64 `json:"buyOrderID"`
	SellOrderID uint64 `json:"sellOrderID"`
	Buyer       string `json:"buyer"`
	Seller      string `json:"seller"`
	Amount      uint64 `json:"amount"`
	Price       uint64 `json:"price"`
	Timestamp   int64  `json:"timestamp"`
}

// NewMatch builds a match record for a fill of the given amount between the
// incoming (taker) order and a resting (maker) order at the maker's price.
func NewMatch(taker, maker *Order, amount uint64) Match {
	buy, sell := maker, taker
	if taker.IsBuy() {
		buy, sell = taker, maker
	}

	return Match{
		TradeID:     ulid.Make().String(),
		BuyOrderID:  buy.ID,
		SellOrderID: sell.ID,
		Buyer:       buy.Owner,
		Seller:      sell.Owner,
		Amount:      amount,
		Price:       maker.Price,
		Timestamp:   time.Now().UnixNano(),
	}
}

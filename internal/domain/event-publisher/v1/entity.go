package eventpublisherv1

import (
	"encoding/json"
	"time"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
)

// EventType discriminates the emitted record payloads.
type EventType string

const (
	// EventOrderPlaced is emitted when a new order is accepted by the book.
	EventOrderPlaced EventType = "order_placed"
	// EventOrderCancelled is emitted when an order is cancelled by its owner.
	EventOrderCancelled EventType = "order_cancelled"
	// EventOrderMatched is emitted once per fill between two orders.
	EventOrderMatched EventType = "order_matched"
	// EventTradeExecuted is emitted once per settled trade.
	EventTradeExecuted EventType = "trade_executed"
)

// Event is the envelope published to the event topic. Exactly one payload
// field is set, matching the Type discriminator.
type Event struct {
	Type      EventType `json:"type"`
	Pair      string    `json:"pair"`
	Timestamp int64     `json:"timestamp"`

	OrderPlaced    *OrderPlacedPayload    `json:"orderPlaced,omitempty"`
	OrderCancelled *OrderCancelledPayload `json:"orderCancelled,omitempty"`
	OrderMatched   *OrderMatchedPayload   `json:"orderMatched,omitempty"`
	TradeExecuted  *TradeExecutedPayload  `json:"tradeExecuted,omitempty"`
}

// OrderPlacedPayload describes a newly accepted order.
type OrderPlacedPayload struct {
	OrderID uint64 `json:"orderID"`
	Maker   string `json:"maker"`
	Side    string `json:"side"`
	Kind    string `json:"kind"`
	Price   uint64 `json:"price"`
	Amount  uint64 `json:"amount"`
}

// OrderCancelledPayload describes an order removed from the book by its owner.
type OrderCancelledPayload struct {
	OrderID         uint64 `json:"orderID"`
	Maker           string `json:"maker"`
	RemainingAmount uint64 `json:"remainingAmount"`
}

// OrderMatchedPayload describes one fill between a buy and a sell order.
type OrderMatchedPayload struct {
	BuyOrderID    uint64 `json:"buyOrderID"`
	SellOrderID   uint64 `json:"sellOrderID"`
	Buyer         string `json:"buyer"`
	Seller        string `json:"seller"`
	MatchedAmount uint64 `json:"matchedAmount"`
	MatchedPrice  uint64 `json:"matchedPrice"`
}

// TradeExecutedPayload describes a settled trade.
type TradeExecutedPayload struct {
	TradeID string `json:"tradeID"`
	Buyer   string `json:"buyer"`
	Seller  string `json:"seller"`
	Amount  uint64 `json:"amount"`
	Price   uint64 `json:"price"`
}

// CreateOrderPlaced builds an order-placed event from an accepted order.
func CreateOrderPlaced(pair string, view orderbookv1.OrderView) *Event {
	return &Event{
		Type:      EventOrderPlaced,
		Pair:      pair,
		Timestamp: time.Now().UnixNano(),
		OrderPlaced: &OrderPlacedPayload{
			OrderID: view.ID,
			Maker:   view.Owner,
			Side:    view.Side.String(),
			Kind:    string(view.Kind),
			Price:   view.Price,
			Amount:  view.OriginalAmount,
		},
	}
}

// CreateOrderCancelled builds an order-cancelled event. The remaining amount
// is the amount released from the book by the cancellation.
func CreateOrderCancelled(pair string, orderID uint64, maker string, remaining uint64) *Event {
	return &Event{
		Type:      EventOrderCancelled,
		Pair:      pair,
		Timestamp: time.Now().UnixNano(),
		OrderCancelled: &OrderCancelledPayload{
			OrderID:         orderID,
			Maker:           maker,
			RemainingAmount: remaining,
		},
	}
}

// CreateOrderMatched builds an order-matched event from a fill.
func CreateOrderMatched(pair string, match orderbookv1.Match) *Event {
	return &Event{
		Type:      EventOrderMatched,
		Pair:      pair,
		Timestamp: match.Timestamp,
		OrderMatched: &OrderMatchedPayload{
			BuyOrderID:    match.BuyOrderID,
			SellOrderID:   match.SellOrderID,
			Buyer:         match.Buyer,
			Seller:        match.Seller,
			MatchedAmount: match.Amount,
			MatchedPrice:  match.Price,
		},
	}
}

// CreateTradeExecuted builds a trade-executed event from a settled fill.
func CreateTradeExecuted(pair string, match orderbookv1.Match) *Event {
	return &Event{
		Type:      EventTradeExecuted,
		Pair:      pair,
		Timestamp: match.Timestamp,
		TradeExecuted: &TradeExecutedPayload{
			TradeID: match.TradeID,
			Buyer:   match.Buyer,
			Seller:  match.Seller,
			Amount:  match.Amount,
			Price:   match.Price,
		},
	}
}

// ToBytes converts the event to its wire encoding.
func ToBytes(event *Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		return nil
	}

	return data
}

// FromBytes decodes an event from its wire encoding.
func FromBytes(data []byte) *Event {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	return &event
}

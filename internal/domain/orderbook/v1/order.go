package orderbookv1

// Side represents which side of the book an order sits on.
// The numeric values mirror the on-chain contract's side argument.
type Side uint8

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = 1
	// SideSell represents a sell (ask) order.
	SideSell Side = 2
)

// Valid reports whether the side is one of the two known sides.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}

// Kind represents the kind of order.
type Kind string

const (
	// KindLimit represents a limit order.
	KindLimit Kind = "limit"
	// KindMarket represents a market order. Market orders never rest in the book.
	KindMarket Kind = "market"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	// StatusOpen represents an order with no fills yet.
	StatusOpen Status = "open"
	// StatusPartiallyFilled represents an order with some remaining amount left.
	StatusPartiallyFilled Status = "partially_filled"
	// StatusFilled represents a fully matched order. Terminal.
	StatusFilled Status = "filled"
	// StatusCancelled represents an order cancelled by its owner. Terminal.
	StatusCancelled Status = "cancelled"
)

// statusTransitions is the explicit transition table for order status.
// Terminal states (filled, cancelled) have no outgoing transitions.
var statusTransitions = map[Status][]Status{
	StatusOpen:            {StatusPartiallyFilled, StatusFilled, StatusCancelled},
	StatusPartiallyFilled: {StatusPartiallyFilled, StatusFilled, StatusCancelled},
}

// Terminal reports whether the status has no outgoing transitions.
func (s Status) Terminal() bool {
	return s == StatusFilled || s == StatusCancelled
}

// CanTransition reports whether a transition from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Order represents a single order in the order book. Prices and amounts are
// integers in the smallest denomination unit; matching never touches floats.
type Order struct {
	ID              uint64 `json:"id"`
	Owner           string `json:"owner"`
	Side            Side   `json:"side"`
	Kind            Kind   `json:"kind"`
	Price           uint64 `json:"price"` // 0 for market orders
	OriginalAmount  uint64 `json:"originalAmount"`
	RemainingAmount uint64 `json:"remainingAmount"`
	Status          Status `json:"status"`
	CreatedAt       int64  `json:"createdAt"` // sequence marker for time priority
}

// NewOrder creates a new open order with the given parameters.
func NewOrder(id uint64, owner string, side Side, kind Kind, price, amount uint64, seq int64) *Order {
	return &Order{
		ID:              id,
		Owner:           owner,
		Side:            side,
		Kind:            kind,
		Price:           price,
		OriginalAmount:  amount,
		RemainingAmount: amount,
		Status:          StatusOpen,
		CreatedAt:       seq,
	}
}

// IsBuy reports whether the order is on the buy side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// FilledAmount returns how much of the order has matched so far.
func (o *Order) FilledAmount() uint64 {
	return o.OriginalAmount - o.RemainingAmount
}

// Crosses reports whether the order is marketable against a resting price on
// the opposite side. Market orders cross any price.
func (o *Order) Crosses(restingPrice uint64) bool {
	if o.Kind == KindMarket {
		return true
	}
	if o.IsBuy() {
		return restingPrice <= o.Price
	}
	return restingPrice >= o.Price
}

// ApplyFill decreases the order's remaining amount by the filled amount and
// advances the status. The remaining amount only ever decreases.
func (o *Order) ApplyFill(amount uint64) error {
	if amount == 0 || amount > o.RemainingAmount {
		return ErrInvalidFillAmount
	}

	target := StatusPartiallyFilled
	if amount == o.RemainingAmount {
		target = StatusFilled
	}
	if !o.Status.CanTransition(target) {
		return ErrAlreadyTerminal
	}

	o.RemainingAmount -= amount
	o.Status = target
	return nil
}

// UndoFill restores a fill that could not be settled. It is the exact inverse
// of ApplyFill and is only called inside the matching commit boundary.
func (o *Order) UndoFill(amount uint64, prev Status) {
	o.RemainingAmount += amount
	o.Status = prev
}

// MarkCancelled moves the order to cancelled and zeroes its remaining amount.
func (o *Order) MarkCancelled() error {
	if !o.Status.CanTransition(StatusCancelled) {
		return ErrAlreadyTerminal
	}

	o.RemainingAmount = 0
	o.Status = StatusCancelled
	return nil
}

// RequestType represents the type of an incoming book command.
type RequestType string

const (
	// RequestTypeLimit places a limit order.
	RequestTypeLimit RequestType = "limit"
	// RequestTypeMarket places a market order.
	RequestTypeMarket RequestType = "market"
	// RequestTypeCancel cancels a resting order.
	RequestTypeCancel RequestType = "cancel"
)

// OrderRequest represents a command read from the order stream. Owner is the
// authenticated caller identity attached by the surrounding environment; the
// book trusts it for ownership checks and performs no authentication itself.
type OrderRequest struct {
	Type    RequestType `json:"type"`
	Owner   string      `json:"owner"`
	Side    Side        `json:"side"`
	Price   uint64      `json:"price"`
	Amount  uint64      `json:"amount"`
	OrderID uint64      `json:"orderID"` // set for cancel requests
	Offset  int64       `json:"-"`       // offset of the command in the stream
}

package orderbookv1

import (
	"fmt"
	"sync"
)

// PriceLevel represents one price level on one side of the book: a FIFO queue
// of resting orders sharing an exact price. Insertion order is time priority.
type PriceLevel struct {
	Price       uint64   `json:"price"`
	Orders      []*Order `json:"orders"`
	TotalVolume uint64   `json:"totalVolume"`
	mu          sync.RWMutex
}

// NewPriceLevel creates an empty price level at the given price.
func NewPriceLevel(price uint64) *PriceLevel {
	return &PriceLevel{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// Add appends an order to the back of the level's queue.
func (l *PriceLevel) Add(order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", ErrInvalidOrderParameters)
	}
	if order.RemainingAmount == 0 {
		return fmt.Errorf("%w: zero remaining amount", ErrInvalidOrderParameters)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.Orders = append(l.Orders, order)
	l.TotalVolume += order.RemainingAmount

	return nil
}

// Remove removes an order from the level's queue.
func (l *PriceLevel) Remove(order *Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", ErrInvalidOrderParameters)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, o := range l.Orders {
		if o.ID == order.ID {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume -= order.RemainingAmount
			return nil
		}
	}

	return fmt.Errorf("%w: order %d at price %d", ErrOrderNotAtLevel, order.ID, l.Price)
}

// Front returns the order at the front of the queue, the one with the highest
// time priority at this price, or nil if the level is empty.
func (l *PriceLevel) Front() *Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// ReduceVolume subtracts a filled amount from the level's volume bookkeeping.
func (l *PriceLevel) ReduceVolume(amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.TotalVolume -= amount
}

// RestoreVolume adds back volume for a fill that was rolled back.
func (l *PriceLevel) RestoreVolume(amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.TotalVolume += amount
}

// IsEmpty reports whether the level has no resting orders.
func (l *PriceLevel) IsEmpty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.Orders) == 0
}

// OrderCount returns the number of resting orders at this level.
func (l *PriceLevel) OrderCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.Orders)
}

// Volume returns the total resting amount at this level.
func (l *PriceLevel) Volume() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.TotalVolume
}

// GetOrders returns a copy of the level's queue in time-priority order.
func (l *PriceLevel) GetOrders() []*Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	orders := make([]*Order, len(l.Orders))
	copy(orders, l.Orders)
	return orders
}

// Validate checks the level's internal consistency.
func (l *PriceLevel) Validate() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.Price == 0 {
		return fmt.Errorf("%w: zero level price", ErrInvalidOrderParameters)
	}

	var volume uint64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found at price %d", l.Price)
		}
		if order.RemainingAmount == 0 {
			return fmt.Errorf("order %d resting at price %d with zero remaining amount", order.ID, l.Price)
		}
		volume += order.RemainingAmount
	}

	if volume != l.TotalVolume {
		return fmt.Errorf("volume mismatch at price %d: calculated %d, stored %d", l.Price, volume, l.TotalVolume)
	}

	return nil
}

package orderbook

import (
	"fmt"
	"sort"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	snapshotv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/snapshot/v1"
)

// CreateSnapshot captures every resting order plus the allocator and sequence
// counters, so a restored book keeps issuing monotonic ids. Terminal orders
// are not part of snapshots; the history archive holds them.
func (b *Book) CreateSnapshot() *snapshotv1.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var bookOrders []snapshotv1.BookOrder

	for _, levels := range []map[uint64]*orderbookv1.PriceLevel{b.askLevels, b.bidLevels} {
		for _, level := range levels {
			for _, order := range level.GetOrders() {
				bookOrders = append(bookOrders, snapshotv1.BookOrder{
					OrderID:         order.ID,
					Owner:           order.Owner,
					Side:            uint8(order.Side),
					Price:           order.Price,
					OriginalAmount:  order.OriginalAmount,
					RemainingAmount: order.RemainingAmount,
					Status:          string(order.Status),
					CreatedAt:       order.CreatedAt,
				})
			}
		}
	}

	return &snapshotv1.Snapshot{
		NextOrderID: b.nextID,
		Sequence:    b.seq,
		BookSnapshot: snapshotv1.BookSnapshot{
			Orders: bookOrders,
		},
	}
}

// RestoreBook replaces the book's state with the snapshot's resting orders,
// re-inserting them in time-priority order so FIFO queues are rebuilt exactly.
func (b *Book) RestoreBook(snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", orderbookv1.ErrInvalidOrderParameters)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders = make(map[uint64]*orderbookv1.Order)
	b.userOrders = make(map[string][]uint64)
	b.bidLevels = make(map[uint64]*orderbookv1.PriceLevel)
	b.askLevels = make(map[uint64]*orderbookv1.PriceLevel)

	restored := make(orderbookv1.Orders, 0, len(snapshot.BookSnapshot.Orders))
	for _, bookOrder := range snapshot.BookSnapshot.Orders {
		restored = append(restored, &orderbookv1.Order{
			ID:              bookOrder.OrderID,
			Owner:           bookOrder.Owner,
			Side:            orderbookv1.Side(bookOrder.Side),
			Kind:            orderbookv1.KindLimit,
			Price:           bookOrder.Price,
			OriginalAmount:  bookOrder.OriginalAmount,
			RemainingAmount: bookOrder.RemainingAmount,
			Status:          orderbookv1.Status(bookOrder.Status),
			CreatedAt:       bookOrder.CreatedAt,
		})
	}

	// Insertion order rebuilds time priority within each level.
	sort.Sort(restored)

	for _, order := range restored {
		if err := b.insert(order); err != nil {
			return fmt.Errorf("failed to restore order %d: %w", order.ID, err)
		}
		if err := b.rest(order); err != nil {
			return fmt.Errorf("failed to restore order %d: %w", order.ID, err)
		}
	}

	b.nextID = snapshot.NextOrderID
	if b.nextID == 0 {
		b.nextID = 1
	}
	b.seq = snapshot.Sequence

	return nil
}

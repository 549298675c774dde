package orderbook

import (
	"sort"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
)

// GetOrder returns a copy of the order's current state. Total lookup: an
// unknown id yields a false second return, not an error.
func (b *Book) GetOrder(orderID uint64) (orderbookv1.OrderView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order, exists := b.orders[orderID]
	if !exists {
		return orderbookv1.OrderView{}, false
	}

	return orderbookv1.OrderView{
		ID:              order.ID,
		Owner:           order.Owner,
		Side:            order.Side,
		Kind:            order.Kind,
		Price:           order.Price,
		OriginalAmount:  order.OriginalAmount,
		RemainingAmount: order.RemainingAmount,
		Status:          order.Status,
		CreatedAt:       order.CreatedAt,
	}, true
}

// UserOrders returns the owner's full order-id history in placement order,
// regardless of current status. Unknown owners yield an empty slice.
func (b *Book) UserOrders(owner string) []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]uint64, len(b.userOrders[owner]))
	copy(ids, b.userOrders[owner])
	return ids
}

// ActiveBuyPrices returns all buy price levels with resting volume, ordered
// best to worst (highest first). Never contains duplicates or empty levels.
func (b *Book) ActiveBuyPrices() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return levelPrices(b.bidLevels, orderbookv1.SideBuy)
}

// ActiveSellPrices returns all sell price levels with resting volume, ordered
// best to worst (lowest first).
func (b *Book) ActiveSellPrices() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return levelPrices(b.askLevels, orderbookv1.SideSell)
}

// BestBid returns the highest active buy price, if any.
func (b *Book) BestBid() (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	level := bestLevel(b.bidLevels, orderbookv1.SideBuy)
	if level == nil {
		return 0, false
	}
	return level.Price, true
}

// BestAsk returns the lowest active sell price, if any.
func (b *Book) BestAsk() (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	level := bestLevel(b.askLevels, orderbookv1.SideSell)
	if level == nil {
		return 0, false
	}
	return level.Price, true
}

// BidTotalVolume returns the total resting amount on the buy side.
func (b *Book) BidTotalVolume() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total uint64
	for _, level := range b.bidLevels {
		total += level.Volume()
	}
	return total
}

// AskTotalVolume returns the total resting amount on the sell side.
func (b *Book) AskTotalVolume() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var total uint64
	for _, level := range b.askLevels {
		total += level.Volume()
	}
	return total
}

// levelPrices collects active level prices sorted best-to-worst for the side.
func levelPrices(levels map[uint64]*orderbookv1.PriceLevel, side orderbookv1.Side) []uint64 {
	collected := make(orderbookv1.Levels, 0, len(levels))
	for _, level := range levels {
		collected = append(collected, level)
	}

	if side == orderbookv1.SideBuy {
		sort.Sort(orderbookv1.ByBestBid{Levels: collected})
	} else {
		sort.Sort(orderbookv1.ByBestAsk{Levels: collected})
	}

	prices := make([]uint64, len(collected))
	for i, level := range collected {
		prices[i] = level.Price
	}
	return prices
}

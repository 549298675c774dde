package orderbook

import (
	"context"
	"fmt"
	"sync"

	ledgerv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/ledger/v1"
	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
)

// Book is the order book: the authoritative order store, the per-user order
// index, and the two price-level indices, mutated only through serialized
// placement and cancellation operations.
type Book struct {
	mu         sync.RWMutex
	orders     map[uint64]*orderbookv1.Order     // order id -> order, never deleted
	userOrders map[string][]uint64               // owner -> order ids in placement order
	bidLevels  map[uint64]*orderbookv1.PriceLevel // price -> level
	askLevels  map[uint64]*orderbookv1.PriceLevel // price -> level

	nextID uint64 // next order id to allocate, starts at 1
	seq    int64  // time-priority sequence, advances per accepted order

	ledger ledgerv1.Ledger
	logger logger.Interface
}

// NewBook creates an empty order book settling trades against the given ledger.
func NewBook(ledger ledgerv1.Ledger, log logger.Interface) *Book {
	return &Book{
		orders:     make(map[uint64]*orderbookv1.Order),
		userOrders: make(map[string][]uint64),
		bidLevels:  make(map[uint64]*orderbookv1.PriceLevel),
		askLevels:  make(map[uint64]*orderbookv1.PriceLevel),
		nextID:     1,
		ledger:     ledger,
		logger:     log,
	}
}

// PlaceLimitOrder validates and places a limit order, matching it against the
// opposite side first and resting any remainder at its own price. Returns the
// allocated order id and the fills executed.
func (b *Book) PlaceLimitOrder(ctx context.Context, owner string, side orderbookv1.Side, price, amount uint64) (*orderbookv1.PlaceResult, error) {
	// Validation happens before id allocation so rejected placements never
	// consume an id.
	if !side.Valid() {
		return nil, fmt.Errorf("%w: side %d", orderbookv1.ErrInvalidOrderParameters, side)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero amount", orderbookv1.ErrInvalidOrderParameters)
	}
	if price == 0 {
		return nil, fmt.Errorf("%w: zero price", orderbookv1.ErrInvalidOrderParameters)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	order := orderbookv1.NewOrder(b.allocateID(), owner, side, orderbookv1.KindLimit, price, amount, b.nextSeq())
	if err := b.insert(order); err != nil {
		return nil, err
	}

	matches, err := b.match(ctx, order)
	if err != nil {
		return nil, err
	}

	if order.RemainingAmount > 0 {
		if err := b.rest(order); err != nil {
			return nil, err
		}
	}

	return &orderbookv1.PlaceResult{OrderID: order.ID, Matches: matches}, nil
}

// PlaceMarketOrder validates and places a market order, matching against the
// best available opposite prices. An unfilled remainder never rests; the order
// is recorded as such and reported back.
func (b *Book) PlaceMarketOrder(ctx context.Context, owner string, side orderbookv1.Side, amount uint64) (*orderbookv1.PlaceResult, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: side %d", orderbookv1.ErrInvalidOrderParameters, side)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero amount", orderbookv1.ErrInvalidOrderParameters)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	order := orderbookv1.NewOrder(b.allocateID(), owner, side, orderbookv1.KindMarket, 0, amount, b.nextSeq())
	if err := b.insert(order); err != nil {
		return nil, err
	}

	matches, err := b.match(ctx, order)
	if err != nil {
		return nil, err
	}

	return &orderbookv1.PlaceResult{OrderID: order.ID, Matches: matches}, nil
}

// CancelOrder cancels a resting order on behalf of caller. Only the order's
// owner may cancel it; cancelling a terminal order always fails.
func (b *Book) CancelOrder(ctx context.Context, caller string, orderID uint64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, exists := b.orders[orderID]
	if !exists {
		return false, fmt.Errorf("%w: order %d", orderbookv1.ErrOrderNotFound, orderID)
	}

	if err := authorizeCancel(caller, order); err != nil {
		return false, err
	}

	if order.Status.Terminal() {
		return false, fmt.Errorf("%w: order %d is %s", orderbookv1.ErrAlreadyTerminal, orderID, order.Status)
	}

	// Limit orders with remaining amount are always resting; market orders
	// never rest, so there is no level to remove them from.
	if order.Kind == orderbookv1.KindLimit {
		if err := b.unrest(order); err != nil {
			return false, err
		}
	}

	if err := order.MarkCancelled(); err != nil {
		return false, err
	}

	b.logger.DebugContext(ctx, "order cancelled",
		logger.Field{Key: "orderID", Value: orderID},
		logger.Field{Key: "owner", Value: order.Owner},
	)

	return true, nil
}

// match walks the opposite side of the book in price priority, then time
// priority within each level, filling the incoming order against resting
// liquidity at the resting order's price. Each fill is settled synchronously;
// a failed settlement rolls that fill back and stops matching.
func (b *Book) match(ctx context.Context, taker *orderbookv1.Order) ([]orderbookv1.Match, error) {
	var matches []orderbookv1.Match

	opposite := b.sideLevels(taker.Side.Opposite())

	for taker.RemainingAmount > 0 {
		level := bestLevel(opposite, taker.Side.Opposite())
		if level == nil || !taker.Crosses(level.Price) {
			break
		}

		maker := level.Front()
		if maker == nil {
			return nil, fmt.Errorf("%w: empty level at price %d", orderbookv1.ErrOrderNotAtLevel, level.Price)
		}

		fill := taker.RemainingAmount
		if maker.RemainingAmount < fill {
			fill = maker.RemainingAmount
		}

		takerPrev, makerPrev := taker.Status, maker.Status
		if err := maker.ApplyFill(fill); err != nil {
			return nil, err
		}
		if err := taker.ApplyFill(fill); err != nil {
			maker.UndoFill(fill, makerPrev)
			return nil, err
		}

		match := orderbookv1.NewMatch(taker, maker, fill)

		if err := b.ledger.Settle(ctx, ledgerv1.Trade{
			Buyer:  match.Buyer,
			Seller: match.Seller,
			Amount: match.Amount,
			Price:  match.Price,
		}); err != nil {
			maker.UndoFill(fill, makerPrev)
			taker.UndoFill(fill, takerPrev)
			b.logger.ErrorContext(ctx, err,
				logger.Field{Key: "action", Value: "settle_trade"},
				logger.Field{Key: "buyOrderID", Value: match.BuyOrderID},
				logger.Field{Key: "sellOrderID", Value: match.SellOrderID},
			)
			break
		}

		level.ReduceVolume(fill)
		matches = append(matches, match)

		if maker.RemainingAmount == 0 {
			if err := level.Remove(maker); err != nil {
				return nil, err
			}
			if level.IsEmpty() {
				delete(opposite, level.Price)
			}
		}
	}

	return matches, nil
}

// insert adds an order to the authoritative store and the per-user index.
// Ownership is recorded regardless of eventual fill outcome.
func (b *Book) insert(order *orderbookv1.Order) error {
	if _, exists := b.orders[order.ID]; exists {
		return fmt.Errorf("%w: order %d", orderbookv1.ErrDuplicateID, order.ID)
	}

	b.orders[order.ID] = order
	b.userOrders[order.Owner] = append(b.userOrders[order.Owner], order.ID)

	return nil
}

// rest inserts a limit order's remainder into its own side's price level,
// creating the level on first use.
func (b *Book) rest(order *orderbookv1.Order) error {
	levels := b.sideLevels(order.Side)

	level, exists := levels[order.Price]
	if !exists {
		level = orderbookv1.NewPriceLevel(order.Price)
		levels[order.Price] = level
	}

	return level.Add(order)
}

// unrest removes a resting order from its price level, pruning the level if
// it becomes empty.
func (b *Book) unrest(order *orderbookv1.Order) error {
	levels := b.sideLevels(order.Side)

	level, exists := levels[order.Price]
	if !exists {
		return fmt.Errorf("%w: no level at price %d", orderbookv1.ErrOrderNotAtLevel, order.Price)
	}

	if err := level.Remove(order); err != nil {
		return err
	}

	if level.IsEmpty() {
		delete(levels, order.Price)
	}

	return nil
}

// allocateID returns the next order id. Called only after validation passed,
// so rejected placements never consume an id.
func (b *Book) allocateID() uint64 {
	id := b.nextID
	b.nextID++
	return id
}

func (b *Book) nextSeq() int64 {
	b.seq++
	return b.seq
}

func (b *Book) sideLevels(side orderbookv1.Side) map[uint64]*orderbookv1.PriceLevel {
	if side == orderbookv1.SideBuy {
		return b.bidLevels
	}
	return b.askLevels
}

// bestLevel returns the best-priced level on the given side: the highest bid
// or the lowest ask. Returns nil if the side has no active levels.
func bestLevel(levels map[uint64]*orderbookv1.PriceLevel, side orderbookv1.Side) *orderbookv1.PriceLevel {
	var best *orderbookv1.PriceLevel
	for _, level := range levels {
		if best == nil {
			best = level
			continue
		}
		if side == orderbookv1.SideBuy && level.Price > best.Price {
			best = level
		}
		if side == orderbookv1.SideSell && level.Price < best.Price {
			best = level
		}
	}
	return best
}

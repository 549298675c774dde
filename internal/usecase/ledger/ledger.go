package ledger

import (
	"context"
	"fmt"
	"math/bits"
	"sync"

	ledgerv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/ledger/v1"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
)

// account holds one trader's balances in smallest-denomination units.
type account struct {
	base  uint64
	quote uint64
}

// InMemory is an in-process settlement ledger. It stands in for the external
// transfer capability: the book invokes Settle inside the matching commit
// boundary and rolls the fill back if it fails.
type InMemory struct {
	mu       sync.Mutex
	accounts map[string]*account
	logger   logger.Interface

	openingBase  uint64
	openingQuote uint64
}

// NewInMemory creates an empty ledger. Accounts start with zero balances and
// must be funded with Deposit before they can trade.
func NewInMemory(log logger.Interface) *InMemory {
	return &InMemory{
		accounts: make(map[string]*account),
		logger:   log,
	}
}

// NewInMemoryWithOpening creates a ledger that seeds every new account with
// the given opening balances. Used by the standalone engine, where wallets
// are not tracked upstream.
func NewInMemoryWithOpening(log logger.Interface, base, quote uint64) *InMemory {
	l := NewInMemory(log)
	l.openingBase = base
	l.openingQuote = quote
	return l
}

// Deposit credits a trader's balances.
func (l *InMemory) Deposit(owner string, base, quote uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.account(owner)
	acct.base += base
	acct.quote += quote
}

// BalanceOf returns a trader's current balances.
func (l *InMemory) BalanceOf(owner string) (base, quote uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	acct := l.account(owner)
	return acct.base, acct.quote
}

// Settle moves amount of base from seller to buyer and the quote cost from
// buyer to seller, atomically. Both legs are checked before either moves.
func (l *InMemory) Settle(ctx context.Context, trade ledgerv1.Trade) error {
	cost, err := quoteCost(trade.Amount, trade.Price)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	buyer := l.account(trade.Buyer)
	seller := l.account(trade.Seller)

	if seller.base < trade.Amount {
		return fmt.Errorf("%w: seller %s has %d base, needs %d",
			ledgerv1.ErrInsufficientBalance, trade.Seller, seller.base, trade.Amount)
	}
	if buyer.quote < cost {
		return fmt.Errorf("%w: buyer %s has %d quote, needs %d",
			ledgerv1.ErrInsufficientBalance, trade.Buyer, buyer.quote, cost)
	}

	seller.base -= trade.Amount
	buyer.base += trade.Amount
	buyer.quote -= cost
	seller.quote += cost

	l.logger.DebugContext(ctx, "trade settled",
		logger.Field{Key: "buyer", Value: trade.Buyer},
		logger.Field{Key: "seller", Value: trade.Seller},
		logger.Field{Key: "amount", Value: trade.Amount},
		logger.Field{Key: "price", Value: trade.Price},
		logger.Field{Key: "cost", Value: cost},
	)

	return nil
}

// quoteCost computes amount * price / AmountScale in 128-bit intermediate
// precision. The quotient must fit in uint64 or the trade cannot settle.
func quoteCost(amount, price uint64) (uint64, error) {
	hi, lo := bits.Mul64(amount, price)
	if hi >= ledgerv1.AmountScale {
		return 0, fmt.Errorf("%w: amount %d at price %d", ledgerv1.ErrCostOverflow, amount, price)
	}
	cost, _ := bits.Div64(hi, lo, ledgerv1.AmountScale)
	return cost, nil
}

func (l *InMemory) account(owner string) *account {
	acct, exists := l.accounts[owner]
	if !exists {
		acct = &account{base: l.openingBase, quote: l.openingQuote}
		l.accounts[owner] = acct
	}
	return acct
}

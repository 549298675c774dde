package ledgerv1

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientBalance is returned when a party cannot cover its leg of a
	// trade. The fill the trade belongs to is rolled back by the book.
	ErrInsufficientBalance = errors.New("insufficient balance to settle trade")

	// ErrCostOverflow is returned when the quote cost of a trade does not fit
	// in uint64. The fill is rolled back the same way a balance failure is.
	ErrCostOverflow = errors.New("trade cost overflows settlement arithmetic")
)

// AmountScale is the number of smallest-denomination units per whole base
// token. Quote cost of a trade is amount * price / AmountScale, exact-integer.
const AmountScale uint64 = 1_000_000

// Trade describes one settlement instruction: the buyer pays amount*price in
// the quote asset, the seller delivers amount of the base asset.
type Trade struct {
	Buyer  string
	Seller string
	Amount uint64
	Price  uint64
}

// Ledger is the external settlement collaborator. Settle is invoked
// synchronously inside the matching commit boundary; if it fails, the fill it
// belongs to is rolled back entirely.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Ledger interface {
	Settle(ctx context.Context, trade Trade) error
}

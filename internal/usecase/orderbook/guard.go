package orderbook

import (
	"fmt"

	orderbookv1 "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/domain/orderbook/v1"
)

// authorizeCancel enforces that only an order's original owner may cancel it.
// It is a plain guard over (caller, order) so any capability-holding entity
// that can present an identity is checked identically. The error carries the
// order id only, never the real owner.
func authorizeCancel(caller string, order *orderbookv1.Order) error {
	if caller != order.Owner {
		return fmt.Errorf("%w: cannot cancel order %d", orderbookv1.ErrNotAuthorized, order.ID)
	}
	return nil
}

package orderbookv1

import "errors"

var (
	// ErrInvalidOrderParameters is returned for a bad side, zero amount or
	// zero price. Rejected before any state change; no order id is consumed.
	ErrInvalidOrderParameters = errors.New("invalid order parameters")
	// ErrOrderNotFound is returned when mutating an unknown order id.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotAuthorized is returned when a caller other than the owner attempts
	// to cancel an order. The error never reveals who the real owner is.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrAlreadyTerminal is returned when cancelling an order that is already
	// filled or cancelled.
	ErrAlreadyTerminal = errors.New("order already in terminal state")

	// ErrDuplicateID indicates the id allocator handed out a reused id.
	// Unreachable in correct operation.
	ErrDuplicateID = errors.New("duplicate order id")
	// ErrInvalidFillAmount indicates a fill larger than the remaining amount.
	// Unreachable in correct operation.
	ErrInvalidFillAmount = errors.New("fill amount exceeds remaining amount")
	// ErrOrderNotAtLevel indicates the order and price level indices have
	// desynchronized. Unreachable in correct operation.
	ErrOrderNotAtLevel = errors.New("order not found at price level")
)

// Numeric error codes mirroring the on-chain contract's error constants.
const (
	CodeInvalidOrderParameters uint32 = 100
	CodeNotAuthorized          uint32 = 101
	CodeOrderNotFound          uint32 = 102
	CodeAlreadyTerminal        uint32 = 103
)

// ErrorCode maps a user-facing book error to its contract error code.
func ErrorCode(err error) (uint32, bool) {
	switch {
	case errors.Is(err, ErrInvalidOrderParameters):
		return CodeInvalidOrderParameters, true
	case errors.Is(err, ErrNotAuthorized):
		return CodeNotAuthorized, true
	case errors.Is(err, ErrOrderNotFound):
		return CodeOrderNotFound, true
	case errors.Is(err, ErrAlreadyTerminal):
		return CodeAlreadyTerminal, true
	default:
		return 0, false
	}
}

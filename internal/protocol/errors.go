package protocol

import "errors"

// Transition failure modes. Every precondition violation maps to exactly
// one of these; external asset-ledger failures are propagated wrapped.
var (
	ErrZeroAmount               = errors.New("amount must be greater than zero")
	ErrInsufficientBalance      = errors.New("insufficient balance to perform the operation")
	ErrUnauthorized             = errors.New("unauthorized operation")
	ErrInsufficientOutputAmount = errors.New("insufficient output amount for swap")
	ErrArithmeticOverflow       = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow      = errors.New("arithmetic underflow")
)

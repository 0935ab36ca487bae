package service

import "errors"

// Order and valuation failures surfaced to callers. The handler layer maps
// each to an HTTP status and a stable kind string; none are retried.
var (
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrUserNotFound       = errors.New("user not found")
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

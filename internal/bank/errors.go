// Package bank holds the error vocabulary shared by the banking domain
// packages. Services wrap these sentinels with fmt.Errorf("%w: ...") so
// callers can classify failures with errors.Is.
package bank

import "errors"

var (
	// ErrValidation indicates rejected input: a non-positive amount, a
	// missing or invalid linked account, a same-account transfer, or
	// missing holder information.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates an absent account or holder.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds indicates a withdrawal or transfer exceeding
	// the account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

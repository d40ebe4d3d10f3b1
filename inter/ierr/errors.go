// Package ierr holds the failure kinds shared by the value and authorization
// primitives. Callers match them with errors.Is; the packages that raise them
// wrap the sentinel with context using fmt.Errorf("...: %w", ...).
package ierr

import "errors"

var (
	// ErrInvalidValue is returned when a value violates a non-negativity or
	// domain constraint (negative amount, unknown denomination, decrement
	// below zero).
	ErrInvalidValue = errors.New("invalid value")

	// ErrInsufficientValue is returned when a subtraction would go negative.
	ErrInsufficientValue = errors.New("insufficient value")

	// ErrDivisionInvalid is returned for division or modulo by/of zero.
	ErrDivisionInvalid = errors.New("division by/of zero or negative value")

	// ErrRangeExceeded is returned when a magnitude cannot be carried through
	// a float64-mediated operation.
	ErrRangeExceeded = errors.New("magnitude exceeds float64 range")

	// ErrInvalidArgument is returned for empty required string input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidKeyFormat is returned when an exported private key cannot be
	// decoded for the signature scheme.
	ErrInvalidKeyFormat = errors.New("invalid private key format")

	// ErrPrecommitViolation is returned when an unsigned transaction is
	// offered to a block.
	ErrPrecommitViolation = errors.New("transaction must be signed before adding to block")

	// ErrNullReference is returned when a required object is nil.
	ErrNullReference = errors.New("nil reference")

	// ErrNonceExhausted is returned when an account nonce cannot advance
	// any further.
	ErrNonceExhausted = errors.New("nonce exhausted")
)

package store

import (
	"context"
	"errors"
)

var (
	// ErrTxConflict is returned when a transaction loses a write race
	// (serialization failure or lock conflict). Callers may retry.
	ErrTxConflict = errors.New("Transaction conflict, please retry")
)

// TxRunner runs a function inside a single storage transaction. Everything the
// function reads and writes through the passed context commits or rolls back
// as one unit.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

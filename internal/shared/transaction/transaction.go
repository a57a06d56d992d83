// Package transaction defines the unit-of-work boundary shared by the bounded contexts.
package transaction

import "context"

// Transactor runs fn as one atomic unit of work. Repositories called with the
// ctx handed to fn take part in the same transaction; when fn returns an error
// (or panics) every write made through that ctx is rolled back.
// Nested calls join the outer unit of work.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactorFunc adapts a function to the Transactor interface.
type TransactorFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// WithinTx calls f(ctx, fn).
func (f TransactorFunc) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

package ports

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIdempotencyConflict indicates the same key was used with a different payload or target.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyInProgress is returned when another placement still holds the key.
	ErrIdempotencyInProgress = fmt.Errorf("%w: a placement with this key is still running", ErrIdempotencyConflict)
)

// IdempotencyRecord captures the association between a client-supplied key and the resulting order.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pending reports a claimed key whose placement has not committed yet.
func (r IdempotencyRecord) Pending() bool { return r.OrderID == 0 }

// IdempotencyStore persists idempotency keys so placement retries can be replayed safely.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash and order, the stored record is returned.
	// When the key exists but points to a different request/order, ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

// TransactionalIdempotencyStore is implemented by stores that write through the
// unit of work in ctx, so the key commits or rolls back with the order.
type TransactionalIdempotencyStore interface {
	IdempotencyStore
	Transactional() bool
}

// IdempotencyClaimer is implemented by stores that live outside the unit of
// work. A placement claims its key before the transaction, so a concurrent
// request with the same key sees a pending record instead of placing twice.
type IdempotencyClaimer interface {
	IdempotencyStore
	// Claim stores a pending record for key. When the key is already taken it
	// returns the stored record and false.
	Claim(ctx context.Context, key, requestHash string) (*IdempotencyRecord, bool, error)
	// Complete binds a claimed key to the committed order.
	Complete(ctx context.Context, key, requestHash string, orderID int64) error
	// Release drops a pending claim so the key can be used again.
	Release(ctx context.Context, key, requestHash string) error
}

// IdempotencyPurger removes records older than a cutoff.
type IdempotencyPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

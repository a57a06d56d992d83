// Package memory coordinates the in-memory adapters so they can share one unit of work.
package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-shop-server/internal/shared/transaction"
)

var _ transaction.Transactor = (*Store)(nil)

type txKey struct{}

type txState struct {
	store *Store
	undo  []func()
}

// Store is the lock every in-memory repository built on it shares. A unit of
// work holds the write lock from start to commit, which gives the same
// serialization postgres row locks give the SQL adapters.
type Store struct {
	mu sync.RWMutex
}

// NewStore constructs an empty coordinator.
func NewStore() *Store {
	return &Store{}
}

// WithinTx runs fn while holding the store's write lock. Writes performed
// through Write with the provided ctx are undone in reverse order when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.active(ctx) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state := &txState{store: s}
	defer func() {
		if r := recover(); r != nil {
			state.rollback()
			panic(r)
		}
		if err != nil {
			state.rollback()
		}
	}()
	return fn(context.WithValue(ctx, txKey{}, state))
}

// Read runs fn under a shared lock, or directly when ctx already carries a unit of work.
func (s *Store) Read(ctx context.Context, fn func()) {
	if s.active(ctx) != nil {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// Write runs fn under the write lock. fn returns an undo func that is kept
// until the surrounding unit of work commits; outside a unit of work the
// write is final as soon as fn returns without error.
func (s *Store) Write(ctx context.Context, fn func() (undo func(), err error)) error {
	if state := s.active(ctx); state != nil {
		undo, err := fn()
		if err != nil {
			return err
		}
		if undo != nil {
			state.undo = append(state.undo, undo)
		}
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fn()
	return err
}

func (s *Store) active(ctx context.Context) *txState {
	if s == nil || ctx == nil {
		return nil
	}
	state, _ := ctx.Value(txKey{}).(*txState)
	if state == nil || state.store != s {
		return nil
	}
	return state
}

func (t *txState) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

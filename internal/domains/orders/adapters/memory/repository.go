package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps orders in memory on a shared platform store.
type Repository struct {
	store  *platformmemory.Store
	orders map[int64]*domain.Order
	nextID int64
}

// NewRepository builds a repository on store; a nil store gets a private one.
func NewRepository(store *platformmemory.Store) *Repository {
	if store == nil {
		store = platformmemory.NewStore()
	}
	return &Repository{store: store, orders: map[int64]*domain.Order{}}
}

func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := order.Clone()
	err := r.store.Write(ctx, func() (func(), error) {
		previousNext := r.nextID
		if clone.ID == 0 {
			r.nextID++
			clone.ID = r.nextID
		} else if _, ok := r.orders[clone.ID]; !ok {
			return nil, ports.ErrNotFound
		}
		previous, existed := r.orders[clone.ID]
		r.orders[clone.ID] = clone
		id := clone.ID
		return func() {
			r.nextID = previousNext
			if existed {
				r.orders[id] = previous
			} else {
				delete(r.orders, id)
			}
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return clone.Clone(), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var found *domain.Order
	r.store.Read(ctx, func() {
		if order, ok := r.orders[id]; ok {
			found = order.Clone()
		}
	})
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

// LockByID is a plain read: the unit of work already holds the store's write lock.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	r.store.Read(ctx, func() {
		list = make([]*domain.Order, 0, len(r.orders))
		for _, order := range r.orders {
			list = append(list, order.Clone())
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

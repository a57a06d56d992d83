package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps products in memory. Stock writes made inside a unit of work
// are rolled back with it.
type Repository struct {
	store    *platformmemory.Store
	products map[int64]*domain.Product
	byCode   map[string]int64
	nextID   int64
}

// NewRepository builds a repository on store; a nil store gets a private one.
func NewRepository(store *platformmemory.Store) *Repository {
	if store == nil {
		store = platformmemory.NewStore()
	}
	return &Repository{
		store:    store,
		products: map[int64]*domain.Product{},
		byCode:   map[string]int64{},
	}
}

func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	clone.Code = strings.TrimSpace(clone.Code)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	err := r.store.Write(ctx, func() (func(), error) {
		if id, ok := r.byCode[clone.Code]; ok && id != clone.ID {
			return nil, ports.ErrDuplicateCode
		}
		previousNext := r.nextID
		if clone.ID == 0 {
			r.nextID++
			clone.ID = r.nextID
		} else if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
		previous, existed := r.products[clone.ID]
		if existed && previous.Code != clone.Code {
			delete(r.byCode, previous.Code)
		}
		stored := clone
		r.products[clone.ID] = &stored
		r.byCode[clone.Code] = clone.ID
		return func() {
			r.nextID = previousNext
			delete(r.byCode, stored.Code)
			if existed {
				r.products[stored.ID] = previous
				r.byCode[previous.Code] = previous.ID
			} else {
				delete(r.products, stored.ID)
			}
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &clone, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var found *domain.Product
	r.store.Read(ctx, func() {
		if product, ok := r.products[id]; ok {
			clone := *product
			found = &clone
		}
	})
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	var found *domain.Product
	r.store.Read(ctx, func() {
		if id, ok := r.byCode[code]; ok {
			clone := *r.products[id]
			found = &clone
		}
	})
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

// LockByID is a plain read: the unit of work already holds the store's write lock.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) UpdateStock(ctx context.Context, id int64, stock int) error {
	if stock < 0 {
		return domain.ErrNegativeStock
	}
	return r.store.Write(ctx, func() (func(), error) {
		product, ok := r.products[id]
		if !ok {
			return nil, ports.ErrNotFound
		}
		previous := product.Stock
		product.Stock = stock
		return func() { product.Stock = previous }, nil
	})
}

func (r *Repository) DeleteByCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	return r.store.Write(ctx, func() (func(), error) {
		id, ok := r.byCode[code]
		if !ok {
			return nil, ports.ErrNotFound
		}
		removed := r.products[id]
		delete(r.products, id)
		delete(r.byCode, code)
		return func() {
			r.products[id] = removed
			r.byCode[code] = id
		}, nil
	})
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	var list []*domain.Product
	r.store.Read(ctx, func() {
		list = make([]*domain.Product, 0, len(r.products))
		for _, product := range r.products {
			clone := *product
			list = append(list, &clone)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	platformmemory "github.com/Apurer/go-gin-shop-server/internal/platform/memory"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory user directory for development and tests.
type Repository struct {
	store  *platformmemory.Store
	users  map[int64]*domain.User
	nextID int64
}

// NewRepository builds a repository on store; a nil store gets a private one.
func NewRepository(store *platformmemory.Store) *Repository {
	if store == nil {
		store = platformmemory.NewStore()
	}
	return &Repository{store: store, users: map[int64]*domain.User{}}
}

func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	clone := cloneUser(user)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	err := r.store.Write(ctx, func() (func(), error) {
		for id, existing := range r.users {
			if id != clone.ID && strings.EqualFold(existing.Username, clone.Username) {
				return nil, ports.ErrUsernameTaken
			}
		}
		previousNext := r.nextID
		if clone.ID == 0 {
			r.nextID++
			clone.ID = r.nextID
		} else if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
		previous, existed := r.users[clone.ID]
		r.users[clone.ID] = clone
		id := clone.ID
		return func() {
			r.nextID = previousNext
			if existed {
				r.users[id] = previous
			} else {
				delete(r.users, id)
			}
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneUser(clone), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var found *domain.User
	r.store.Read(ctx, func() {
		if user, ok := r.users[id]; ok {
			found = cloneUser(user)
		}
	})
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	var found *domain.User
	r.store.Read(ctx, func() {
		for _, user := range r.users {
			if strings.EqualFold(user.Username, username) {
				found = cloneUser(user)
				return
			}
		}
	})
	if found == nil {
		return nil, ports.ErrNotFound
	}
	return found, nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	var list []*domain.User
	r.store.Read(ctx, func() {
		list = make([]*domain.User, 0, len(r.users))
		for _, user := range r.users {
			list = append(list, cloneUser(user))
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func cloneUser(user *domain.User) *domain.User {
	clone := *user
	clone.Roles = user.Roles.Clone()
	return &clone
}

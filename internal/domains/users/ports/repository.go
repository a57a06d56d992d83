package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
)

var ErrNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already in use")

// Directory resolves users by identity. It is the only view the order engine needs.
type Directory interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Repository interface {
	Directory
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

package ports

import (
	"context"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
)

// Authorizer resolves a requesting user and checks it may perform op.
type Authorizer interface {
	Authorize(ctx context.Context, userID int64, op domain.Operation) (*domain.User, error)
}

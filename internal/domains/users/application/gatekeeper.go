package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

// Gatekeeper resolves the requesting user and applies the authorization policy.
// Workflows call it first, before touching any other state.
type Gatekeeper struct {
	directory ports.Directory
}

func NewGatekeeper(directory ports.Directory) *Gatekeeper {
	return &Gatekeeper{directory: directory}
}

// Authorize returns the resolved user when it may perform op.
// A missing or unknown id fails with domain.ErrInvalidCustomerID, a user
// without an accepted role with domain.ErrInvalidOperation.
func (g *Gatekeeper) Authorize(ctx context.Context, userID int64, op domain.Operation) (*domain.User, error) {
	if userID <= 0 {
		return nil, domain.ErrInvalidCustomerID
	}
	user, err := g.directory.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.ErrInvalidCustomerID
		}
		return nil, err
	}
	if err := domain.Authorize(op, user.Roles); err != nil {
		return nil, err
	}
	return user, nil
}

var _ ports.Authorizer = (*Gatekeeper)(nil)

package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
)

// Service exposes user bounded context use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, mapError(err)
	}
	if existing, err := s.repo.GetByUsername(ctx, user.Username); err == nil && existing.ID != user.ID {
		return nil, mapError(ports.ErrUsernameTaken)
	} else if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, ports.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

var _ ports.Service = (*Service)(nil)

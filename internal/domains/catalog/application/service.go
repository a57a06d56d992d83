package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	userdomain "github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	userports "github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	"github.com/Apurer/go-gin-shop-server/internal/shared/transaction"
)

// Service orchestrates catalog administration. Every mutation authorizes the
// requesting user first and runs inside one unit of work.
type Service struct {
	repo   ports.Repository
	ledger *Ledger
	access userports.Authorizer
	tx     transaction.Transactor
}

func NewService(repo ports.Repository, access userports.Authorizer, tx transaction.Transactor) *Service {
	return &Service{repo: repo, ledger: NewLedger(repo), access: access, tx: tx}
}

func (s *Service) AddProduct(ctx context.Context, userID int64, product *domain.Product) (*domain.Product, error) {
	var saved *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.Authorize(ctx, userID, userdomain.OperationAddProduct); err != nil {
			return err
		}
		if product == nil {
			return errors.New("product is nil")
		}
		if err := product.Validate(); err != nil {
			return err
		}
		if _, err := s.repo.GetByCode(ctx, product.Code); err == nil {
			return ports.ErrDuplicateCode
		} else if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		clone := *product
		clone.ID = 0
		var err error
		saved, err = s.repo.Save(ctx, &clone)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetProduct(ctx context.Context, code string) (*domain.Product, error) {
	return s.byCode(ctx, code)
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, userID int64, code string, update domain.Update) (*domain.Product, error) {
	var saved *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.Authorize(ctx, userID, userdomain.OperationUpdateProduct); err != nil {
			return err
		}
		product, err := s.lockByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := product.Apply(update); err != nil {
			return err
		}
		saved, err = s.repo.Save(ctx, product)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, userID int64, code string) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.Authorize(ctx, userID, userdomain.OperationDeleteProduct); err != nil {
			return err
		}
		product, err := s.byCode(ctx, code)
		if err != nil {
			return err
		}
		return s.repo.DeleteByCode(ctx, product.Code)
	})
	return mapError(err)
}

// AddStock restocks a product through the ledger.
func (s *Service) AddStock(ctx context.Context, userID int64, code string, quantity int) (*domain.Product, error) {
	var updated *domain.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.access.Authorize(ctx, userID, userdomain.OperationAddStock); err != nil {
			return err
		}
		product, err := s.byCode(ctx, code)
		if err != nil {
			return err
		}
		if err := s.ledger.IncrementStock(ctx, product.ID, quantity); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(ctx, product.ID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

func (s *Service) byCode(ctx context.Context, code string) (*domain.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidProductCode
	}
	product, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, domain.ErrInvalidProductCode
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) lockByCode(ctx context.Context, code string) (*domain.Product, error) {
	product, err := s.byCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.repo.LockByID(ctx, product.ID)
}

var _ ports.Service = (*Service)(nil)

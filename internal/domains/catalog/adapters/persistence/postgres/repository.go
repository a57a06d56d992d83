package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/catalog/ports"
	platformpostgres "github.com/Apurer/go-gin-shop-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product to the products table.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Code        string          `gorm:"column:code;uniqueIndex"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Currency    string          `gorm:"column:currency;type:varchar(3)"`
	Valid       bool            `gorm:"column:valid"`
	Stock       int             `gorm:"column:stock"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts a new product or updates the row with the same id.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	query := platformpostgres.Conn(ctx, r.db)
	if record.ID != 0 {
		query = query.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"code":        record.Code,
				"description": record.Description,
				"price":       record.Price,
				"currency":    record.Currency,
				"valid":       record.Valid,
				"stock":       record.Stock,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		})
	}
	if err := query.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateCode
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, false, "id = ?", id)
}

// GetByCode fetches a product by its unique code.
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	return r.first(ctx, false, "code = ?", strings.TrimSpace(code))
}

// LockByID issues SELECT ... FOR UPDATE. The lock is held until the
// transaction bound to ctx ends.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, true, "id = ?", id)
}

// UpdateStock writes the stock column only.
func (r *Repository) UpdateStock(ctx context.Context, id int64, stock int) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if stock < 0 {
		return domain.ErrNegativeStock
	}
	result := platformpostgres.Conn(ctx, r.db).
		Model(&productRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"stock": stock, "updated_at": gorm.Expr("NOW()")})
	if errors.Is(result.Error, gorm.ErrCheckConstraintViolated) {
		return domain.ErrNegativeStock
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// DeleteByCode removes a product by code.
func (r *Repository) DeleteByCode(ctx context.Context, code string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpostgres.Conn(ctx, r.db).Where("code = ?", strings.TrimSpace(code)).Delete(&productRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all products ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) first(ctx context.Context, lock bool, cond string, arg any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := platformpostgres.Conn(ctx, r.db)
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record productRecord
	if err := query.First(&record, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Code:        strings.TrimSpace(product.Code),
		Description: product.Description,
		Price:       product.Price,
		Currency:    string(product.Currency),
		Valid:       product.Valid,
		Stock:       product.Stock,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Code:        r.Code,
		Description: r.Description,
		Price:       r.Price,
		Currency:    domain.Currency(r.Currency),
		Valid:       r.Valid,
		Stock:       r.Stock,
	}
}

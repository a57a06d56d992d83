package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/go-gin-shop-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their line items in PostgreSQL using GORM.
// Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate root to the orders table.
type orderRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	CustomerID int64     `gorm:"column:customer_id;index"`
	Delivered  bool      `gorm:"column:delivered"`
	Canceled   bool      `gorm:"column:canceled"`
	Returned   bool      `gorm:"column:returned"`
	PlacedAt   time.Time `gorm:"column:placed_at;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	OrderID     int64  `gorm:"column:order_id;index"`
	ProductID   int64  `gorm:"column:product_id;index"`
	ProductCode string `gorm:"column:product_code"`
	Quantity    int    `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save inserts a new order with its items, or updates the lifecycle flags of an existing one.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	conn := platformpostgres.Conn(ctx, r.db)
	record := toRecord(order)
	if record.ID == 0 {
		if err := conn.Create(&record).Error; err != nil {
			return nil, err
		}
		items := toItemRecords(record.ID, order.Items)
		if len(items) > 0 {
			if err := conn.Create(&items).Error; err != nil {
				return nil, err
			}
		}
		return r.GetByID(ctx, record.ID)
	}
	result := conn.Model(&orderRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"delivered":  record.Delivered,
			"canceled":   record.Canceled,
			"returned":   record.Returned,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an order with its items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.load(ctx, id, false)
}

// LockByID issues SELECT ... FOR UPDATE on the order row. The lock is held
// until the transaction bound to ctx ends.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.load(ctx, id, true)
}

// List returns all orders ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	var records []orderRecord
	if err := conn.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*domain.Order{}, nil
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	var items []orderItemRecord
	if err := conn.Where("order_id IN ?", ids).Order("order_id, product_id").Find(&items).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[int64][]orderItemRecord, len(records))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain(byOrder[records[i].ID]))
	}
	return orders, nil
}

func (r *Repository) load(ctx context.Context, id int64, lock bool) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpostgres.Conn(ctx, r.db)
	query := conn
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var record orderRecord
	if err := query.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var items []orderItemRecord
	if err := conn.Where("order_id = ?", id).Order("product_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return record.toDomain(items), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Delivered:  order.Delivered,
		Canceled:   order.Canceled,
		Returned:   order.Returned,
		PlacedAt:   order.PlacedAt,
	}
}

func toItemRecords(orderID int64, items []domain.LineItem) []orderItemRecord {
	records := make([]orderItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, orderItemRecord{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		})
	}
	return records
}

func (r orderRecord) toDomain(items []orderItemRecord) *domain.Order {
	lines := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.LineItem{
			ProductID:   item.ProductID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
		})
	}
	return &domain.Order{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Items:      lines,
		Delivered:  r.Delivered,
		Canceled:   r.Canceled,
		Returned:   r.Returned,
		PlacedAt:   r.PlacedAt.UTC(),
	}
}

package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&orderIdempotencyRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID             int64          `gorm:"primaryKey;column:id"`
	Username       string         `gorm:"column:username;uniqueIndex"`
	FirstName      string         `gorm:"column:first_name"`
	Surname        string         `gorm:"column:surname"`
	AddressCity    string         `gorm:"column:address_city"`
	AddressStreet  string         `gorm:"column:address_street"`
	AddressNumber  int32          `gorm:"column:address_number"`
	AddressZipcode string         `gorm:"column:address_zipcode"`
	Roles          pq.StringArray `gorm:"column:roles;type:text[]"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Product schema mirrors the catalog Postgres adapter. Stock can never go negative.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Code        string          `gorm:"column:code;uniqueIndex"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Currency    string          `gorm:"column:currency;type:varchar(3)"`
	Valid       bool            `gorm:"column:valid"`
	Stock       int             `gorm:"column:stock;check:chk_products_stock_non_negative,stock >= 0"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
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
	Quantity    int    `gorm:"column:quantity;check:chk_order_items_quantity_positive,quantity > 0"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency schema mirrors the orders idempotency store.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:order_id"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-shop-server/internal/domains/users/domain"
	"github.com/Apurer/go-gin-shop-server/internal/domains/users/ports"
	platformpostgres "github.com/Apurer/go-gin-shop-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists users in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save inserts a new user or updates the row with the same id.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(user)
	query := platformpostgres.Conn(ctx, r.db)
	if record.ID != 0 {
		query = query.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "first_name", "surname",
				"address_city", "address_street", "address_number", "address_zipcode",
				"roles", "updated_at",
			}),
		})
	}
	if err := query.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrUsernameTaken
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a user by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record userRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByUsername fetches a user by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	var record userRecord
	if err := platformpostgres.Conn(ctx, r.db).First(&record, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns all users ordered by id.
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []userRecord
	if err := platformpostgres.Conn(ctx, r.db).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toDomain())
	}
	return users, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres user repository not configured")
	}
	return nil
}

func toRecord(user *domain.User) userRecord {
	roles := make(pq.StringArray, 0, len(user.Roles))
	for _, role := range user.Roles.Slice() {
		roles = append(roles, string(role))
	}
	return userRecord{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		Surname:        user.Surname,
		AddressCity:    user.Address.City,
		AddressStreet:  user.Address.Street,
		AddressNumber:  user.Address.Number,
		AddressZipcode: user.Address.Zipcode,
		Roles:          roles,
	}
}

func (r userRecord) toDomain() *domain.User {
	roles := make(domain.RoleSet, len(r.Roles))
	for _, raw := range r.Roles {
		roles[domain.Role(raw)] = struct{}{}
	}
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		FirstName: r.FirstName,
		Surname:   r.Surname,
		Address: domain.Address{
			City:    r.AddressCity,
			Street:  r.AddressStreet,
			Number:  r.AddressNumber,
			Zipcode: r.AddressZipcode,
		},
		Roles: roles,
	}
}

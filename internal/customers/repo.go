package customers

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// Repository encapsulates user and address persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID loads a user with their address book.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Addresses").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves user field changes.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateLastLogin stamps the most recent successful login.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// List returns a cursor page of customers, newest first.
func (r *Repository) List(ctx context.Context, search string, params pagination.Params) (Page, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer)
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Page{}, err
	}

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.User
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return Page{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return Page{Items: rows, NextCursor: nextCursor, Total: total}, nil
}

// CreateAddress inserts an address-book entry.
func (r *Repository) CreateAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// FindAddressByID loads one address.
func (r *Repository) FindAddressByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// UpdateAddress saves address field changes.
func (r *Repository) UpdateAddress(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

// DeleteAddress removes an address-book entry.
func (r *Repository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Address{}).Error
}

// ClearDefaultAddress unsets is_default across a user's address book so a new
// default can be set.
func (r *Repository) ClearDefaultAddress(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error
}

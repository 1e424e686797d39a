package coupons

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
)

// Repository encapsulates coupon persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided gorm DB.
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

// FindByCode loads a coupon by its code, case-insensitively.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByID loads a coupon by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error; err != nil {
		return nil, err
	}
	return &coupon, nil
}

// List returns all coupons ordered by creation time, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Coupon, error) {
	var rows []models.Coupon
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new coupon.
func (r *Repository) Create(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

// Update saves coupon field changes.
func (r *Repository) Update(ctx context.Context, coupon *models.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// Delete removes a coupon.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{}).Error
}

// IncrementUsage bumps used_count while re-checking the cap so two concurrent
// checkouts cannot both consume the last use.
func (r *Repository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("id = ? AND is_active = ? AND (max_uses = 0 OR used_count < max_uses)", id, true).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeactivateExpired flips is_active off for coupons past their expiry and
// returns how many rows changed.
func (r *Repository) DeactivateExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, time.Now().UTC()).
		Update("is_active", false)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

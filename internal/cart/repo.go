package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
)

// Repository encapsulates cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
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

// FindOrCreate returns the customer's cart, creating the row on first use.
func (r *Repository) FindOrCreate(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.CartRecord{CustomerID: customerID}
	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// Find loads the customer's cart without creating one.
func (r *Repository) Find(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindLine loads one cart line by its (cart, product, variant) key.
func (r *Repository) FindLine(ctx context.Context, cartID, productID, variantID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindLineByID loads one cart line by primary key.
func (r *Repository) FindLineByID(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateLine inserts a cart line.
func (r *Repository) CreateLine(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateLineQuantity overwrites a line's quantity.
func (r *Repository) UpdateLineQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteLine removes a cart line.
func (r *Repository) DeleteLine(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// ClearItems removes every line from a cart.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// DeleteAbandoned removes carts untouched for longer than the retention
// window, returning how many carts were dropped. Items cascade.
func (r *Repository) DeleteAbandoned(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Exec(`DELETE FROM cart_records WHERE updated_at < ?
		      AND NOT EXISTS (SELECT 1 FROM cart_items ci WHERE ci.cart_id = cart_records.id AND ci.updated_at >= ?)`,
			cutoff, cutoff)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// CartItem is one line of a cart. Uniqueness key is (cart_id, product_id,
// variant_id); quantity is always >= 1 — a zero-quantity update removes the row.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product_variant"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product_variant"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:idx_cart_product_variant"`
	Quantity  int             `gorm:"column:quantity;not null"`
	MetalType enums.MetalType `gorm:"column:metal_type;type:text;not null"`
	RingSize  *string         `gorm:"column:ring_size"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

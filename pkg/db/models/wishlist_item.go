package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem is a saved product reference. Set semantics: one row per
// (customer_id, product_id).
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:idx_wishlist_customer_product"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_wishlist_customer_product"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

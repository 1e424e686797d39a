package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// ProductVariant is a purchasable combination of metal and optional ring size.
// PriceAdjustment is added to the product's effective price, in whole rupees.
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	MetalType       enums.MetalType `gorm:"column:metal_type;type:text;not null"`
	RingSize        *string         `gorm:"column:ring_size"`
	Stock           int             `gorm:"column:stock;not null;default:0"`
	PriceAdjustment int             `gorm:"column:price_adjustment;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// OrderItem is a snapshotted order line. Name, image and unit price are copied
// from the product at checkout so later catalog edits do not rewrite history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Image     string          `gorm:"column:image;not null;default:''"`
	MetalType enums.MetalType `gorm:"column:metal_type;type:text;not null"`
	RingSize  *string         `gorm:"column:ring_size"`
	UnitPrice int             `gorm:"column:unit_price;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
}

// LineTotal is unit price times quantity, in whole rupees.
func (i OrderItem) LineTotal() int {
	return i.UnitPrice * i.Quantity
}

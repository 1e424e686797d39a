package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRecord is the open cart for a customer. At most one exists per customer;
// checkout empties it rather than replacing it.
type CartRecord struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID  `gorm:"column:customer_id;type:uuid;not null;uniqueIndex"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

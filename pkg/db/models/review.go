package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Review is a customer product review awaiting or past moderation.
type Review struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	CustomerID uuid.UUID          `gorm:"column:customer_id;type:uuid;not null"`
	Rating     int                `gorm:"column:rating;not null"`
	Text       string             `gorm:"column:text;not null;default:''"`
	Status     enums.ReviewStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	AdminReply *string            `gorm:"column:admin_reply"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

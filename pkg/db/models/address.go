package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved shipping address on a customer's address book.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label     string    `gorm:"column:label;not null;default:''"`
	FullName  string    `gorm:"column:full_name;not null"`
	Phone     string    `gorm:"column:phone;not null"`
	Line1     string    `gorm:"column:line1;not null"`
	Line2     string    `gorm:"column:line2;not null;default:''"`
	City      string    `gorm:"column:city;not null"`
	State     string    `gorm:"column:state;not null"`
	Pincode   string    `gorm:"column:pincode;not null"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

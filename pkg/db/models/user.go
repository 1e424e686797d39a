package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// User is an authenticated account, customer or admin.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;not null"`
	Phone        string         `gorm:"column:phone;not null;default:''"`
	Role         enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	Birthday     *time.Time     `gorm:"column:birthday"`
	Notes        string         `gorm:"column:notes;not null;default:''"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	Addresses    []Address      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

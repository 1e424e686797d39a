package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Coupon is a discount rule. Value is a percentage for percentage coupons and
// whole rupees for fixed coupons. MinOrderValue and MaxUses of zero mean no
// constraint; a nil StartsAt or ExpiresAt leaves that side of the validity
// window open.
type Coupon struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string           `gorm:"column:code;not null;uniqueIndex"`
	Type          enums.CouponType `gorm:"column:type;type:text;not null"`
	Value         int              `gorm:"column:value;not null"`
	MinOrderValue int              `gorm:"column:min_order_value;not null;default:0"`
	MaxUses       int              `gorm:"column:max_uses;not null;default:0"`
	UsedCount     int              `gorm:"column:used_count;not null;default:0"`
	StartsAt      *time.Time       `gorm:"column:starts_at"`
	ExpiresAt     *time.Time       `gorm:"column:expires_at"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// InWindow reports whether the given time falls inside [StartsAt, ExpiresAt].
// Both bounds are inclusive.
func (c Coupon) InWindow(now time.Time) bool {
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	return !c.IsExpired(now)
}

// IsExpired reports whether the coupon's expiry has passed at the given time.
func (c Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// IsExhausted reports whether the usage cap has been reached.
func (c Coupon) IsExhausted() bool {
	return c.MaxUses > 0 && c.UsedCount >= c.MaxUses
}

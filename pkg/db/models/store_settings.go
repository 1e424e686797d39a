package models

import (
	"time"

	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

// StoreSettings is the singleton storefront configuration row (id = 1).
// Money fields are whole rupees; GSTRatePercent is a whole percentage.
type StoreSettings struct {
	ID                    int               `gorm:"column:id;primaryKey"`
	StoreName             string            `gorm:"column:store_name;not null"`
	SupportEmail          string            `gorm:"column:support_email;not null;default:''"`
	SupportPhone          string            `gorm:"column:support_phone;not null;default:''"`
	FreeShippingThreshold int               `gorm:"column:free_shipping_threshold;not null"`
	StandardShippingFee   int               `gorm:"column:standard_shipping_fee;not null"`
	ExpressShippingFee    int               `gorm:"column:express_shipping_fee;not null"`
	SameDayShippingFee    int               `gorm:"column:same_day_shipping_fee;not null"`
	GSTRatePercent        int               `gorm:"column:gst_rate_percent;not null"`
	CODEnabled            bool              `gorm:"column:cod_enabled;not null;default:true"`
	AnnouncementText      string            `gorm:"column:announcement_text;not null;default:''"`
	AnnouncementEnabled   bool              `gorm:"column:announcement_enabled;not null;default:false"`
	SocialLinks           types.SocialLinks `gorm:"column:social_links;type:jsonb;serializer:json;not null;default:'{}'"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSettings) TableName() string {
	return "store_settings"
}

package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

// Order is a placed order. The money columns are a pricing snapshot taken at
// checkout and never recomputed; only fulfillment status, payment status,
// tracking number and the timeline change afterwards.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber       string                  `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID        uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index"`
	CustomerName      string                  `gorm:"column:customer_name;not null"`
	CustomerEmail     string                  `gorm:"column:customer_email;not null"`
	CustomerPhone     string                  `gorm:"column:customer_phone;not null;default:''"`
	ShippingAddress   types.Address           `gorm:"column:shipping_address;type:jsonb;serializer:json;not null"`
	Subtotal          int                     `gorm:"column:subtotal;not null"`
	Discount          int                     `gorm:"column:discount;not null;default:0"`
	CouponCode        *string                 `gorm:"column:coupon_code"`
	ShippingFee       int                     `gorm:"column:shipping_fee;not null;default:0"`
	Tax               int                     `gorm:"column:tax;not null;default:0"`
	Total             int                     `gorm:"column:total;not null"`
	ShippingMethod    enums.ShippingMethod    `gorm:"column:shipping_method;type:text;not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	FulfillmentStatus enums.FulfillmentStatus `gorm:"column:fulfillment_status;type:text;not null;default:'pending'"`
	TrackingNumber    *string                 `gorm:"column:tracking_number"`
	Notes             string                  `gorm:"column:notes;not null;default:''"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Timeline          []OrderTimelineEntry    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderTimelineEntry records one status the order passed through. Rows are
// append-only.
type OrderTimelineEntry struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID               `gorm:"column:order_id;type:uuid;not null;index"`
	Status    enums.FulfillmentStatus `gorm:"column:status;type:text;not null"`
	Note      string                  `gorm:"column:note;not null;default:''"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
}

func (OrderTimelineEntry) TableName() string {
	return "order_timeline_entries"
}

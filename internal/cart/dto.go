package cart

import (
	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/internal/pricing"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// AddItemInput is one add-to-cart request. An existing (product, variant)
// line merges quantities instead of duplicating.
type AddItemInput struct {
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	VariantID  uuid.UUID
	Quantity   int
}

// LineView is one cart line joined with live product data.
type LineView struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	MetalType enums.MetalType `json:"metal_type"`
	RingSize  *string         `json:"ring_size,omitempty"`
	UnitPrice int             `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal int             `json:"line_total"`
	InStock   bool            `json:"in_stock"`
	Stale     bool            `json:"stale"`
}

// View is the assembled cart with its price breakdown.
type View struct {
	CartID uuid.UUID     `json:"cart_id"`
	Items  []LineView    `json:"items"`
	Quote  pricing.Quote `json:"quote"`
}

// QuoteInput prices the cart with an optional coupon and shipping method.
type QuoteInput struct {
	CustomerID     uuid.UUID
	CouponCode     string
	ShippingMethod enums.ShippingMethod
}

// QuoteView is the cart plus the applied coupon outcome.
type QuoteView struct {
	View
	CouponCode string `json:"coupon_code,omitempty"`
}

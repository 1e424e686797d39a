package checkout

import (
	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

// Input is a place-order request. Pricing is recomputed server side; the
// client never supplies amounts.
type Input struct {
	CustomerID      uuid.UUID
	ShippingAddress types.Address
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	CouponCode      string
	Notes           string
}

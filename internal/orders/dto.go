package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Filters narrows admin order listings. Zero values mean "no filter".
type Filters struct {
	FulfillmentStatus enums.FulfillmentStatus
	PaymentStatus     enums.PaymentStatus
	CustomerID        uuid.UUID
	Search            string
	From              time.Time
	To                time.Time
}

// Page is one page of orders plus the cursor for the next page.
type Page struct {
	Items      []models.Order `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
	Total      int64          `json:"total"`
}

// StatusUpdateInput moves an order to a new fulfillment status.
type StatusUpdateInput struct {
	OrderID uuid.UUID
	Status  enums.FulfillmentStatus
	Note    string
}

// TrackingInput attaches a tracking number, optionally advancing the order to
// shipped in the same call.
type TrackingInput struct {
	OrderID        uuid.UUID
	TrackingNumber string
	MarkShipped    bool
}

// Summary aggregates order counts and revenue for the admin dashboard.
type Summary struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
	Revenue         int64 `json:"revenue"`
}

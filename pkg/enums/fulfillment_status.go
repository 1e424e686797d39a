package enums

import "fmt"

// FulfillmentStatus tracks the shipping-progress state of an order. Forward
// progress is linear; cancellation is reachable from any non-terminal state.
type FulfillmentStatus string

const (
	FulfillmentStatusPending    FulfillmentStatus = "pending"
	FulfillmentStatusProcessing FulfillmentStatus = "processing"
	FulfillmentStatusShipped    FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered  FulfillmentStatus = "delivered"
	FulfillmentStatusCancelled  FulfillmentStatus = "cancelled"
)

var validFulfillmentStatuses = []FulfillmentStatus{
	FulfillmentStatusPending,
	FulfillmentStatusProcessing,
	FulfillmentStatusShipped,
	FulfillmentStatusDelivered,
	FulfillmentStatusCancelled,
}

// String implements fmt.Stringer.
func (f FulfillmentStatus) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FulfillmentStatus.
func (f FulfillmentStatus) IsValid() bool {
	for _, candidate := range validFulfillmentStatuses {
		if candidate == f {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (f FulfillmentStatus) IsTerminal() bool {
	return f == FulfillmentStatusDelivered || f == FulfillmentStatusCancelled
}

// ParseFulfillmentStatus converts raw input into a FulfillmentStatus.
func ParseFulfillmentStatus(value string) (FulfillmentStatus, error) {
	for _, candidate := range validFulfillmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fulfillment status %q", value)
}

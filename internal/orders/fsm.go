package orders

import (
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// fulfillmentTransitions is the allowed forward path for an order.
// Cancellation is reachable from every other state and is terminal.
var fulfillmentTransitions = map[enums.FulfillmentStatus][]enums.FulfillmentStatus{
	enums.FulfillmentStatusPending:    {enums.FulfillmentStatusProcessing, enums.FulfillmentStatusCancelled},
	enums.FulfillmentStatusProcessing: {enums.FulfillmentStatusShipped, enums.FulfillmentStatusCancelled},
	enums.FulfillmentStatusShipped:    {enums.FulfillmentStatusDelivered, enums.FulfillmentStatusCancelled},
	enums.FulfillmentStatusDelivered:  {enums.FulfillmentStatusCancelled},
	enums.FulfillmentStatusCancelled:  {},
}

// CanTransition reports whether moving from one fulfillment status to another
// is a legal single step.
func CanTransition(from, to enums.FulfillmentStatus) bool {
	for _, next := range fulfillmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

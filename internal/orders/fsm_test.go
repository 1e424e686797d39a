package orders

import (
	"testing"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from    enums.FulfillmentStatus
		to      enums.FulfillmentStatus
		allowed bool
	}{
		{enums.FulfillmentStatusPending, enums.FulfillmentStatusProcessing, true},
		{enums.FulfillmentStatusPending, enums.FulfillmentStatusCancelled, true},
		{enums.FulfillmentStatusPending, enums.FulfillmentStatusShipped, false},
		{enums.FulfillmentStatusPending, enums.FulfillmentStatusDelivered, false},
		{enums.FulfillmentStatusProcessing, enums.FulfillmentStatusShipped, true},
		{enums.FulfillmentStatusProcessing, enums.FulfillmentStatusCancelled, true},
		{enums.FulfillmentStatusProcessing, enums.FulfillmentStatusDelivered, false},
		{enums.FulfillmentStatusShipped, enums.FulfillmentStatusDelivered, true},
		{enums.FulfillmentStatusShipped, enums.FulfillmentStatusCancelled, true},
		{enums.FulfillmentStatusDelivered, enums.FulfillmentStatusPending, false},
		{enums.FulfillmentStatusDelivered, enums.FulfillmentStatusProcessing, false},
		{enums.FulfillmentStatusDelivered, enums.FulfillmentStatusCancelled, true},
		{enums.FulfillmentStatusCancelled, enums.FulfillmentStatusPending, false},
		{enums.FulfillmentStatusCancelled, enums.FulfillmentStatusProcessing, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestCanTransitionRejectsSelf(t *testing.T) {
	t.Parallel()

	for from := range fulfillmentTransitions {
		if CanTransition(from, from) {
			t.Errorf("expected self-transition from %s to be rejected", from)
		}
	}
}

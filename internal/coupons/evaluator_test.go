package coupons

import (
	"testing"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

func activeCoupon() *models.Coupon {
	return &models.Coupon{
		Code:     "WELCOME10",
		Type:     enums.CouponTypePercentage,
		Value:    10,
		IsActive: true,
	}
}

func TestEvaluateNilCoupon(t *testing.T) {
	t.Parallel()

	result := Evaluate(nil, 1000, time.Now())
	if result.Applied() {
		t.Fatal("expected nil coupon to be rejected")
	}
	if result.Reason != ReasonNotFound {
		t.Fatalf("unexpected reason: %s", result.Reason)
	}
}

func TestEvaluateRuleOrder(t *testing.T) {
	t.Parallel()

	past := time.Now().Add(-time.Hour)

	// The validity window wins over every rule after the code lookup.
	coupon := activeCoupon()
	coupon.IsActive = false
	coupon.ExpiresAt = &past
	coupon.MaxUses = 1
	coupon.UsedCount = 1
	coupon.MinOrderValue = 100000
	if result := Evaluate(coupon, 10, time.Now()); result.Reason != ReasonExpired {
		t.Fatalf("expected expired, got %s", result.Reason)
	}

	// Then the order minimum, before the active flag.
	coupon = activeCoupon()
	coupon.IsActive = false
	coupon.MinOrderValue = 10000
	if result := Evaluate(coupon, 9999, time.Now()); result.Reason != ReasonBelowMinimum {
		t.Fatalf("expected below minimum, got %s", result.Reason)
	}

	// Then the active flag, before the usage cap.
	coupon = activeCoupon()
	coupon.IsActive = false
	coupon.MaxUses = 1
	coupon.UsedCount = 1
	if result := Evaluate(coupon, 10, time.Now()); result.Reason != ReasonInactive {
		t.Fatalf("expected inactive, got %s", result.Reason)
	}

	// Usage cap last.
	coupon = activeCoupon()
	coupon.MaxUses = 5
	coupon.UsedCount = 5
	if result := Evaluate(coupon, 10, time.Now()); result.Reason != ReasonUsageExceeded {
		t.Fatalf("expected usage exceeded, got %s", result.Reason)
	}
}

func TestEvaluateWindowNotYetOpen(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(time.Hour)
	coupon := activeCoupon()
	coupon.StartsAt = &future

	if result := Evaluate(coupon, 10000, time.Now()); result.Reason != ReasonExpired {
		t.Fatalf("expected rejection before window opens, got %s", result.Reason)
	}
	if result := Evaluate(coupon, 10000, future); !result.Applied() {
		t.Fatalf("expected coupon valid at window open, got %s", result.Reason)
	}
}

func TestEvaluatePercentageDiscount(t *testing.T) {
	t.Parallel()

	result := Evaluate(activeCoupon(), 10000, time.Now())
	if !result.Applied() {
		t.Fatalf("expected coupon to apply, got %s", result.Reason)
	}
	if result.Discount != 1000 {
		t.Fatalf("expected 10%% of 10000, got %d", result.Discount)
	}

	// 10% of 125 is 12.5, rounding half-up to 13.
	rounded := Evaluate(activeCoupon(), 125, time.Now())
	if rounded.Discount != 13 {
		t.Fatalf("expected rounded discount 13, got %d", rounded.Discount)
	}
}

func TestEvaluateFixedDiscount(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{
		Code:          "LUMIERE500",
		Type:          enums.CouponTypeFixed,
		Value:         500,
		MinOrderValue: 10000,
		IsActive:      true,
	}

	result := Evaluate(coupon, 10000, time.Now())
	if !result.Applied() {
		t.Fatalf("expected coupon to apply, got %s", result.Reason)
	}
	if result.Discount != 500 {
		t.Fatalf("expected fixed discount 500, got %d", result.Discount)
	}
}

func TestEvaluateDiscountNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	coupon := &models.Coupon{
		Code:     "BIGFIXED",
		Type:     enums.CouponTypeFixed,
		Value:    5000,
		IsActive: true,
	}

	result := Evaluate(coupon, 300, time.Now())
	if result.Discount != 300 {
		t.Fatalf("expected discount clamped to subtotal, got %d", result.Discount)
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	t.Parallel()

	now := time.Now()
	coupon := activeCoupon()
	coupon.ExpiresAt = &now

	// A coupon expiring exactly now is still valid; only strictly after counts.
	if result := Evaluate(coupon, 1000, now); !result.Applied() {
		t.Fatalf("expected coupon valid at expiry instant, got %s", result.Reason)
	}
	if result := Evaluate(coupon, 1000, now.Add(time.Second)); result.Reason != ReasonExpired {
		t.Fatalf("expected expired after instant, got %s", result.Reason)
	}
}

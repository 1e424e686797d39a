package coupons

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// RejectionReason explains why a coupon did not apply.
type RejectionReason string

const (
	ReasonNotFound      RejectionReason = "not_found"
	ReasonInactive      RejectionReason = "inactive"
	ReasonExpired       RejectionReason = "expired"
	ReasonBelowMinimum  RejectionReason = "below_minimum"
	ReasonUsageExceeded RejectionReason = "usage_exceeded"
)

// Evaluation is the outcome of checking a coupon against a subtotal.
type Evaluation struct {
	Coupon   *models.Coupon
	Discount int
	Reason   RejectionReason
}

// Applied reports whether the coupon passed every rule.
func (e Evaluation) Applied() bool {
	return e.Reason == ""
}

// Evaluate runs the coupon rules in a fixed order against the subtotal (in
// whole rupees): known code, validity window, minimum order value, active
// flag, usage cap. Percentage discounts round half-up to the nearest rupee;
// the discount never exceeds the subtotal.
func Evaluate(coupon *models.Coupon, subtotal int, now time.Time) Evaluation {
	if coupon == nil {
		return Evaluation{Reason: ReasonNotFound}
	}
	if !coupon.InWindow(now) {
		return Evaluation{Coupon: coupon, Reason: ReasonExpired}
	}
	if coupon.MinOrderValue > 0 && subtotal < coupon.MinOrderValue {
		return Evaluation{Coupon: coupon, Reason: ReasonBelowMinimum}
	}
	if !coupon.IsActive {
		return Evaluation{Coupon: coupon, Reason: ReasonInactive}
	}
	if coupon.IsExhausted() {
		return Evaluation{Coupon: coupon, Reason: ReasonUsageExceeded}
	}

	discount := 0
	switch coupon.Type {
	case enums.CouponTypePercentage:
		discount = percentageOf(subtotal, coupon.Value)
	case enums.CouponTypeFixed:
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	return Evaluation{Coupon: coupon, Discount: discount}
}

func percentageOf(amount, percent int) int {
	d := decimal.NewFromInt(int64(amount)).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(d.IntPart())
}

package pricing

import (
	"testing"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

var testRates = Rates{
	FreeShippingThreshold: 5000,
	StandardShippingFee:   200,
	ExpressShippingFee:    200,
	SameDayShippingFee:    500,
	GSTRatePercent:        18,
}

func TestSubtotal(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{UnitPrice: 1200, Quantity: 2},
		{UnitPrice: 350, Quantity: 1},
	}
	if got := Subtotal(lines); got != 2750 {
		t.Fatalf("expected subtotal 2750, got %d", got)
	}
	if got := Subtotal(nil); got != 0 {
		t.Fatalf("expected zero subtotal for no lines, got %d", got)
	}
}

func TestShippingFeeStandardThreshold(t *testing.T) {
	t.Parallel()

	if got := ShippingFee(4999, enums.ShippingMethodStandard, testRates); got != 200 {
		t.Fatalf("expected standard fee below threshold, got %d", got)
	}
	// Free shipping kicks in at exactly the threshold.
	if got := ShippingFee(5000, enums.ShippingMethodStandard, testRates); got != 0 {
		t.Fatalf("expected free shipping at threshold, got %d", got)
	}
}

func TestShippingFeePremiumMethodsAlwaysCharge(t *testing.T) {
	t.Parallel()

	if got := ShippingFee(100000, enums.ShippingMethodExpress, testRates); got != 200 {
		t.Fatalf("expected express fee regardless of subtotal, got %d", got)
	}
	if got := ShippingFee(100000, enums.ShippingMethodSameDay, testRates); got != 500 {
		t.Fatalf("expected same-day fee regardless of subtotal, got %d", got)
	}
}

func TestTaxRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// 18% of 125 is 22.5, which rounds up to 23.
	if got := Tax(125, 18); got != 23 {
		t.Fatalf("expected 23, got %d", got)
	}
	// 18% of 124 is 22.32, which rounds down to 22.
	if got := Tax(124, 18); got != 22 {
		t.Fatalf("expected 22, got %d", got)
	}
	if got := Tax(0, 18); got != 0 {
		t.Fatalf("expected zero tax on zero taxable, got %d", got)
	}
	if got := Tax(1000, 0); got != 0 {
		t.Fatalf("expected zero tax at zero rate, got %d", got)
	}
}

func TestComputeFullBreakdown(t *testing.T) {
	t.Parallel()

	quote := Compute(Inputs{
		Lines:          []Line{{UnitPrice: 10000, Quantity: 2}},
		Discount:       0,
		ShippingMethod: enums.ShippingMethodStandard,
		Rates:          testRates,
	})

	if quote.Subtotal != 20000 {
		t.Fatalf("expected subtotal 20000, got %d", quote.Subtotal)
	}
	if quote.ShippingFee != 0 {
		t.Fatalf("expected free shipping, got %d", quote.ShippingFee)
	}
	if quote.Tax != 3600 {
		t.Fatalf("expected 18%% GST of 3600, got %d", quote.Tax)
	}
	if quote.Total != 23600 {
		t.Fatalf("expected total 23600, got %d", quote.Total)
	}
}

func TestComputeDiscountReducesTaxable(t *testing.T) {
	t.Parallel()

	quote := Compute(Inputs{
		Lines:          []Line{{UnitPrice: 10000, Quantity: 1}},
		Discount:       1000,
		ShippingMethod: enums.ShippingMethodStandard,
		Rates:          testRates,
	})

	if quote.Discount != 1000 {
		t.Fatalf("expected discount 1000, got %d", quote.Discount)
	}
	// GST applies to the discounted goods value, not the raw subtotal.
	if quote.Tax != 1620 {
		t.Fatalf("expected tax on 9000 to be 1620, got %d", quote.Tax)
	}
	if quote.Total != 10620 {
		t.Fatalf("expected total 10620, got %d", quote.Total)
	}
}

func TestComputeClampsDiscount(t *testing.T) {
	t.Parallel()

	quote := Compute(Inputs{
		Lines:          []Line{{UnitPrice: 500, Quantity: 1}},
		Discount:       2000,
		ShippingMethod: enums.ShippingMethodStandard,
		Rates:          testRates,
	})

	if quote.Discount != 500 {
		t.Fatalf("expected discount clamped to subtotal, got %d", quote.Discount)
	}
	if quote.Total != quote.ShippingFee {
		t.Fatalf("expected total to be shipping only, got %d", quote.Total)
	}

	negative := Compute(Inputs{
		Lines:          []Line{{UnitPrice: 500, Quantity: 1}},
		Discount:       -100,
		ShippingMethod: enums.ShippingMethodExpress,
		Rates:          testRates,
	})
	if negative.Discount != 0 {
		t.Fatalf("expected negative discount ignored, got %d", negative.Discount)
	}
}

package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Line is one priced cart or order line, in whole rupees.
type Line struct {
	UnitPrice int
	Quantity  int
}

// Inputs bundles everything needed to price an order.
type Inputs struct {
	Lines          []Line
	Discount       int
	ShippingMethod enums.ShippingMethod
	Rates          Rates
}

// Rates carries the storefront money configuration, in whole rupees except
// GSTRatePercent which is a whole percentage.
type Rates struct {
	FreeShippingThreshold int
	StandardShippingFee   int
	ExpressShippingFee    int
	SameDayShippingFee    int
	GSTRatePercent        int
}

// Quote is a full price breakdown. Total is always
// subtotal - discount + shipping + tax, and never negative.
type Quote struct {
	Subtotal    int `json:"subtotal"`
	Discount    int `json:"discount"`
	ShippingFee int `json:"shipping_fee"`
	Tax         int `json:"tax"`
	Total       int `json:"total"`
}

// Subtotal sums unit price times quantity across lines.
func Subtotal(lines []Line) int {
	total := 0
	for _, line := range lines {
		total += line.UnitPrice * line.Quantity
	}
	return total
}

// ShippingFee resolves the delivery charge for a method. Standard shipping is
// free once the subtotal reaches the threshold, inclusive; express and
// same-day always charge.
func ShippingFee(subtotal int, method enums.ShippingMethod, rates Rates) int {
	switch method {
	case enums.ShippingMethodExpress:
		return rates.ExpressShippingFee
	case enums.ShippingMethodSameDay:
		return rates.SameDayShippingFee
	default:
		if subtotal >= rates.FreeShippingThreshold {
			return 0
		}
		return rates.StandardShippingFee
	}
}

// Tax computes GST on the discounted goods value, rounded half-up to the
// nearest rupee. Shipping is not taxed.
func Tax(taxable int, ratePercent int) int {
	if taxable <= 0 || ratePercent <= 0 {
		return 0
	}
	d := decimal.NewFromInt(int64(taxable)).
		Mul(decimal.NewFromInt(int64(ratePercent))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return int(d.IntPart())
}

// Compute prices the full order. The discount is clamped to the subtotal so
// the goods value can never go negative.
func Compute(in Inputs) Quote {
	subtotal := Subtotal(in.Lines)

	discount := in.Discount
	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	taxable := subtotal - discount
	shipping := ShippingFee(subtotal, in.ShippingMethod, in.Rates)
	tax := Tax(taxable, in.Rates.GSTRatePercent)

	return Quote{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       taxable + shipping + tax,
	}
}

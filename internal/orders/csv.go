package orders

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
)

var exportHeader = []string{
	"order_number", "date", "customer_name", "customer_email", "customer_phone",
	"items", "subtotal", "discount", "coupon_code", "shipping_fee", "tax", "total",
	"payment_method", "payment_status", "fulfillment_status", "tracking_number",
	"shipping_city", "shipping_state", "shipping_pincode",
}

// ExportCSV renders orders as a CSV document. encoding/csv quotes fields
// containing commas or quotes, so item names and addresses cannot break
// columns.
func ExportCSV(rows []models.Order) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, order := range rows {
		record := []string{
			order.OrderNumber,
			order.CreatedAt.UTC().Format(time.RFC3339),
			order.CustomerName,
			order.CustomerEmail,
			order.CustomerPhone,
			itemsColumn(order.Items),
			fmt.Sprintf("%d", order.Subtotal),
			fmt.Sprintf("%d", order.Discount),
			stringOrEmpty(order.CouponCode),
			fmt.Sprintf("%d", order.ShippingFee),
			fmt.Sprintf("%d", order.Tax),
			fmt.Sprintf("%d", order.Total),
			order.PaymentMethod.String(),
			order.PaymentStatus.String(),
			order.FulfillmentStatus.String(),
			stringOrEmpty(order.TrackingNumber),
			order.ShippingAddress.City,
			order.ShippingAddress.State,
			order.ShippingAddress.Pincode,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func itemsColumn(items []models.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
	}
	return strings.Join(parts, "; ")
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

package orders

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

func TestExportCSVHeaderOnly(t *testing.T) {
	t.Parallel()

	payload, err := ExportCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
	if records[0][0] != "order_number" {
		t.Fatalf("unexpected first column: %s", records[0][0])
	}
}

func TestExportCSVQuotesEmbeddedCommas(t *testing.T) {
	t.Parallel()

	coupon := "WELCOME10"
	order := models.Order{
		OrderNumber:   "LUM-20260830-001",
		CustomerName:  `Asha "Ash" Rao, Jr.`,
		CustomerEmail: "asha@example.com",
		CustomerPhone: "+919800000000",
		Items: []models.OrderItem{
			{Name: "Solitaire Ring, 18K Gold", Quantity: 1},
			{Name: "Pearl Studs", Quantity: 2},
		},
		Subtotal:          25000,
		Discount:          2500,
		CouponCode:        &coupon,
		ShippingFee:       0,
		Tax:               4050,
		Total:             26550,
		PaymentMethod:     enums.PaymentMethodUPI,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
		ShippingAddress: types.Address{
			City:    "Mumbai, Bandra West",
			State:   "Maharashtra",
			Pincode: "400050",
		},
		CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}

	payload, err := ExportCSV([]models.Order{order})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(records))
	}

	row := records[1]
	if len(row) != len(records[0]) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(records[0]))
	}
	if row[0] != "LUM-20260830-001" {
		t.Fatalf("unexpected order number column: %s", row[0])
	}
	if row[2] != `Asha "Ash" Rao, Jr.` {
		t.Fatalf("customer name mangled: %s", row[2])
	}
	if row[5] != "Solitaire Ring, 18K Gold x1; Pearl Studs x2" {
		t.Fatalf("unexpected items column: %s", row[5])
	}
	if row[8] != "WELCOME10" {
		t.Fatalf("unexpected coupon column: %s", row[8])
	}
	if row[16] != "Mumbai, Bandra West" {
		t.Fatalf("unexpected city column: %s", row[16])
	}
}

func TestExportCSVEmptyOptionalColumns(t *testing.T) {
	t.Parallel()

	order := models.Order{
		OrderNumber:       "LUM-20260830-002",
		PaymentMethod:     enums.PaymentMethodCOD,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: enums.FulfillmentStatusPending,
		CreatedAt:         time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
	}

	payload, err := ExportCSV([]models.Order{order})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	row := records[1]
	if row[8] != "" {
		t.Fatalf("expected empty coupon column, got %q", row[8])
	}
	if row[15] != "" {
		t.Fatalf("expected empty tracking column, got %q", row[15])
	}
}

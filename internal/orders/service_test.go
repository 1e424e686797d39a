package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

type ordersTestTx struct {
	db *gorm.DB
}

func (t ordersTestTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:orderstest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  short_description TEXT NOT NULL DEFAULT '',
  category_id TEXT,
  images TEXT NOT NULL DEFAULT '{}',
  primary_image TEXT NOT NULL DEFAULT '',
  original_price INTEGER NOT NULL,
  sale_price INTEGER,
  cost_price INTEGER NOT NULL DEFAULT 0,
  metal_types TEXT NOT NULL DEFAULT '{}',
  stone_type TEXT NOT NULL DEFAULT 'no-stone',
  ring_sizes TEXT NOT NULL DEFAULT '{}',
  tags TEXT NOT NULL DEFAULT '{}',
  stock INTEGER NOT NULL DEFAULT 0,
  low_stock_threshold INTEGER NOT NULL DEFAULT 2,
  status TEXT NOT NULL DEFAULT 'draft',
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_new_arrival INTEGER NOT NULL DEFAULT 0,
  made_to_order INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  care_instructions TEXT NOT NULL DEFAULT '',
  material_details TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  metal_type TEXT NOT NULL,
  ring_size TEXT,
  stock INTEGER NOT NULL DEFAULT 0,
  price_adjustment INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL DEFAULT '',
  shipping_address TEXT NOT NULL,
  subtotal INTEGER NOT NULL,
  discount INTEGER NOT NULL DEFAULT 0,
  coupon_code TEXT,
  shipping_fee INTEGER NOT NULL DEFAULT 0,
  tax INTEGER NOT NULL DEFAULT 0,
  total INTEGER NOT NULL,
  shipping_method TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  fulfillment_status TEXT NOT NULL DEFAULT 'pending',
  tracking_number TEXT,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT NOT NULL DEFAULT '',
  metal_type TEXT NOT NULL,
  ring_size TEXT,
  unit_price INTEGER NOT NULL,
  quantity INTEGER NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS order_timeline_entries (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  note TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`,
	}
	for _, stmt := range schemas {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		tables := []string{"order_timeline_entries", "order_items", "orders", "product_variants", "products"}
		for _, table := range tables {
			db.Exec("DELETE FROM " + table)
		}
	})

	return db
}

func newOrdersTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(db),
		catalog.NewRepository(db),
		ordersTestTx{db: db},
		logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard}),
	)
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, status enums.FulfillmentStatus) *models.Order {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Pearl Studs",
		Slug:          "pearl-studs-" + uuid.NewString()[:8],
		OriginalPrice: 4500,
		Stock:         3,
		Status:        enums.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		MetalType: enums.MetalTypeSilver925,
		Stock:     3,
	}
	require.NoError(t, db.Create(variant).Error)

	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "LUM-20260831-" + uuid.NewString()[:3],
		CustomerID:    uuid.New(),
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		ShippingAddress: types.Address{
			Name:         "Asha Rao",
			Phone:        "9876543210",
			AddressLine1: "14 MG Road",
			City:         "Bengaluru",
			State:        "Karnataka",
			Pincode:      "560001",
			Country:      "India",
		},
		Subtotal:          9000,
		Total:             10620,
		Tax:               1620,
		ShippingMethod:    enums.ShippingMethodStandard,
		PaymentMethod:     enums.PaymentMethodUPI,
		PaymentStatus:     enums.PaymentStatusPending,
		FulfillmentStatus: status,
		Items: []models.OrderItem{{
			ID:        uuid.New(),
			ProductID: product.ID,
			VariantID: variant.ID,
			Name:      product.Name,
			MetalType: variant.MetalType,
			UnitPrice: 4500,
			Quantity:  2,
		}},
		Timeline: []models.OrderTimelineEntry{{
			ID:     uuid.New(),
			Status: status,
			Note:   "order placed",
		}},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestUpdateStatusAdvancesAndAppendsTimeline(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusPending)

	updated, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID,
		Status:  enums.FulfillmentStatusProcessing,
		Note:    "packing started",
	})
	require.NoError(t, err)
	require.Equal(t, enums.FulfillmentStatusProcessing, updated.FulfillmentStatus)
	require.Len(t, updated.Timeline, 2)
	require.Equal(t, enums.FulfillmentStatusProcessing, updated.Timeline[1].Status)
	require.Equal(t, "packing started", updated.Timeline[1].Note)
}

func TestUpdateStatusRejectsIllegalJump(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusPending)

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID,
		Status:  enums.FulfillmentStatusDelivered,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusCancelRestoresStock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusProcessing)
	productID := order.Items[0].ProductID

	updated, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID,
		Status:  enums.FulfillmentStatusCancelled,
		Note:    "customer request",
	})
	require.NoError(t, err)
	require.Equal(t, enums.FulfillmentStatusCancelled, updated.FulfillmentStatus)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	require.Equal(t, 5, product.Stock)
}

func TestUpdateStatusCancelSkipsMadeToOrderRestock(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusProcessing)
	productID := order.Items[0].ProductID
	variantID := order.Items[0].VariantID

	// Made-to-order pieces carry no reserved stock to return.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]any{"made_to_order": true, "stock": 0}).Error)
	require.NoError(t, db.Model(&models.ProductVariant{}).Where("id = ?", variantID).
		Update("stock", 0).Error)

	_, err := svc.UpdateStatus(context.Background(), StatusUpdateInput{
		OrderID: order.ID,
		Status:  enums.FulfillmentStatusCancelled,
	})
	require.NoError(t, err)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", productID).Error)
	require.Equal(t, 0, product.Stock)
	var variant models.ProductVariant
	require.NoError(t, db.First(&variant, "id = ?", variantID).Error)
	require.Equal(t, 0, variant.Stock)
}

func TestUpdatePaymentStatusRefundRequiresPaid(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusPending)

	_, err := svc.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusRefunded)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	_, err = svc.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusPaid)
	require.NoError(t, err)
	refunded, err := svc.UpdatePaymentStatus(context.Background(), order.ID, enums.PaymentStatusRefunded)
	require.NoError(t, err)
	require.Equal(t, enums.PaymentStatusRefunded, refunded.PaymentStatus)
}

func TestSetTrackingMarksShipped(t *testing.T) {
	db := setupOrdersTestDB(t)
	svc := newOrdersTestService(t, db)
	order := seedOrder(t, db, enums.FulfillmentStatusProcessing)

	updated, err := svc.SetTracking(context.Background(), TrackingInput{
		OrderID:        order.ID,
		TrackingNumber: "BLUEDART123",
		MarkShipped:    true,
	})
	require.NoError(t, err)
	require.Equal(t, enums.FulfillmentStatusShipped, updated.FulfillmentStatus)
	require.NotNil(t, updated.TrackingNumber)
	require.Equal(t, "BLUEDART123", *updated.TrackingNumber)
}

package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

type fakeSequencer struct {
	next int64
}

func (f *fakeSequencer) NextOrderSequence(_ context.Context, _ string) (int64, error) {
	f.next++
	return f.next, nil
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:checkouttest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schemas := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'customer',
  birthday DATETIME,
  notes TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  label TEXT NOT NULL DEFAULT '',
  full_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  pincode TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
		`CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  metal_type TEXT NOT NULL,
  ring_size TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id, variant_id)
);`,
		`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  value INTEGER NOT NULL,
  min_order_value INTEGER NOT NULL DEFAULT 0,
  max_uses INTEGER NOT NULL DEFAULT 0,
  used_count INTEGER NOT NULL DEFAULT 0,
  starts_at DATETIME,
  expires_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS store_settings (
  id INTEGER PRIMARY KEY,
  store_name TEXT NOT NULL,
  support_email TEXT NOT NULL DEFAULT '',
  support_phone TEXT NOT NULL DEFAULT '',
  free_shipping_threshold INTEGER NOT NULL,
  standard_shipping_fee INTEGER NOT NULL,
  express_shipping_fee INTEGER NOT NULL,
  same_day_shipping_fee INTEGER NOT NULL,
  gst_rate_percent INTEGER NOT NULL,
  cod_enabled INTEGER NOT NULL DEFAULT 1,
  announcement_text TEXT NOT NULL DEFAULT '',
  announcement_enabled INTEGER NOT NULL DEFAULT 0,
  social_links TEXT NOT NULL DEFAULT '{}',
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
		tables := []string{
			"order_timeline_entries", "order_items", "orders",
			"cart_items", "cart_records", "product_variants", "products",
			"coupons", "store_settings", "addresses", "users",
		}
		for _, table := range tables {
			db.Exec("DELETE FROM " + table)
		}
	})

	return db
}

func newCheckoutTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	settingsSvc, err := settings.NewService(settings.NewRepository(db), config.StoreConfig{
		Name:                  "Lumière Jewels",
		FreeShippingThreshold: 5000,
		StandardShippingFee:   200,
		ExpressShippingFee:    200,
		SameDayShippingFee:    500,
		GSTRatePercent:        18,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		CartRepo:     cart.NewRepository(db),
		CatalogRepo:  catalog.NewRepository(db),
		CouponRepo:   coupons.NewRepository(db),
		OrderRepo:    orders.NewRepository(db),
		CustomerRepo: customers.NewRepository(db),
		SettingsSvc:  settingsSvc,
		Tx:           testTxRunner{db: db},
		Sequencer:    &fakeSequencer{},
		Logger:       logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "x",
		Name:         "Asha Rao",
		Phone:        "9876543210",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCheckoutProduct(t *testing.T, db *gorm.DB, price, stock int) (*models.Product, *models.ProductVariant) {
	t.Helper()
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Solitaire Ring",
		Slug:          "solitaire-ring-" + uuid.NewString()[:8],
		OriginalPrice: price,
		Stock:         stock,
		Status:        enums.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)

	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		MetalType: enums.MetalTypeGold18K,
		Stock:     stock,
	}
	require.NoError(t, db.Create(variant).Error)
	return product, variant
}

func seedCartWithItem(t *testing.T, db *gorm.DB, customerID uuid.UUID, product *models.Product, variant *models.ProductVariant, qty int) {
	t.Helper()
	record := &models.CartRecord{ID: uuid.New(), CustomerID: customerID}
	require.NoError(t, db.Create(record).Error)
	require.NoError(t, db.Create(&models.CartItem{
		ID:        uuid.New(),
		CartID:    record.ID,
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  qty,
		MetalType: variant.MetalType,
	}).Error)
}

func testShippingAddress() types.Address {
	return types.Address{
		Name:         "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "14 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
		Country:      "India",
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)

	_, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodUPI,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderSuccess(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)
	product, variant := seedCheckoutProduct(t, db, 10000, 5)
	seedCartWithItem(t, db, customer.ID, product, variant, 2)

	order, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodUPI,
	})
	require.NoError(t, err)

	wantNumber := fmt.Sprintf("LUM-%s-001", time.Now().UTC().Format("20060102"))
	require.Equal(t, wantNumber, order.OrderNumber)
	require.Equal(t, 20000, order.Subtotal)
	require.Equal(t, 0, order.ShippingFee)
	require.Equal(t, 3600, order.Tax)
	require.Equal(t, 23600, order.Total)
	require.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	require.Equal(t, enums.FulfillmentStatusPending, order.FulfillmentStatus)
	require.Len(t, order.Items, 1)
	require.Equal(t, 10000, order.Items[0].UnitPrice)

	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 3, stored.Stock)

	var storedVariant models.ProductVariant
	require.NoError(t, db.First(&storedVariant, "id = ?", variant.ID).Error)
	require.Equal(t, 3, storedVariant.Stock)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	require.Zero(t, remaining)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)
	product, variant := seedCheckoutProduct(t, db, 8000, 1)
	seedCartWithItem(t, db, customer.ID, product, variant, 2)

	_, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodCard,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// The failed checkout must leave stock and cart untouched.
	var stored models.Product
	require.NoError(t, db.First(&stored, "id = ?", product.ID).Error)
	require.Equal(t, 1, stored.Stock)

	var remaining int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&remaining).Error)
	require.EqualValues(t, 1, remaining)

	var placedOrders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&placedOrders).Error)
	require.Zero(t, placedOrders)
}

func TestPlaceOrderCODDisabled(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)
	product, variant := seedCheckoutProduct(t, db, 8000, 5)
	seedCartWithItem(t, db, customer.ID, product, variant, 1)

	require.NoError(t, db.Create(&models.StoreSettings{
		ID:                    1,
		StoreName:             "Lumière Jewels",
		FreeShippingThreshold: 5000,
		StandardShippingFee:   200,
		ExpressShippingFee:    200,
		SameDayShippingFee:    500,
		GSTRatePercent:        18,
		CODEnabled:            false,
	}).Error)

	_, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodCOD,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestPlaceOrderConsumesCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)
	product, variant := seedCheckoutProduct(t, db, 10000, 5)
	seedCartWithItem(t, db, customer.ID, product, variant, 1)

	coupon := &models.Coupon{
		ID:       uuid.New(),
		Code:     "WELCOME10",
		Type:     enums.CouponTypePercentage,
		Value:    10,
		MaxUses:  1,
		IsActive: true,
	}
	require.NoError(t, db.Create(coupon).Error)

	order, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodExpress,
		PaymentMethod:   enums.PaymentMethodNetBanking,
		CouponCode:      "welcome10",
	})
	require.NoError(t, err)
	require.NotNil(t, order.CouponCode)
	require.Equal(t, "WELCOME10", *order.CouponCode)
	require.Equal(t, 1000, order.Discount)
	require.Equal(t, 200, order.ShippingFee)

	var stored models.Coupon
	require.NoError(t, db.First(&stored, "id = ?", coupon.ID).Error)
	require.Equal(t, 1, stored.UsedCount)
}

func TestPlaceOrderInactiveCustomer(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newCheckoutTestService(t, db)
	customer := seedCustomer(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", customer.ID).Update("is_active", false).Error)

	_, err := svc.PlaceOrder(context.Background(), Input{
		CustomerID:      customer.ID,
		ShippingAddress: testShippingAddress(),
		ShippingMethod:  enums.ShippingMethodStandard,
		PaymentMethod:   enums.PaymentMethodUPI,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

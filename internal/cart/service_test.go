package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:carttest?mode=memory&cache=shared"), &gorm.Config{})
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
	}
	for _, stmt := range schemas {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		for _, table := range []string{"cart_items", "cart_records", "product_variants", "products", "coupons", "store_settings"} {
			db.Exec("DELETE FROM " + table)
		}
	})

	return db
}

var cartTestStoreDefaults = config.StoreConfig{
	Name:                  "Lumière Jewels",
	FreeShippingThreshold: 5000,
	StandardShippingFee:   200,
	ExpressShippingFee:    200,
	SameDayShippingFee:    500,
	GSTRatePercent:        18,
}

func newCartTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	settingsSvc, err := settings.NewService(settings.NewRepository(db), cartTestStoreDefaults)
	require.NoError(t, err)
	couponSvc, err := coupons.NewService(coupons.NewRepository(db))
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		CartRepo:    NewRepository(db),
		CatalogRepo: catalog.NewRepository(db),
		CouponSvc:   couponSvc,
		SettingsSvc: settingsSvc,
	})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, db *gorm.DB, price int) (*models.Product, *models.ProductVariant) {
	t.Helper()

	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Solitaire Ring",
		Slug:          "solitaire-ring-" + uuid.NewString()[:8],
		OriginalPrice: price,
		Stock:         20,
		Status:        enums.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)

	variant := &models.ProductVariant{
		ID:        uuid.New(),
		ProductID: product.ID,
		MetalType: enums.MetalTypeGold18K,
		Stock:     20,
	}
	require.NoError(t, db.Create(variant).Error)
	return product, variant
}

func TestAddItemCreatesAndMergesLines(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 2500)

	view, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   2,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 2, view.Items[0].Quantity)
	require.Equal(t, 5000, view.Quote.Subtotal)

	// Adding the same variant merges into the existing line.
	view, err = svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   3,
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 5, view.Items[0].Quantity)
}

func TestAddItemCapsLineQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 1000)

	view, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   50,
	})
	require.NoError(t, err)
	require.Equal(t, MaxLineQuantity, view.Items[0].Quantity)
}

func TestAddItemRejectsOverStock(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 1000)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock", 3).Error)
	require.NoError(t, db.Model(&models.ProductVariant{}).Where("id = ?", variant.ID).Update("stock", 3).Error)

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   4,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	product, variant := seedProduct(t, db, 1000)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("status", enums.ProductStatusArchived).Error)

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: uuid.New(),
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   1,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 1500)

	view, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   2,
	})
	require.NoError(t, err)
	itemID := view.Items[0].ItemID

	view, err = svc.UpdateQuantity(context.Background(), customerID, itemID, 0)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Equal(t, 0, view.Quote.Subtotal)
}

func TestUpdateQuantityRejectsForeignLine(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	owner := uuid.New()
	intruder := uuid.New()
	product, variant := seedProduct(t, db, 1500)

	view, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: owner,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	// The intruder needs a cart of their own for the ownership check to reach
	// the line comparison.
	_, err = svc.GetCart(context.Background(), intruder)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(context.Background(), intruder, view.Items[0].ItemID, 5)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
}

func TestQuoteAppliesCouponAndShipping(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 10000)

	require.NoError(t, db.Create(&models.Coupon{
		ID:       uuid.New(),
		Code:     "WELCOME10",
		Type:     enums.CouponTypePercentage,
		Value:    10,
		IsActive: true,
	}).Error)

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	quote, err := svc.Quote(context.Background(), QuoteInput{
		CustomerID:     customerID,
		CouponCode:     "WELCOME10",
		ShippingMethod: enums.ShippingMethodStandard,
	})
	require.NoError(t, err)
	require.Equal(t, "WELCOME10", quote.CouponCode)
	require.Equal(t, 10000, quote.Quote.Subtotal)
	require.Equal(t, 1000, quote.Quote.Discount)
	require.Equal(t, 0, quote.Quote.ShippingFee)
	require.Equal(t, 1620, quote.Quote.Tax)
	require.Equal(t, 10620, quote.Quote.Total)
}

func TestQuoteRejectsIneligibleCoupon(t *testing.T) {
	db := setupCartTestDB(t)
	svc := newCartTestService(t, db)
	customerID := uuid.New()
	product, variant := seedProduct(t, db, 1000)

	require.NoError(t, db.Create(&models.Coupon{
		ID:            uuid.New(),
		Code:          "LUMIERE500",
		Type:          enums.CouponTypeFixed,
		Value:         500,
		MinOrderValue: 10000,
		IsActive:      true,
	}).Error)

	_, err := svc.AddItem(context.Background(), AddItemInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		VariantID:  variant.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), QuoteInput{
		CustomerID: customerID,
		CouponCode: "LUMIERE500",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeCouponRejected, typed.Code())
}

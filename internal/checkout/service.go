package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	"github.com/lumiere-jewels/lumiere-backend/internal/pricing"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

// orderNumberPrefix shapes numbers like LUM-20250901-001.
const orderNumberPrefix = "LUM"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequencer interface {
	NextOrderSequence(ctx context.Context, date string) (int64, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	CartRepo     *cart.Repository
	CatalogRepo  *catalog.Repository
	CouponRepo   *coupons.Repository
	OrderRepo    *orders.Repository
	CustomerRepo *customers.Repository
	SettingsSvc  settings.Service
	Tx           txRunner
	Sequencer    sequencer
	Logger       *logger.Logger
}

// Service turns a cart into an order atomically.
type Service interface {
	PlaceOrder(ctx context.Context, input Input) (*models.Order, error)
}

type service struct {
	cartRepo     *cart.Repository
	catalogRepo  *catalog.Repository
	couponRepo   *coupons.Repository
	orderRepo    *orders.Repository
	customerRepo *customers.Repository
	settingsSvc  settings.Service
	tx           txRunner
	seq          sequencer
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil || params.CatalogRepo == nil || params.CouponRepo == nil ||
		params.OrderRepo == nil || params.CustomerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout repos are required")
	}
	if params.SettingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings service is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Sequencer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order sequencer is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		cartRepo:     params.CartRepo,
		catalogRepo:  params.CatalogRepo,
		couponRepo:   params.CouponRepo,
		orderRepo:    params.OrderRepo,
		customerRepo: params.CustomerRepo,
		settingsSvc:  params.SettingsSvc,
		tx:           params.Tx,
		seq:          params.Sequencer,
		logg:         params.Logger,
		now:          time.Now,
	}, nil
}

// PlaceOrder validates the cart, reserves stock, snapshots prices, and
// creates the order in one transaction. Stock uses compare-and-decrement so
// two simultaneous checkouts cannot oversell; the losing request fails whole
// and nothing is written.
func (s *service) PlaceOrder(ctx context.Context, input Input) (*models.Order, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if !customer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	storeSettings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.PaymentMethod == enums.PaymentMethodCOD && !storeSettings.CODEnabled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cash on delivery is currently unavailable")
	}

	now := s.now()
	var placed *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		catalogRepo := s.catalogRepo.WithTx(tx)
		couponRepo := s.couponRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		record, err := cartRepo.Find(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		items, lines, err := s.reserveItems(ctx, catalogRepo, record.Items)
		if err != nil {
			return err
		}

		subtotal := pricing.Subtotal(lines)
		discount := 0
		var couponCode *string
		if code := strings.TrimSpace(input.CouponCode); code != "" {
			coupon, err := couponRepo.FindByCode(ctx, code)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
			}
			eval := coupons.Evaluate(coupon, subtotal, now)
			if !eval.Applied() {
				return pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon rejected").
					WithDetails(map[string]any{"reason": string(eval.Reason)})
			}
			ok, err := couponRepo.IncrementUsage(ctx, eval.Coupon.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume coupon")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon rejected").
					WithDetails(map[string]any{"reason": string(coupons.ReasonUsageExceeded)})
			}
			discount = eval.Discount
			couponCode = &eval.Coupon.Code
		}

		quote := pricing.Compute(pricing.Inputs{
			Lines:          lines,
			Discount:       discount,
			ShippingMethod: input.ShippingMethod,
			Rates: pricing.Rates{
				FreeShippingThreshold: storeSettings.FreeShippingThreshold,
				StandardShippingFee:   storeSettings.StandardShippingFee,
				ExpressShippingFee:    storeSettings.ExpressShippingFee,
				SameDayShippingFee:    storeSettings.SameDayShippingFee,
				GSTRatePercent:        storeSettings.GSTRatePercent,
			},
		})

		number, err := s.nextOrderNumber(ctx, now)
		if err != nil {
			return err
		}

		order := &models.Order{
			OrderNumber:       number,
			CustomerID:        customer.ID,
			CustomerName:      customer.Name,
			CustomerEmail:     customer.Email,
			CustomerPhone:     customer.Phone,
			ShippingAddress:   input.ShippingAddress,
			Subtotal:          quote.Subtotal,
			Discount:          quote.Discount,
			CouponCode:        couponCode,
			ShippingFee:       quote.ShippingFee,
			Tax:               quote.Tax,
			Total:             quote.Total,
			ShippingMethod:    input.ShippingMethod,
			PaymentMethod:     input.PaymentMethod,
			PaymentStatus:     enums.PaymentStatusPending,
			FulfillmentStatus: enums.FulfillmentStatusPending,
			Notes:             strings.TrimSpace(input.Notes),
			Items:             items,
			Timeline: []models.OrderTimelineEntry{
				{Status: enums.FulfillmentStatusPending, Note: "order placed"},
			},
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := cartRepo.ClearItems(ctx, record.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderNumber(s.logg.WithCustomerID(ctx, customer.ID.String()), placed.OrderNumber)
	s.logg.Info(ctx, "order placed")
	return placed, nil
}

// reserveItems snapshots every cart line and decrements stock. A stale line
// (missing product/variant or inactive listing) aborts the checkout with the
// offending product in details.
func (s *service) reserveItems(ctx context.Context, catalogRepo *catalog.Repository, cartItems []models.CartItem) ([]models.OrderItem, []pricing.Line, error) {
	items := make([]models.OrderItem, 0, len(cartItems))
	lines := make([]pricing.Line, 0, len(cartItems))

	for _, cartItem := range cartItems {
		product, err := catalogRepo.FindProductByID(ctx, cartItem.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, staleLineError(cartItem.ProductID)
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.IsPurchasable() {
			return nil, nil, staleLineError(product.ID)
		}

		variant, err := catalogRepo.FindVariantByID(ctx, cartItem.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, staleLineError(product.ID)
			}
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
		if variant.ProductID != product.ID {
			return nil, nil, staleLineError(product.ID)
		}

		if !product.MadeToOrder {
			ok, err := catalogRepo.DecrementStock(ctx, product.ID, cartItem.Quantity)
			if err != nil {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
			if !ok {
				return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"product_id": product.ID})
			}
			ok, err = catalogRepo.DecrementVariantStock(ctx, variant.ID, cartItem.Quantity)
			if err != nil {
				return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve variant stock")
			}
			if !ok {
				return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{"product_id": product.ID})
			}
		}

		unitPrice := product.EffectivePrice() + variant.PriceAdjustment
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			VariantID: variant.ID,
			Name:      product.Name,
			Image:     product.PrimaryImage,
			MetalType: cartItem.MetalType,
			RingSize:  cartItem.RingSize,
			UnitPrice: unitPrice,
			Quantity:  cartItem.Quantity,
		})
		lines = append(lines, pricing.Line{UnitPrice: unitPrice, Quantity: cartItem.Quantity})
	}

	return items, lines, nil
}

// nextOrderNumber builds LUM-YYYYMMDD-NNN from a per-day Redis counter, so
// numbers stay monotonic under concurrent checkouts.
func (s *service) nextOrderNumber(ctx context.Context, now time.Time) (string, error) {
	date := now.UTC().Format("20060102")
	seq, err := s.seq.NextOrderSequence(ctx, date)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
	}
	return fmt.Sprintf("%s-%s-%03d", orderNumberPrefix, date, seq), nil
}

func (s *service) validateInput(input Input) error {
	if input.CustomerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if missing := input.ShippingAddress.Validate(); len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	return nil
}

func staleLineError(productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "cart contains unavailable items").
		WithDetails(map[string]any{"product_id": productID})
}

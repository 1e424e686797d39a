package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/pricing"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
)

// MaxLineQuantity caps one cart line; jewelry orders are small.
const MaxLineQuantity = 10

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	CatalogRepo *catalog.Repository
	CouponSvc   coupons.Service
	SettingsSvc settings.Service
}

// Service exposes business rules for cart management and pricing.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (View, error)
	AddItem(ctx context.Context, input AddItemInput) (View, error)
	UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (View, error)
	RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	Quote(ctx context.Context, input QuoteInput) (QuoteView, error)
}

type service struct {
	cartRepo    *Repository
	catalogRepo *catalog.Repository
	couponSvc   coupons.Service
	settingsSvc settings.Service
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.CouponSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon service is required")
	}
	if params.SettingsSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings service is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		catalogRepo: params.CatalogRepo,
		couponSvc:   params.CouponSvc,
		settingsSvc: params.SettingsSvc,
	}, nil
}

// GetCart assembles the customer's cart with live product data. Lines whose
// product went inactive or whose variant disappeared are flagged stale, not
// silently dropped.
func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (View, error) {
	if customerID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	record, err := s.cartRepo.FindOrCreate(ctx, customerID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.assemble(ctx, record, enums.ShippingMethodStandard, 0)
}

// AddItem merges quantity into an existing (product, variant) line or creates
// a new one. Only active, in-stock products can enter the cart.
func (s *service) AddItem(ctx context.Context, input AddItemInput) (View, error) {
	if input.CustomerID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.ProductID == uuid.Nil || input.VariantID == uuid.Nil {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "product id and variant id are required")
	}
	if input.Quantity <= 0 {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.catalogRepo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPurchasable() {
		return View{}, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available").
			WithDetails(map[string]any{"product_id": input.ProductID})
	}

	variant, err := s.catalogRepo.FindVariantByID(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return View{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != product.ID {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
	}

	record, err := s.cartRepo.FindOrCreate(ctx, input.CustomerID)
	if err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	existing, err := s.cartRepo.FindLine(ctx, record.ID, input.ProductID, input.VariantID)
	switch {
	case err == nil:
		merged := existing.Quantity + input.Quantity
		if merged > MaxLineQuantity {
			merged = MaxLineQuantity
		}
		if err := checkLineStock(product, variant, merged); err != nil {
			return View{}, err
		}
		if err := s.cartRepo.UpdateLineQuantity(ctx, existing.ID, merged); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		quantity := input.Quantity
		if quantity > MaxLineQuantity {
			quantity = MaxLineQuantity
		}
		if err := checkLineStock(product, variant, quantity); err != nil {
			return View{}, err
		}
		line := &models.CartItem{
			CartID:    record.ID,
			ProductID: input.ProductID,
			VariantID: input.VariantID,
			Quantity:  quantity,
			MetalType: variant.MetalType,
			RingSize:  variant.RingSize,
		}
		if err := s.cartRepo.CreateLine(ctx, line); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
		}
	default:
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}

	return s.GetCart(ctx, input.CustomerID)
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line, the
// same outcome as RemoveItem.
func (s *service) UpdateQuantity(ctx context.Context, customerID, itemID uuid.UUID, quantity int) (View, error) {
	line, err := s.ownedLine(ctx, customerID, itemID)
	if err != nil {
		return View{}, err
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteLine(ctx, line.ID); err != nil {
			return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return s.GetCart(ctx, customerID)
	}

	if quantity > MaxLineQuantity {
		quantity = MaxLineQuantity
	}
	if err := s.cartRepo.UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	return s.GetCart(ctx, customerID)
}

// RemoveItem deletes one line from the customer's cart.
func (s *service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) (View, error) {
	line, err := s.ownedLine(ctx, customerID, itemID)
	if err != nil {
		return View{}, err
	}
	if err := s.cartRepo.DeleteLine(ctx, line.ID); err != nil {
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.GetCart(ctx, customerID)
}

// Clear empties the customer's cart.
func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	record, err := s.cartRepo.Find(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.cartRepo.ClearItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Quote prices the cart with the optional coupon and shipping method. Stale
// lines block the quote so the customer fixes the cart first.
func (s *service) Quote(ctx context.Context, input QuoteInput) (QuoteView, error) {
	if input.CustomerID == uuid.Nil {
		return QuoteView{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	method := input.ShippingMethod
	if method == "" {
		method = enums.ShippingMethodStandard
	}
	if !method.IsValid() {
		return QuoteView{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping method")
	}

	record, err := s.cartRepo.FindOrCreate(ctx, input.CustomerID)
	if err != nil {
		return QuoteView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	view, err := s.assemble(ctx, record, method, 0)
	if err != nil {
		return QuoteView{}, err
	}
	for _, line := range view.Items {
		if line.Stale {
			return QuoteView{}, pkgerrors.New(pkgerrors.CodeStateConflict, "cart contains unavailable items").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
	}

	discount := 0
	code := strings.TrimSpace(input.CouponCode)
	if code != "" {
		eval, err := s.couponSvc.Validate(ctx, code, view.Quote.Subtotal)
		if err != nil {
			return QuoteView{}, err
		}
		discount = eval.Discount
		code = eval.Coupon.Code
	}

	view, err = s.assemble(ctx, record, method, discount)
	if err != nil {
		return QuoteView{}, err
	}
	return QuoteView{View: view, CouponCode: code}, nil
}

// checkLineStock refuses a line quantity the current stock cannot cover.
// Made-to-order products skip the check.
func checkLineStock(product *models.Product, variant *models.ProductVariant, quantity int) error {
	if product.MadeToOrder {
		return nil
	}
	if quantity > product.Stock || quantity > variant.Stock {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]any{"product_id": product.ID})
	}
	return nil
}

func (s *service) ownedLine(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	record, err := s.cartRepo.Find(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	line, err := s.cartRepo.FindLineByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	if line.CartID != record.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item does not belong to customer")
	}
	return line, nil
}

func (s *service) assemble(ctx context.Context, record *models.CartRecord, method enums.ShippingMethod, discount int) (View, error) {
	storeSettings, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return View{}, err
	}

	lines := make([]LineView, 0, len(record.Items))
	priced := make([]pricing.Line, 0, len(record.Items))
	for _, item := range record.Items {
		view, ok, err := s.lineView(ctx, item)
		if err != nil {
			return View{}, err
		}
		lines = append(lines, view)
		if ok {
			priced = append(priced, pricing.Line{UnitPrice: view.UnitPrice, Quantity: view.Quantity})
		}
	}

	quote := pricing.Compute(pricing.Inputs{
		Lines:          priced,
		Discount:       discount,
		ShippingMethod: method,
		Rates: pricing.Rates{
			FreeShippingThreshold: storeSettings.FreeShippingThreshold,
			StandardShippingFee:   storeSettings.StandardShippingFee,
			ExpressShippingFee:    storeSettings.ExpressShippingFee,
			SameDayShippingFee:    storeSettings.SameDayShippingFee,
			GSTRatePercent:        storeSettings.GSTRatePercent,
		},
	})

	return View{CartID: record.ID, Items: lines, Quote: quote}, nil
}

func (s *service) lineView(ctx context.Context, item models.CartItem) (LineView, bool, error) {
	view := LineView{
		ItemID:    item.ID,
		ProductID: item.ProductID,
		VariantID: item.VariantID,
		MetalType: item.MetalType,
		RingSize:  item.RingSize,
		Quantity:  item.Quantity,
	}

	product, err := s.catalogRepo.FindProductByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			view.Stale = true
			return view, false, nil
		}
		return LineView{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart product")
	}

	view.Name = product.Name
	view.Slug = product.Slug
	view.Image = product.PrimaryImage
	if !product.IsPurchasable() {
		view.Stale = true
		return view, false, nil
	}

	variant, err := s.catalogRepo.FindVariantByID(ctx, item.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			view.Stale = true
			return view, false, nil
		}
		return LineView{}, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart variant")
	}

	view.UnitPrice = product.EffectivePrice() + variant.PriceAdjustment
	view.LineTotal = view.UnitPrice * item.Quantity
	view.InStock = product.MadeToOrder || (product.Stock >= item.Quantity && variant.Stock >= item.Quantity)
	return view, true, nil
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateCartItemPayload struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type cartQuotePayload struct {
	CouponCode     string `json:"coupon_code"`
	ShippingMethod string `json:"shipping_method" validate:"required"`
}

// CartFetch returns the caller's cart with live prices.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.GetCart(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds a product variant to the cart, merging duplicate lines.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := parseUUIDString(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		variantID, err := parseUUIDString(payload.VariantID, "variant_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.AddItem(ctx, cart.AddItemInput{
			CustomerID: customerID,
			ProductID:  productID,
			VariantID:  variantID,
			Quantity:   payload.Quantity,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(ctx, customerID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes a cart line.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		itemID, err := parseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.RemoveItem(ctx, customerID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Clear(ctx, customerID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}

// CartQuote prices the cart with a shipping method and optional coupon.
func CartQuote(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload cartQuotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		method, err := enums.ParseShippingMethod(strings.TrimSpace(payload.ShippingMethod))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}

		quote, err := svc.Quote(ctx, cart.QuoteInput{
			CustomerID:     customerID,
			CouponCode:     payload.CouponCode,
			ShippingMethod: method,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

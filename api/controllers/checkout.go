package controllers

import (
	"net/http"
	"strings"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/checkout"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

type checkoutPayload struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	ShippingMethod  string        `json:"shipping_method" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	CouponCode      string        `json:"coupon_code"`
	Notes           string        `json:"notes"`
}

// Checkout converts the caller's cart into an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		shippingMethod, err := enums.ParseShippingMethod(strings.TrimSpace(payload.ShippingMethod))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method"))
			return
		}
		paymentMethod, err := enums.ParsePaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := svc.PlaceOrder(ctx, checkout.Input{
			CustomerID:      customerID,
			ShippingAddress: payload.ShippingAddress,
			ShippingMethod:  shippingMethod,
			PaymentMethod:   paymentMethod,
			CouponCode:      payload.CouponCode,
			Notes:           payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

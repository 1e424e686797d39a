package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type createCouponPayload struct {
	Code          string `json:"code" validate:"required"`
	Type          string `json:"type" validate:"required"`
	Value         int    `json:"value" validate:"required,min=1"`
	MinOrderValue int    `json:"min_order_value" validate:"min=0"`
	MaxUses       int    `json:"max_uses" validate:"min=0"`
	StartsAt      string `json:"starts_at"`
	ExpiresAt     string `json:"expires_at"`
}

type updateCouponPayload struct {
	Value         *int   `json:"value,omitempty"`
	MinOrderValue *int   `json:"min_order_value,omitempty"`
	MaxUses       *int   `json:"max_uses,omitempty"`
	StartsAt      string `json:"starts_at"`
	ExpiresAt     string `json:"expires_at"`
	ClearWindow   bool   `json:"clear_window"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

func parseOptionalRFC3339(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" must be RFC3339")
	}
	return &parsed, nil
}

// AdminCouponList serves all coupons with usage counts.
func AdminCouponList(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminCouponCreate creates a coupon.
func AdminCouponCreate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		var payload createCouponPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		couponType, err := enums.ParseCouponType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon type"))
			return
		}

		input := coupons.CreateInput{
			Code:          payload.Code,
			Type:          couponType,
			Value:         payload.Value,
			MinOrderValue: payload.MinOrderValue,
			MaxUses:       payload.MaxUses,
		}
		if input.StartsAt, err = parseOptionalRFC3339(payload.StartsAt, "starts_at"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.ExpiresAt, err = parseOptionalRFC3339(payload.ExpiresAt, "expires_at"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		coupon, err := svc.Create(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

// AdminCouponUpdate edits a coupon; the code itself is immutable.
func AdminCouponUpdate(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "couponId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCouponPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := coupons.UpdateInput{
			Value:         payload.Value,
			MinOrderValue: payload.MinOrderValue,
			MaxUses:       payload.MaxUses,
			ClearWindow:   payload.ClearWindow,
			IsActive:      payload.IsActive,
		}
		if input.StartsAt, err = parseOptionalRFC3339(payload.StartsAt, "starts_at"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if input.ExpiresAt, err = parseOptionalRFC3339(payload.ExpiresAt, "expires_at"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		coupon, err := svc.Update(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

// AdminCouponDelete removes a coupon.
func AdminCouponDelete(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupons service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "couponId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

package controllers

import (
	"net/http"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

type settingsPayload struct {
	StoreName             *string            `json:"store_name,omitempty"`
	SupportEmail          *string            `json:"support_email,omitempty" validate:"omitempty,email"`
	SupportPhone          *string            `json:"support_phone,omitempty"`
	FreeShippingThreshold *int               `json:"free_shipping_threshold,omitempty"`
	StandardShippingFee   *int               `json:"standard_shipping_fee,omitempty"`
	ExpressShippingFee    *int               `json:"express_shipping_fee,omitempty"`
	SameDayShippingFee    *int               `json:"same_day_shipping_fee,omitempty"`
	GSTRatePercent        *int               `json:"gst_rate_percent,omitempty"`
	CODEnabled            *bool              `json:"cod_enabled,omitempty"`
	AnnouncementText      *string            `json:"announcement_text,omitempty"`
	AnnouncementEnabled   *bool              `json:"announcement_enabled,omitempty"`
	SocialLinks           *types.SocialLinks `json:"social_links,omitempty"`
}

// StorefrontSettings serves the public settings the storefront needs to
// render: shipping fees, GST rate, COD availability, announcement bar.
func StorefrontSettings(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		row, err := svc.Get(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"store_name":              row.StoreName,
			"free_shipping_threshold": row.FreeShippingThreshold,
			"standard_shipping_fee":   row.StandardShippingFee,
			"express_shipping_fee":    row.ExpressShippingFee,
			"same_day_shipping_fee":   row.SameDayShippingFee,
			"gst_rate_percent":        row.GSTRatePercent,
			"cod_enabled":             row.CODEnabled,
			"announcement_text":       row.AnnouncementText,
			"announcement_enabled":    row.AnnouncementEnabled,
			"social_links":            row.SocialLinks,
		})
	}
}

// AdminSettingsGet serves the full settings row for the console.
func AdminSettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		row, err := svc.Get(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// AdminSettingsUpdate applies a partial settings edit.
func AdminSettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload settingsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		row, err := svc.Update(ctx, settings.UpdateInput{
			StoreName:             payload.StoreName,
			SupportEmail:          payload.SupportEmail,
			SupportPhone:          payload.SupportPhone,
			FreeShippingThreshold: payload.FreeShippingThreshold,
			StandardShippingFee:   payload.StandardShippingFee,
			ExpressShippingFee:    payload.ExpressShippingFee,
			SameDayShippingFee:    payload.SameDayShippingFee,
			GSTRatePercent:        payload.GSTRatePercent,
			CODEnabled:            payload.CODEnabled,
			AnnouncementText:      payload.AnnouncementText,
			AnnouncementEnabled:   payload.AnnouncementEnabled,
			SocialLinks:           payload.SocialLinks,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

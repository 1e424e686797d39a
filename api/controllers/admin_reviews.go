package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type moderateReviewPayload struct {
	Status string  `json:"status" validate:"required"`
	Reply  *string `json:"reply,omitempty"`
}

// AdminReviewList serves reviews for moderation, filtered by status and
// optionally by product.
func AdminReviewList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		status := enums.ReviewStatusPending
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseReviewStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review status"))
				return
			}
			status = parsed
		}

		productID := uuid.Nil
		if raw := strings.TrimSpace(r.URL.Query().Get("product_id")); raw != "" {
			parsed, err := parseUUIDString(raw, "product_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			productID = parsed
		}

		page, err := svc.ListReviews(ctx, productID, status, paginationParams(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminReviewModerate approves or rejects a review, optionally with a public
// reply.
func AdminReviewModerate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "reviewId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload moderateReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParseReviewStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid review status"))
			return
		}

		review, err := svc.ModerateReview(ctx, id, status, payload.Reply)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

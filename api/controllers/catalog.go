package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// ProductList serves the public catalog with filters, sorting, and cursor
// pagination. Only active products are visible here.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		filters, params, err := parseProductQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.Status = enums.ProductStatusActive

		page, err := svc.ListProducts(ctx, filters, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail serves a single product by slug, variants included.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetProductBySlug(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if product.Status != enums.ProductStatusActive {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CategoryList serves the active category tree.
func CategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(ctx, true)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ReviewList serves approved reviews for one product.
func ReviewList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.ListReviews(ctx, productID, enums.ReviewStatusApproved, paginationParams(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

type createReviewPayload struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text"`
}

// ReviewCreate submits a review; it stays pending until moderated.
func ReviewCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createReviewPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		review, err := svc.CreateReview(ctx, catalog.ReviewInput{
			ProductID:  productID,
			CustomerID: customerID,
			Rating:     payload.Rating,
			Text:       payload.Text,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

func parseProductQuery(r *http.Request) (catalog.ProductFilters, pagination.Params, error) {
	query := r.URL.Query()
	filters := catalog.ProductFilters{
		CategorySlug: strings.TrimSpace(query.Get("category")),
		Search:       strings.TrimSpace(query.Get("search")),
		Featured:     query.Get("featured") == "true",
		NewArrival:   query.Get("new_arrival") == "true",
		Sort:         strings.TrimSpace(query.Get("sort")),
	}

	if raw := strings.TrimSpace(query.Get("metal_type")); raw != "" {
		metal, err := enums.ParseMetalType(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metal type")
		}
		filters.MetalType = metal
	}
	if raw := strings.TrimSpace(query.Get("stone_type")); raw != "" {
		stone, err := enums.ParseStoneType(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stone type")
		}
		filters.StoneType = stone
	}
	if raw := strings.TrimSpace(query.Get("tags")); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filters.Tags = append(filters.Tags, tag)
			}
		}
	}

	minPrice, err := validators.ParseQueryInt(r, "min_price", 0, 0, 100000000)
	if err != nil {
		return filters, pagination.Params{}, err
	}
	maxPrice, err := validators.ParseQueryInt(r, "max_price", 0, 0, 100000000)
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.MinPrice = minPrice
	filters.MaxPrice = maxPrice

	return filters, paginationParams(r), nil
}

func paginationParams(r *http.Request) pagination.Params {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
	if err != nil {
		limit = 0
	}
	return pagination.Params{
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		Limit:  limit,
	}
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}


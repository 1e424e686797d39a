package controllers

import (
	"net/http"
	"strings"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type variantPayload struct {
	MetalType       string  `json:"metal_type" validate:"required"`
	RingSize        *string `json:"ring_size,omitempty"`
	Stock           int     `json:"stock" validate:"min=0"`
	PriceAdjustment int     `json:"price_adjustment"`
}

type productPayload struct {
	Name              string           `json:"name" validate:"required"`
	Slug              string           `json:"slug" validate:"required"`
	Description       string           `json:"description"`
	ShortDescription  string           `json:"short_description"`
	CategoryID        *string          `json:"category_id,omitempty"`
	Images            []string         `json:"images"`
	PrimaryImage      string           `json:"primary_image"`
	OriginalPrice     int              `json:"original_price" validate:"required,min=1"`
	SalePrice         *int             `json:"sale_price,omitempty"`
	CostPrice         int              `json:"cost_price" validate:"min=0"`
	MetalTypes        []string         `json:"metal_types"`
	StoneType         string           `json:"stone_type"`
	RingSizes         []string         `json:"ring_sizes"`
	Tags              []string         `json:"tags"`
	Stock             int              `json:"stock" validate:"min=0"`
	LowStockThreshold int              `json:"low_stock_threshold" validate:"min=0"`
	Status            string           `json:"status"`
	IsFeatured        bool             `json:"is_featured"`
	IsNewArrival      bool             `json:"is_new_arrival"`
	MadeToOrder       bool             `json:"made_to_order"`
	CareInstructions  string           `json:"care_instructions"`
	MaterialDetails   string           `json:"material_details"`
	Variants          []variantPayload `json:"variants"`
}

type stockAdjustmentPayload struct {
	VariantID *string `json:"variant_id,omitempty"`
	Delta     int     `json:"delta" validate:"required"`
	Reason    string  `json:"reason" validate:"required"`
}

// AdminProductList serves the console catalog, including drafts and archived
// products.
func AdminProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseProductStatus(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = status
		}
		filters.LowStockOnly = r.URL.Query().Get("low_stock") == "true"

		page, err := svc.ListProducts(ctx, filters, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminProductDetail serves one product by ID for the console.
func AdminProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductCreate creates a product with its variants.
func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := productInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.CreateProduct(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate overwrites a product and replaces its variants.
func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := productInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminProductArchive soft-retires a product; it stays on past orders.
func AdminProductArchive(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.ArchiveProduct(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"archived": true})
	}
}

// AdminStockAdjust applies a signed stock delta with an audit reason.
func AdminStockAdjust(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload stockAdjustmentPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		adjustment := catalog.StockAdjustment{
			ProductID: productID,
			Delta:     payload.Delta,
			Reason:    payload.Reason,
		}
		if payload.VariantID != nil {
			variantID, err := parseUUIDString(*payload.VariantID, "variant_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			adjustment.VariantID = &variantID
		}

		product, err := svc.AdjustStock(ctx, adjustment)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminLowStock lists products at or below their low stock threshold.
func AdminLowStock(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		items, err := svc.ListLowStock(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func productInputFromPayload(payload productPayload) (catalog.ProductInput, error) {
	input := catalog.ProductInput{
		Name:              payload.Name,
		Slug:              payload.Slug,
		Description:       payload.Description,
		ShortDescription:  payload.ShortDescription,
		Images:            payload.Images,
		PrimaryImage:      payload.PrimaryImage,
		OriginalPrice:     payload.OriginalPrice,
		SalePrice:         payload.SalePrice,
		CostPrice:         payload.CostPrice,
		RingSizes:         payload.RingSizes,
		Tags:              payload.Tags,
		Stock:             payload.Stock,
		LowStockThreshold: payload.LowStockThreshold,
		IsFeatured:        payload.IsFeatured,
		IsNewArrival:      payload.IsNewArrival,
		MadeToOrder:       payload.MadeToOrder,
		CareInstructions:  payload.CareInstructions,
		MaterialDetails:   payload.MaterialDetails,
	}

	if payload.CategoryID != nil {
		categoryID, err := parseUUIDString(*payload.CategoryID, "category_id")
		if err != nil {
			return input, err
		}
		input.CategoryID = &categoryID
	}

	for _, raw := range payload.MetalTypes {
		metal, err := enums.ParseMetalType(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid metal type")
		}
		input.MetalTypes = append(input.MetalTypes, metal)
	}

	if raw := strings.TrimSpace(payload.StoneType); raw != "" {
		stone, err := enums.ParseStoneType(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stone type")
		}
		input.StoneType = stone
	}

	if raw := strings.TrimSpace(payload.Status); raw != "" {
		status, err := enums.ParseProductStatus(raw)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}

	for _, variant := range payload.Variants {
		metal, err := enums.ParseMetalType(variant.MetalType)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant metal type")
		}
		input.Variants = append(input.Variants, catalog.VariantInput{
			MetalType:       metal,
			RingSize:        variant.RingSize,
			Stock:           variant.Stock,
			PriceAdjustment: variant.PriceAdjustment,
		})
	}

	return input, nil
}

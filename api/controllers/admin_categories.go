package controllers

import (
	"net/http"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type categoryPayload struct {
	Name         string  `json:"name" validate:"required"`
	Slug         string  `json:"slug" validate:"required"`
	Description  string  `json:"description"`
	ParentID     *string `json:"parent_id,omitempty"`
	CoverImage   string  `json:"cover_image"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}

// AdminCategoryList serves all categories, active or not.
func AdminCategoryList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(ctx, false)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// AdminCategoryCreate creates a category.
func AdminCategoryCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload categoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := categoryInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		category, err := svc.CreateCategory(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminCategoryUpdate overwrites a category.
func AdminCategoryUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload categoryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := categoryInputFromPayload(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// AdminCategoryDelete removes a category; its products keep no category.
func AdminCategoryDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "categoryId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteCategory(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func categoryInputFromPayload(payload categoryPayload) (catalog.CategoryInput, error) {
	input := catalog.CategoryInput{
		Name:         payload.Name,
		Slug:         payload.Slug,
		Description:  payload.Description,
		CoverImage:   payload.CoverImage,
		DisplayOrder: payload.DisplayOrder,
		IsActive:     payload.IsActive,
	}
	if payload.ParentID != nil {
		parentID, err := parseUUIDString(*payload.ParentID, "parent_id")
		if err != nil {
			return input, err
		}
		input.ParentID = &parentID
	}
	return input, nil
}

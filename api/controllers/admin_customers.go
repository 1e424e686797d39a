package controllers

import (
	"net/http"
	"strings"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type adminCustomerPayload struct {
	Notes    *string `json:"notes,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AdminCustomerList serves the console customer list.
func AdminCustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		search := strings.TrimSpace(r.URL.Query().Get("search"))
		page, err := svc.List(ctx, search, paginationParams(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items := make([]*customers.UserDTO, 0, len(page.Items))
		for i := range page.Items {
			items = append(items, customers.FromModel(&page.Items[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"items":       items,
			"next_cursor": page.NextCursor,
			"total":       page.Total,
		})
	}
}

// AdminCustomerDetail serves one customer with their address book.
func AdminCustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.FromModel(user))
	}
}

// AdminCustomerUpdate edits console-only customer fields.
func AdminCustomerUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adminCustomerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.AdminUpdate(ctx, id, customers.AdminUpdateInput{
			Notes:    payload.Notes,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.FromModel(user))
	}
}

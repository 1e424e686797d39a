package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

// OrderList returns the caller's order history, newest first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.ListForCustomer(ctx, customerID, paginationParams(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// OrderDetail returns one of the caller's orders by order number.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		number := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if number == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		order, err := svc.GetByNumber(ctx, number)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if order.CustomerID != customerID {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}
		responses.WriteSuccess(w, order)
	}
}

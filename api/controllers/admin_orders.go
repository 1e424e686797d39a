package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type orderStatusPayload struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

type paymentStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

type trackingPayload struct {
	TrackingNumber string `json:"tracking_number" validate:"required"`
	MarkShipped    bool   `json:"mark_shipped"`
}

// AdminOrderList serves the console order list with filters.
func AdminOrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		page, err := svc.List(ctx, filters, paginationParams(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminOrderDetail serves one order with items and timeline.
func AdminOrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderUpdateStatus advances an order through the fulfillment flow.
func AdminOrderUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload orderStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParseFulfillmentStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment status"))
			return
		}

		order, err := svc.UpdateStatus(ctx, orders.StatusUpdateInput{
			OrderID: id,
			Status:  status,
			Note:    payload.Note,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderUpdatePayment sets the payment status.
func AdminOrderUpdatePayment(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload paymentStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParsePaymentStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status"))
			return
		}

		order, err := svc.UpdatePaymentStatus(ctx, id, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderSetTracking attaches a tracking number, optionally marking the
// order shipped in the same call.
func AdminOrderSetTracking(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload trackingPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.SetTracking(ctx, orders.TrackingInput{
			OrderID:        id,
			TrackingNumber: payload.TrackingNumber,
			MarkShipped:    payload.MarkShipped,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminOrderExport streams the filtered order list as CSV.
func AdminOrderExport(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		filters, err := parseOrderFilters(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload, err := svc.ExportCSV(ctx, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filename := "orders-" + time.Now().UTC().Format("20060102") + ".csv"
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	}
}

// AdminOrderSummary serves dashboard order counts and revenue.
func AdminOrderSummary(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		summary, err := svc.Summarize(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

func parseOrderFilters(r *http.Request) (orders.Filters, error) {
	query := r.URL.Query()
	filters := orders.Filters{
		Search: strings.TrimSpace(query.Get("search")),
	}

	if raw := strings.TrimSpace(query.Get("fulfillment_status")); raw != "" {
		status, err := enums.ParseFulfillmentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment status")
		}
		filters.FulfillmentStatus = status
	}
	if raw := strings.TrimSpace(query.Get("payment_status")); raw != "" {
		status, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment status")
		}
		filters.PaymentStatus = status
	}
	if raw := strings.TrimSpace(query.Get("customer_id")); raw != "" {
		customerID, err := parseUUIDString(raw, "customer_id")
		if err != nil {
			return filters, err
		}
		filters.CustomerID = customerID
	}
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "from must be YYYY-MM-DD")
		}
		filters.From = from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "to must be YYYY-MM-DD")
		}
		filters.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	return filters, nil
}

package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order reads, the fulfillment state machine, and exports.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, number string) (*models.Order, error)
	List(ctx context.Context, filters Filters, params pagination.Params) (Page, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (Page, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Order, error)
	SetTracking(ctx context.Context, input TrackingInput) (*models.Order, error)
	ExportCSV(ctx context.Context, filters Filters) ([]byte, error)
	Summarize(ctx context.Context) (Summary, error)
}

type service struct {
	repo        *Repository
	catalogRepo *catalog.Repository
	tx          txRunner
	logg        *logger.Logger
}

// NewService builds an orders service with the required dependencies.
func NewService(repo *Repository, catalogRepo *catalog.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repo is required")
	}
	if catalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: repo, catalogRepo: catalogRepo, tx: tx, logg: logg}, nil
}

// Get loads a single order with items and timeline.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// GetByNumber loads an order by its human-facing number.
func (s *service) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	if strings.TrimSpace(number) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// List returns the admin order listing.
func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) (Page, error) {
	page, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

// ListForCustomer returns the customer's own order history.
func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (Page, error) {
	if customerID == uuid.Nil {
		return Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	return s.List(ctx, Filters{CustomerID: customerID}, params)
}

// UpdateStatus moves the order through the fulfillment state machine. Illegal
// jumps are rejected; cancellation restores the reserved stock.
func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid fulfillment status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.FulfillmentStatus == input.Status {
			updated = order
			return nil
		}
		if !CanTransition(order.FulfillmentStatus, input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfillment transition disallowed").
				WithDetails(map[string]any{
					"from": order.FulfillmentStatus.String(),
					"to":   input.Status.String(),
				})
		}

		if err := repo.UpdateFulfillmentStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update fulfillment status")
		}
		if err := repo.AppendTimeline(ctx, &models.OrderTimelineEntry{
			OrderID: order.ID,
			Status:  input.Status,
			Note:    strings.TrimSpace(input.Note),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append timeline")
		}

		if input.Status == enums.FulfillmentStatusCancelled {
			if err := s.restoreStock(ctx, tx, order); err != nil {
				return err
			}
		}

		updated, err = repo.FindByID(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderNumber(ctx, updated.OrderNumber), "order fulfillment status updated")
	return updated, nil
}

func (s *service) restoreStock(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	catalogRepo := s.catalogRepo.WithTx(tx)
	for _, item := range order.Items {
		product, err := catalogRepo.FindProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for restock")
		}
		// Checkout never reserved stock for made-to-order lines, so there is
		// nothing to put back.
		if product.MadeToOrder {
			continue
		}
		if err := catalogRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore product stock")
		}
		if err := catalogRepo.RestoreVariantStock(ctx, item.VariantID, item.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore variant stock")
		}
	}
	return nil
}

// UpdatePaymentStatus records a payment outcome. Refund requires a prior
// paid state.
func (s *service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == enums.PaymentStatusRefunded && order.PaymentStatus != enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only paid orders can be refunded")
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return s.Get(ctx, id)
}

// SetTracking attaches a courier reference, optionally marking the order
// shipped in the same step.
func (s *service) SetTracking(ctx context.Context, input TrackingInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	tracking := strings.TrimSpace(input.TrackingNumber)
	if tracking == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number is required")
	}

	if _, err := s.Get(ctx, input.OrderID); err != nil {
		return nil, err
	}
	if err := s.repo.SetTrackingNumber(ctx, input.OrderID, tracking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set tracking number")
	}

	if input.MarkShipped {
		return s.UpdateStatus(ctx, StatusUpdateInput{
			OrderID: input.OrderID,
			Status:  enums.FulfillmentStatusShipped,
			Note:    "tracking " + tracking,
		})
	}
	return s.Get(ctx, input.OrderID)
}

// ExportCSV renders every order matching the filters as CSV.
func (s *service) ExportCSV(ctx context.Context, filters Filters) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders for export")
	}
	data, err := ExportCSV(rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render csv")
	}
	return data, nil
}

// Summarize aggregates dashboard counts.
func (s *service) Summarize(ctx context.Context) (Summary, error) {
	summary, err := s.repo.Summarize(ctx)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summarize orders")
	}
	return summary, nil
}

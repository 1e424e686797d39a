package orders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order with its items and timeline rows.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with items and timeline.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByNumber loads an order by its human-facing number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("order_number = ?", strings.TrimSpace(number)).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns a cursor page of orders matching the filters, newest first.
func (r *Repository) List(ctx context.Context, filters Filters, params pagination.Params) (Page, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return Page{}, err
	}

	query := applyFilters(r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items"), filters)

	var total int64
	if err := applyFilters(r.db.WithContext(ctx).Model(&models.Order{}), filters).Count(&total).Error; err != nil {
		return Page{}, err
	}

	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Order
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return Page{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return Page{Items: rows, NextCursor: nextCursor, Total: total}, nil
}

func applyFilters(query *gorm.DB, filters Filters) *gorm.DB {
	if filters.FulfillmentStatus != "" {
		query = query.Where("fulfillment_status = ?", filters.FulfillmentStatus)
	}
	if filters.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filters.PaymentStatus)
	}
	if filters.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filters.CustomerID)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(order_number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?", like, like, like)
	}
	if !filters.From.IsZero() {
		query = query.Where("created_at >= ?", filters.From)
	}
	if !filters.To.IsZero() {
		query = query.Where("created_at <= ?", filters.To)
	}
	return query
}

// ListAll streams every order matching the filters, newest first, for export.
func (r *Repository) ListAll(ctx context.Context, filters Filters) ([]models.Order, error) {
	var rows []models.Order
	err := applyFilters(r.db.WithContext(ctx).Model(&models.Order{}).Preload("Items"), filters).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFulfillmentStatus persists the new status.
func (r *Repository) UpdateFulfillmentStatus(ctx context.Context, id uuid.UUID, status enums.FulfillmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("fulfillment_status", status).Error
}

// UpdatePaymentStatus persists the new payment status.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

// SetTrackingNumber persists the courier reference.
func (r *Repository) SetTrackingNumber(ctx context.Context, id uuid.UUID, tracking string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("tracking_number", tracking).Error
}

// AppendTimeline adds a status entry to the order's append-only history.
func (r *Repository) AppendTimeline(ctx context.Context, entry *models.OrderTimelineEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Summarize aggregates counts and paid revenue for the dashboard.
func (r *Repository) Summarize(ctx context.Context) (Summary, error) {
	var summary Summary
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`COUNT(*) AS total_orders,
		        COUNT(*) FILTER (WHERE fulfillment_status = 'pending') AS pending_orders,
		        COUNT(*) FILTER (WHERE fulfillment_status = 'delivered') AS delivered_orders,
		        COUNT(*) FILTER (WHERE fulfillment_status = 'cancelled') AS cancelled_orders,
		        COALESCE(SUM(total) FILTER (WHERE payment_status = 'paid'), 0) AS revenue`).
		Scan(&summary).Error
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

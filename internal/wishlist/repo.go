package wishlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, customerID, productID uuid.UUID) error {
	if customerID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (customer_id, product_id) VALUES (?, ?) ON CONFLICT (customer_id, product_id) DO NOTHING`, customerID, productID).
		Error
}

// RemoveItem deletes the saved entry if it exists.
func (r *Repository) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns a cursor page of saved products with live listing data.
func (r *Repository) ListItems(ctx context.Context, customerID uuid.UUID, params pagination.Params) (Page, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return Page{}, err
	}

	selectColumns := []string{
		"wi.id AS wishlist_id",
		"wi.created_at AS wishlist_created_at",
		"p.id AS product_id",
		"p.name",
		"p.slug",
		"p.primary_image",
		"p.original_price",
		"p.sale_price",
		"p.status",
		"p.stock",
		"p.made_to_order",
		"p.rating",
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select(strings.Join(selectColumns, ", ")).
		Joins("JOIN products p ON p.id = wi.product_id").
		Where("wi.customer_id = ?", customerID)

	if decodedCursor != nil {
		query = query.Where("(wi.created_at < ?) OR (wi.created_at = ? AND wi.id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	query = query.Order("wi.created_at DESC").Order("wi.id DESC").Limit(limitWithBuffer)

	var records []itemRecord
	if err := query.Scan(&records).Error; err != nil {
		return Page{}, err
	}

	nextCursor := ""
	if len(records) > normalizedLimit {
		records = records[:normalizedLimit]
		last := records[len(records)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.WishlistCreatedAt,
			ID:        last.WishlistID,
		})
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		items = append(items, record.toItem())
	}

	return Page{Items: items, NextCursor: nextCursor}, nil
}

// ListProductIDs returns every saved product ID for the customer.
func (r *Repository) ListProductIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

type itemRecord struct {
	WishlistID        uuid.UUID `gorm:"column:wishlist_id"`
	WishlistCreatedAt time.Time `gorm:"column:wishlist_created_at"`
	ProductID         uuid.UUID `gorm:"column:product_id"`
	Name              string    `gorm:"column:name"`
	Slug              string    `gorm:"column:slug"`
	PrimaryImage      string    `gorm:"column:primary_image"`
	OriginalPrice     int       `gorm:"column:original_price"`
	SalePrice         *int      `gorm:"column:sale_price"`
	Status            string    `gorm:"column:status"`
	Stock             int       `gorm:"column:stock"`
	MadeToOrder       bool      `gorm:"column:made_to_order"`
	Rating            float64   `gorm:"column:rating"`
}

func (r itemRecord) toItem() Item {
	price := r.OriginalPrice
	if r.SalePrice != nil {
		price = *r.SalePrice
	}
	return Item{
		ProductID:    r.ProductID,
		Name:         r.Name,
		Slug:         r.Slug,
		PrimaryImage: r.PrimaryImage,
		Price:        price,
		Available:    r.Status == "active" && (r.Stock > 0 || r.MadeToOrder),
		Rating:       r.Rating,
		SavedAt:      r.WishlistCreatedAt,
	}
}

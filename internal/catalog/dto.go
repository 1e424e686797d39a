package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Sort orders supported by product listings.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// ProductFilters narrows product listings. Zero values mean "no filter".
type ProductFilters struct {
	CategorySlug string
	MetalType    enums.MetalType
	StoneType    enums.StoneType
	MinPrice     int
	MaxPrice     int
	Tags         []string
	Search       string
	Featured     bool
	NewArrival   bool
	Status       enums.ProductStatus
	LowStockOnly bool
	Sort         string
}

// ProductPage is one page of products plus the cursor for the next page.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Total      int64            `json:"total"`
}

// VariantInput describes one variant row when creating or replacing variants.
type VariantInput struct {
	MetalType       enums.MetalType
	RingSize        *string
	Stock           int
	PriceAdjustment int
}

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Name              string
	Slug              string
	Description       string
	ShortDescription  string
	CategoryID        *uuid.UUID
	Images            []string
	PrimaryImage      string
	OriginalPrice     int
	SalePrice         *int
	CostPrice         int
	MetalTypes        []enums.MetalType
	StoneType         enums.StoneType
	RingSizes         []string
	Tags              []string
	Stock             int
	LowStockThreshold int
	Status            enums.ProductStatus
	IsFeatured        bool
	IsNewArrival      bool
	MadeToOrder       bool
	CareInstructions  string
	MaterialDetails   string
	Variants          []VariantInput
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name         string
	Slug         string
	Description  string
	ParentID     *uuid.UUID
	CoverImage   string
	DisplayOrder int
	IsActive     bool
}

// ReviewInput is a customer-submitted product review.
type ReviewInput struct {
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Text       string
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Items      []models.Review `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// StockAdjustment changes a product's stock by a signed delta.
type StockAdjustment struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Delta     int
	Reason    string
}

// LowStockItem surfaces inventory below its threshold for the admin dashboard.
type LowStockItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Threshold int       `json:"threshold"`
	UpdatedAt time.Time `json:"updated_at"`
}

package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// Repository encapsulates catalog persistence: products, variants, categories
// and reviews.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
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

// ListProducts returns a cursor page of products matching the filters.
func (r *Repository) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (ProductPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return ProductPage{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Variants")
	query = applyProductFilters(query, filters)

	var total int64
	countQuery := applyProductFilters(r.db.WithContext(ctx).Model(&models.Product{}), filters)
	if err := countQuery.Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	// Cursor paging only works with the stable newest-first order; the other
	// sorts fall back to offset-free single pages.
	sort := filters.Sort
	switch sort {
	case SortPriceAsc:
		query = query.Order("COALESCE(sale_price, original_price) ASC").Order("id ASC")
	case SortPriceDesc:
		query = query.Order("COALESCE(sale_price, original_price) DESC").Order("id DESC")
	case SortRating:
		query = query.Order("rating DESC").Order("id DESC")
	default:
		if decodedCursor != nil {
			query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
				decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
		}
		query = query.Order("created_at DESC").Order("id DESC")
	}

	var rows []models.Product
	if err := query.Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return ProductPage{}, err
	}

	nextCursor := ""
	if len(rows) > normalizedLimit {
		rows = rows[:normalizedLimit]
		if sort == "" || sort == SortNewest {
			last := rows[len(rows)-1]
			nextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
		}
	}

	return ProductPage{Items: rows, NextCursor: nextCursor, Total: total}, nil
}

func applyProductFilters(query *gorm.DB, filters ProductFilters) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.CategorySlug != "" {
		query = query.Where("category_id IN (SELECT id FROM categories WHERE slug = ?)", filters.CategorySlug)
	}
	if filters.MetalType != "" {
		query = query.Where("? = ANY(metal_types)", string(filters.MetalType))
	}
	if filters.StoneType != "" {
		query = query.Where("stone_type = ?", filters.StoneType)
	}
	if filters.MinPrice > 0 {
		query = query.Where("COALESCE(sale_price, original_price) >= ?", filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		query = query.Where("COALESCE(sale_price, original_price) <= ?", filters.MaxPrice)
	}
	if len(filters.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(filters.Tags))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filters.Featured {
		query = query.Where("is_featured")
	}
	if filters.NewArrival {
		query = query.Where("is_new_arrival")
	}
	if filters.LowStockOnly {
		query = query.Where("stock <= low_stock_threshold")
	}
	return query
}

// FindProductByID loads a product with its variants.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Variants").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductBySlug loads a product with its variants by slug.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Variants").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindVariantByID loads a single variant.
func (r *Repository) FindVariantByID(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// CreateProduct inserts a product and its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct saves product field changes.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// ReplaceVariants swaps a product's variant rows for the supplied set.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&variants).Error
}

// ArchiveProduct marks a product archived instead of deleting history.
func (r *Repository) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("status", enums.ProductStatusArchived).Error
}

// DecrementStock performs a compare-and-decrement so an oversell can never
// slip through between the read and the write. Returns false when the row had
// less stock than requested.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DecrementVariantStock is the variant-level compare-and-decrement.
func (r *Repository) DecrementVariantStock(ctx context.Context, variantID uuid.UUID, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// RestoreStock returns quantity to a product, e.g. on cancellation.
func (r *Repository) RestoreStock(ctx context.Context, productID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// RestoreVariantStock returns quantity to a variant.
func (r *Repository) RestoreVariantStock(ctx context.Context, variantID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}

// AdjustStock applies a signed delta, refusing to take stock negative.
func (r *Repository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListLowStock returns products at or below their low-stock threshold.
func (r *Repository) ListLowStock(ctx context.Context) ([]LowStockItem, error) {
	var items []LowStockItem
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id AS product_id", "name", "stock", "low_stock_threshold AS threshold", "updated_at").
		Where("status = ?", enums.ProductStatusActive).
		Where("stock <= low_stock_threshold").
		Order("stock ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListCategories returns categories ordered for display.
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if activeOnly {
		query = query.Where("is_active")
	}
	var rows []models.Category
	if err := query.Order("display_order ASC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindCategoryByID loads a category by primary key.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// UpdateCategory saves category field changes.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteCategory removes a category; products keep a NULL category.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// CreateReview inserts a pending review.
func (r *Repository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindReviewByID loads a review by primary key.
func (r *Repository) FindReviewByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview saves review field changes.
func (r *Repository) UpdateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// ListReviews returns a cursor page of reviews, optionally filtered by
// product and status.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID, status enums.ReviewStatus, params pagination.Params) (ReviewPage, error) {
	normalizedLimit := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	decodedCursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return ReviewPage{}, err
	}

	query := r.db.WithContext(ctx).Model(&models.Review{})
	if productID != uuid.Nil {
		query = query.Where("product_id = ?", productID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if decodedCursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID)
	}

	var rows []models.Review
	if err := query.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return ReviewPage{}, err
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

	return ReviewPage{Items: rows, NextCursor: nextCursor}, nil
}

// RecomputeProductRating refreshes the denormalized rating fields from the
// approved reviews.
func (r *Repository) RecomputeProductRating(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":       gorm.Expr(`COALESCE((SELECT AVG(rating) FROM reviews WHERE product_id = ? AND status = 'approved'), 0)`, productID),
			"review_count": gorm.Expr(`(SELECT COUNT(*) FROM reviews WHERE product_id = ? AND status = 'approved')`, productID),
		}).Error
}

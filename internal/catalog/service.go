package catalog

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the catalog: the public storefront reads and the admin
// write surface.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)

	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	ArchiveProduct(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, adjustment StockAdjustment) (*models.Product, error)
	ListLowStock(ctx context.Context) ([]LowStockItem, error)

	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateReview(ctx context.Context, input ReviewInput) (*models.Review, error)
	ListReviews(ctx context.Context, productID uuid.UUID, status enums.ReviewStatus, params pagination.Params) (ReviewPage, error)
	ModerateReview(ctx context.Context, id uuid.UUID, status enums.ReviewStatus, reply *string) (*models.Review, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// ListProducts returns a filtered, cursor-paginated product page.
func (s *service) ListProducts(ctx context.Context, filters ProductFilters, params pagination.Params) (ProductPage, error) {
	page, err := s.repo.ListProducts(ctx, filters, params)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return page, nil
}

// GetProductBySlug loads a single product for the storefront detail page.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// GetProduct loads a product by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListCategories returns the category tree in display order.
func (s *service) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

// CreateProduct validates the input and inserts the product plus variants.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

// UpdateProduct overwrites the writable fields and replaces the variant set.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindProductByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		applyProductInput(existing, input)
		existing.Variants = nil
		if err := repo.UpdateProduct(ctx, existing); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
		if err := repo.ReplaceVariants(ctx, id, variantsFromInput(id, input.Variants)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace variants")
		}

		updated, err = repo.FindProductByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ArchiveProduct hides a product from the storefront without losing order
// history.
func (s *service) ArchiveProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.ArchiveProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "archive product")
	}
	return nil
}

// AdjustStock applies a signed inventory delta and refuses to go negative.
func (s *service) AdjustStock(ctx context.Context, adjustment StockAdjustment) (*models.Product, error) {
	if adjustment.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if adjustment.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock delta cannot be zero")
	}

	if adjustment.VariantID != nil {
		ok, err := s.adjustVariantStock(ctx, *adjustment.VariantID, adjustment.Delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stock cannot go negative").
				WithDetails(map[string]any{"product_id": adjustment.ProductID})
		}
	} else {
		ok, err := s.repo.AdjustStock(ctx, adjustment.ProductID, adjustment.Delta)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "stock cannot go negative").
				WithDetails(map[string]any{"product_id": adjustment.ProductID})
		}
	}

	return s.GetProduct(ctx, adjustment.ProductID)
}

func (s *service) adjustVariantStock(ctx context.Context, variantID uuid.UUID, delta int) (bool, error) {
	if delta < 0 {
		ok, err := s.repo.DecrementVariantStock(ctx, variantID, -delta)
		if err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust variant stock")
		}
		return ok, nil
	}
	if err := s.repo.RestoreVariantStock(ctx, variantID, delta); err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust variant stock")
	}
	return true, nil
}

// ListLowStock surfaces products at or below their threshold.
func (s *service) ListLowStock(ctx context.Context) ([]LowStockItem, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return items, nil
}

// CreateCategory inserts a category.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:         strings.TrimSpace(input.Name),
		Slug:         input.Slug,
		Description:  input.Description,
		ParentID:     input.ParentID,
		CoverImage:   input.CoverImage,
		DisplayOrder: input.DisplayOrder,
		IsActive:     input.IsActive,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return category, nil
}

// UpdateCategory overwrites the writable category fields.
func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = input.Slug
	category.Description = input.Description
	category.ParentID = input.ParentID
	category.CoverImage = input.CoverImage
	category.DisplayOrder = input.DisplayOrder
	category.IsActive = input.IsActive

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return category, nil
}

// DeleteCategory removes a category.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

// CreateReview records a customer review in pending moderation state.
func (s *service) CreateReview(ctx context.Context, input ReviewInput) (*models.Review, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if _, err := s.GetProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProductID:  input.ProductID,
		CustomerID: input.CustomerID,
		Rating:     input.Rating,
		Text:       strings.TrimSpace(input.Text),
		Status:     enums.ReviewStatusPending,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

// ListReviews returns reviews for a product or, with a Nil product ID, across
// the whole store (admin moderation queue).
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, status enums.ReviewStatus, params pagination.Params) (ReviewPage, error) {
	page, err := s.repo.ListReviews(ctx, productID, status, params)
	if err != nil {
		return ReviewPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return page, nil
}

// ModerateReview sets a review's moderation status, optionally attaching an
// admin reply, and refreshes the product's denormalized rating.
func (s *service) ModerateReview(ctx context.Context, id uuid.UUID, status enums.ReviewStatus, reply *string) (*models.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	if status != enums.ReviewStatusApproved && status != enums.ReviewStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moderation status must be approved or rejected")
	}

	var review *models.Review
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		loaded, err := repo.FindReviewByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
		}

		loaded.Status = status
		if reply != nil {
			loaded.AdminReply = reply
		}
		if err := repo.UpdateReview(ctx, loaded); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
		}
		if err := repo.RecomputeProductRating(ctx, loaded.ProductID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute rating")
		}
		review = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !slugRe.MatchString(input.Slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, "product slug must be lowercase kebab-case")
	}
	if input.OriginalPrice <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "original price must be positive")
	}
	if input.SalePrice != nil && (*input.SalePrice <= 0 || *input.SalePrice >= input.OriginalPrice) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale price must be positive and below the original price")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product status")
	}
	if input.StoneType != "" && !input.StoneType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid stone type")
	}
	for _, metal := range input.MetalTypes {
		if !metal.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid metal type")
		}
	}
	for _, variant := range input.Variants {
		if !variant.MetalType.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid variant metal type")
		}
		if variant.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant stock cannot be negative")
		}
	}
	return nil
}

func validateCategoryInput(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if !slugRe.MatchString(input.Slug) {
		return pkgerrors.New(pkgerrors.CodeValidation, "category slug must be lowercase kebab-case")
	}
	return nil
}

func productFromInput(input ProductInput) *models.Product {
	status := input.Status
	if status == "" {
		status = enums.ProductStatusDraft
	}
	stone := input.StoneType
	if stone == "" {
		stone = enums.StoneTypeNone
	}
	product := &models.Product{
		Name:              strings.TrimSpace(input.Name),
		Slug:              input.Slug,
		Description:       input.Description,
		ShortDescription:  input.ShortDescription,
		CategoryID:        input.CategoryID,
		Images:            pq.StringArray(input.Images),
		PrimaryImage:      input.PrimaryImage,
		OriginalPrice:     input.OriginalPrice,
		SalePrice:         input.SalePrice,
		CostPrice:         input.CostPrice,
		MetalTypes:        metalStrings(input.MetalTypes),
		StoneType:         stone,
		RingSizes:         pq.StringArray(input.RingSizes),
		Tags:              pq.StringArray(input.Tags),
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
		Status:            status,
		IsFeatured:        input.IsFeatured,
		IsNewArrival:      input.IsNewArrival,
		MadeToOrder:       input.MadeToOrder,
		CareInstructions:  input.CareInstructions,
		MaterialDetails:   input.MaterialDetails,
	}
	product.Variants = variantsFromInput(uuid.Nil, input.Variants)
	return product
}

func applyProductInput(product *models.Product, input ProductInput) {
	status := input.Status
	if status == "" {
		status = product.Status
	}
	stone := input.StoneType
	if stone == "" {
		stone = enums.StoneTypeNone
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Slug = input.Slug
	product.Description = input.Description
	product.ShortDescription = input.ShortDescription
	product.CategoryID = input.CategoryID
	product.Images = pq.StringArray(input.Images)
	product.PrimaryImage = input.PrimaryImage
	product.OriginalPrice = input.OriginalPrice
	product.SalePrice = input.SalePrice
	product.CostPrice = input.CostPrice
	product.MetalTypes = metalStrings(input.MetalTypes)
	product.StoneType = stone
	product.RingSizes = pq.StringArray(input.RingSizes)
	product.Tags = pq.StringArray(input.Tags)
	product.Stock = input.Stock
	product.LowStockThreshold = input.LowStockThreshold
	product.Status = status
	product.IsFeatured = input.IsFeatured
	product.IsNewArrival = input.IsNewArrival
	product.MadeToOrder = input.MadeToOrder
	product.CareInstructions = input.CareInstructions
	product.MaterialDetails = input.MaterialDetails
}

func variantsFromInput(productID uuid.UUID, inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, input := range inputs {
		variant := models.ProductVariant{
			MetalType:       input.MetalType,
			RingSize:        input.RingSize,
			Stock:           input.Stock,
			PriceAdjustment: input.PriceAdjustment,
		}
		if productID != uuid.Nil {
			variant.ProductID = productID
		}
		variants = append(variants, variant)
	}
	return variants
}

func metalStrings(metals []enums.MetalType) pq.StringArray {
	out := make(pq.StringArray, 0, len(metals))
	for _, metal := range metals {
		out = append(out, string(metal))
	}
	return out
}

package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	CatalogRepo  *catalog.Repository
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, customerID uuid.UUID, params pagination.Params) (Page, error)
	GetProductIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	catalogRepo  *catalog.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		catalogRepo:  params.CatalogRepo,
	}, nil
}

// GetWishlist returns the paginated wishlist for a customer.
func (s *service) GetWishlist(ctx context.Context, customerID uuid.UUID, params pagination.Params) (Page, error) {
	if customerID == uuid.Nil {
		return Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	return s.wishlistRepo.ListItems(ctx, customerID, params)
}

// GetProductIDs returns all saved product IDs for the customer, used by the
// storefront to render heart toggles.
func (s *service) GetProductIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	return s.wishlistRepo.ListProductIDs(ctx, customerID)
}

// AddItem ensures the product exists and saves it. Saving twice is a no-op.
func (s *service) AddItem(ctx context.Context, customerID, productID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.catalogRepo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.wishlistRepo.AddItem(ctx, customerID, productID)
}

// RemoveItem drops the saved entry regardless of prior state.
func (s *service) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) error {
	if customerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	return s.wishlistRepo.RemoveItem(ctx, customerID, productID)
}

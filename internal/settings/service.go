package settings

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/types"
)

// Service exposes storefront configuration reads and admin updates.
type Service interface {
	Get(ctx context.Context) (*models.StoreSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.StoreSettings, error)
}

// UpdateInput carries the admin-editable settings fields. Nil pointers leave
// the stored value untouched.
type UpdateInput struct {
	StoreName             *string
	SupportEmail          *string
	SupportPhone          *string
	FreeShippingThreshold *int
	StandardShippingFee   *int
	ExpressShippingFee    *int
	SameDayShippingFee    *int
	GSTRatePercent        *int
	CODEnabled            *bool
	AnnouncementText      *string
	AnnouncementEnabled   *bool
	SocialLinks           *types.SocialLinks
}

type service struct {
	repo     *Repository
	defaults config.StoreConfig
}

// NewService builds a settings service with the required dependencies.
func NewService(repo *Repository, defaults config.StoreConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings repo is required")
	}
	return &service{repo: repo, defaults: defaults}, nil
}

// Get returns the persisted settings, falling back to configured defaults when
// the row has not been seeded yet.
func (s *service) Get(ctx context.Context) (*models.StoreSettings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultRow(), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store settings")
	}
	return row, nil
}

// Update applies the provided fields on top of the current settings.
func (s *service) Update(ctx context.Context, input UpdateInput) (*models.StoreSettings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		row.StoreName = name
	}
	if input.SupportEmail != nil {
		row.SupportEmail = strings.TrimSpace(*input.SupportEmail)
	}
	if input.SupportPhone != nil {
		row.SupportPhone = strings.TrimSpace(*input.SupportPhone)
	}
	if input.FreeShippingThreshold != nil {
		if *input.FreeShippingThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "free shipping threshold cannot be negative")
		}
		row.FreeShippingThreshold = *input.FreeShippingThreshold
	}
	if input.StandardShippingFee != nil {
		if *input.StandardShippingFee < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "standard shipping fee cannot be negative")
		}
		row.StandardShippingFee = *input.StandardShippingFee
	}
	if input.ExpressShippingFee != nil {
		if *input.ExpressShippingFee < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "express shipping fee cannot be negative")
		}
		row.ExpressShippingFee = *input.ExpressShippingFee
	}
	if input.SameDayShippingFee != nil {
		if *input.SameDayShippingFee < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "same-day shipping fee cannot be negative")
		}
		row.SameDayShippingFee = *input.SameDayShippingFee
	}
	if input.GSTRatePercent != nil {
		if *input.GSTRatePercent < 0 || *input.GSTRatePercent > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "gst rate must be between 0 and 100")
		}
		row.GSTRatePercent = *input.GSTRatePercent
	}
	if input.CODEnabled != nil {
		row.CODEnabled = *input.CODEnabled
	}
	if input.AnnouncementText != nil {
		row.AnnouncementText = strings.TrimSpace(*input.AnnouncementText)
	}
	if input.AnnouncementEnabled != nil {
		row.AnnouncementEnabled = *input.AnnouncementEnabled
	}
	if input.SocialLinks != nil {
		row.SocialLinks = *input.SocialLinks
	}

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save store settings")
	}
	return row, nil
}

func (s *service) defaultRow() *models.StoreSettings {
	return &models.StoreSettings{
		ID:                    settingsRowID,
		StoreName:             s.defaults.Name,
		FreeShippingThreshold: s.defaults.FreeShippingThreshold,
		StandardShippingFee:   s.defaults.StandardShippingFee,
		ExpressShippingFee:    s.defaults.ExpressShippingFee,
		SameDayShippingFee:    s.defaults.SameDayShippingFee,
		GSTRatePercent:        s.defaults.GSTRatePercent,
		CODEnabled:            true,
	}
}

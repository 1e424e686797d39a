package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
)

// Service exposes coupon validation for checkout plus admin management.
type Service interface {
	Validate(ctx context.Context, code string, subtotal int) (Evaluation, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Create(ctx context.Context, input CreateInput) (*models.Coupon, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateInput carries the fields for a new coupon.
type CreateInput struct {
	Code          string
	Type          enums.CouponType
	Value         int
	MinOrderValue int
	MaxUses       int
	StartsAt      *time.Time
	ExpiresAt     *time.Time
}

// UpdateInput carries admin-editable coupon fields. Nil pointers leave the
// stored value untouched.
type UpdateInput struct {
	Value         *int
	MinOrderValue *int
	MaxUses       *int
	StartsAt      *time.Time
	ExpiresAt     *time.Time
	ClearWindow   bool
	IsActive      *bool
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds a coupon service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon repo is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Validate looks up the code and runs every coupon rule against the subtotal.
// A missing or failing coupon comes back as a CodeCouponRejected error with
// the reason in details.
func (s *service) Validate(ctx context.Context, code string, subtotal int) (Evaluation, error) {
	if strings.TrimSpace(code) == "" {
		return Evaluation{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if subtotal < 0 {
		return Evaluation{}, pkgerrors.New(pkgerrors.CodeValidation, "subtotal cannot be negative")
	}

	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Evaluation{}, rejectionError(ReasonNotFound)
		}
		return Evaluation{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	eval := Evaluate(coupon, subtotal, s.now())
	if !eval.Applied() {
		return Evaluation{}, rejectionError(eval.Reason)
	}
	return eval, nil
}

// List returns every coupon for the admin console.
func (s *service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	return rows, nil
}

// Create inserts a new coupon after validating its shape.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon type")
	}
	if input.Value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
	}
	if input.Type == enums.CouponTypePercentage && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
	}
	if input.MinOrderValue < 0 || input.MaxUses < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order value and max uses cannot be negative")
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && input.ExpiresAt.Before(*input.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at cannot precede starts_at")
	}

	coupon := &models.Coupon{
		Code:          code,
		Type:          input.Type,
		Value:         input.Value,
		MinOrderValue: input.MinOrderValue,
		MaxUses:       input.MaxUses,
		StartsAt:      input.StartsAt,
		ExpiresAt:     input.ExpiresAt,
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return coupon, nil
}

// Update applies the provided fields to an existing coupon.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Coupon, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	if input.Value != nil {
		if *input.Value <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
		}
		if coupon.Type == enums.CouponTypePercentage && *input.Value > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage value cannot exceed 100")
		}
		coupon.Value = *input.Value
	}
	if input.MinOrderValue != nil {
		if *input.MinOrderValue < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order value cannot be negative")
		}
		coupon.MinOrderValue = *input.MinOrderValue
	}
	if input.MaxUses != nil {
		if *input.MaxUses < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "max uses cannot be negative")
		}
		coupon.MaxUses = *input.MaxUses
	}
	if input.ClearWindow {
		coupon.StartsAt = nil
		coupon.ExpiresAt = nil
	} else {
		if input.StartsAt != nil {
			coupon.StartsAt = input.StartsAt
		}
		if input.ExpiresAt != nil {
			coupon.ExpiresAt = input.ExpiresAt
		}
	}
	if coupon.StartsAt != nil && coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(*coupon.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expires_at cannot precede starts_at")
	}
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
	}
	return coupon, nil
}

// Delete removes a coupon.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	return nil
}

func rejectionError(reason RejectionReason) error {
	return pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon rejected").
		WithDetails(map[string]any{"reason": string(reason)})
}

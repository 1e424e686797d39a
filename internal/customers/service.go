package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer profile management and the admin customer list.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdateInput) (*models.User, error)
	List(ctx context.Context, search string, params pagination.Params) (Page, error)
	AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*models.User, error)

	AddAddress(ctx context.Context, customerID uuid.UUID, input AddressInput) (*models.Address, error)
	UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input AddressInput) (*models.Address, error)
	DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService builds a customers service with the required dependencies.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customers repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Get loads a user with their address book.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return user, nil
}

// UpdateProfile applies self-service profile changes.
func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileUpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}

	user.Addresses = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, id)
}

// List returns the admin customer listing.
func (s *service) List(ctx context.Context, search string, params pagination.Params) (Page, error) {
	page, err := s.repo.List(ctx, search, params)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return page, nil
}

// AdminUpdate applies console-only fields: internal notes and account status.
func (s *service) AdminUpdate(ctx context.Context, id uuid.UUID, input AdminUpdateInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Notes != nil {
		user.Notes = *input.Notes
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	user.Addresses = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return s.Get(ctx, id)
}

// AddAddress appends an address-book entry; the first entry or an explicit
// default flag makes it the default.
func (s *service) AddAddress(ctx context.Context, customerID uuid.UUID, input AddressInput) (*models.Address, error) {
	user, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}

	address := addressFromInput(customerID, input)
	if len(user.Addresses) == 0 {
		address.IsDefault = true
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if err := repo.CreateAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// UpdateAddress overwrites an address-book entry the customer owns.
func (s *service) UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input AddressInput) (*models.Address, error) {
	if err := validateAddressInput(input); err != nil {
		return nil, err
	}
	address, err := s.ownedAddress(ctx, customerID, addressID)
	if err != nil {
		return nil, err
	}

	address.Label = input.Label
	address.FullName = strings.TrimSpace(input.FullName)
	address.Phone = strings.TrimSpace(input.Phone)
	address.Line1 = strings.TrimSpace(input.Line1)
	address.Line2 = strings.TrimSpace(input.Line2)
	address.City = strings.TrimSpace(input.City)
	address.State = strings.TrimSpace(input.State)
	address.Pincode = strings.TrimSpace(input.Pincode)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, customerID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
			address.IsDefault = true
		}
		if err := repo.UpdateAddress(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// DeleteAddress removes an address-book entry the customer owns.
func (s *service) DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error {
	address, err := s.ownedAddress(ctx, customerID, addressID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAddress(ctx, address.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

func (s *service) ownedAddress(ctx context.Context, customerID, addressID uuid.UUID) (*models.Address, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if addressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	address, err := s.repo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if address.UserID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address does not belong to customer")
	}
	return address, nil
}

func validateAddressInput(input AddressInput) error {
	var missing []string
	required := map[string]string{
		"full_name": input.FullName,
		"phone":     input.Phone,
		"line1":     input.Line1,
		"city":      input.City,
		"state":     input.State,
		"pincode":   input.Pincode,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "address fields missing").
			WithDetails(map[string]any{"missing": missing})
	}
	return nil
}

func addressFromInput(customerID uuid.UUID, input AddressInput) *models.Address {
	return &models.Address{
		UserID:    customerID,
		Label:     input.Label,
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     strings.TrimSpace(input.Phone),
		Line1:     strings.TrimSpace(input.Line1),
		Line2:     strings.TrimSpace(input.Line2),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		Pincode:   strings.TrimSpace(input.Pincode),
		IsDefault: input.IsDefault,
	}
}

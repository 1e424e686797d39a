package controllers

import (
	"net/http"
	"time"

	"github.com/lumiere-jewels/lumiere-backend/api/responses"
	"github.com/lumiere-jewels/lumiere-backend/api/validators"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	pkgerrors "github.com/lumiere-jewels/lumiere-backend/pkg/errors"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
)

type updateProfilePayload struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
}

type addressPayload struct {
	Label     string `json:"label"`
	FullName  string `json:"full_name" validate:"required"`
	Phone     string `json:"phone" validate:"required"`
	Line1     string `json:"line1" validate:"required"`
	Line2     string `json:"line2"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	Pincode   string `json:"pincode" validate:"required"`
	IsDefault bool   `json:"is_default"`
}

// ProfileGet returns the caller's profile and address book.
func ProfileGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.Get(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.FromModel(user))
	}
}

// ProfileUpdate applies self-service profile changes.
func ProfileUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := customers.ProfileUpdateInput{
			Name:  payload.Name,
			Phone: payload.Phone,
		}
		if payload.Birthday != nil {
			birthday, err := time.Parse("2006-01-02", *payload.Birthday)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "birthday must be YYYY-MM-DD"))
				return
			}
			input.Birthday = &birthday
		}

		user, err := svc.UpdateProfile(ctx, customerID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers.FromModel(user))
	}
}

// AddressCreate appends an address-book entry.
func AddressCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		address, err := svc.AddAddress(ctx, customerID, addressInputFromPayload(payload))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

// AddressUpdate overwrites an address-book entry.
func AddressUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		address, err := svc.UpdateAddress(ctx, customerID, addressID, addressInputFromPayload(payload))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

// AddressDelete removes an address-book entry.
func AddressDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		customerID, err := customerIDFromContext(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		addressID, err := parseUUIDParam(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteAddress(ctx, customerID, addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func addressInputFromPayload(payload addressPayload) customers.AddressInput {
	return customers.AddressInput{
		Label:     payload.Label,
		FullName:  payload.FullName,
		Phone:     payload.Phone,
		Line1:     payload.Line1,
		Line2:     payload.Line2,
		City:      payload.City,
		State:     payload.State,
		Pincode:   payload.Pincode,
		IsDefault: payload.IsDefault,
	}
}

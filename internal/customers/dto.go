package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// UserDTO is the API-safe shape of a user record.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone,omitempty"`
	Role        enums.UserRole   `json:"role"`
	Birthday    *time.Time       `json:"birthday,omitempty"`
	IsActive    bool             `json:"is_active"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	Addresses   []models.Address `json:"addresses,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FromModel strips credential fields before a user leaves the API.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Phone:       user.Phone,
		Role:        user.Role,
		Birthday:    user.Birthday,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		Addresses:   user.Addresses,
		CreatedAt:   user.CreatedAt,
	}
}

// Page is one page of customers plus the cursor for the next page.
type Page struct {
	Items      []models.User `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
	Total      int64         `json:"total"`
}

// ProfileUpdateInput carries the self-service profile fields. Nil pointers
// leave the stored value untouched.
type ProfileUpdateInput struct {
	Name     *string
	Phone    *string
	Birthday *time.Time
}

// AdminUpdateInput carries the fields the console can edit on a customer.
type AdminUpdateInput struct {
	Notes    *string
	IsActive *bool
}

// AddressInput carries the writable address-book fields.
type AddressInput struct {
	Label     string
	FullName  string
	Phone     string
	Line1     string
	Line2     string
	City      string
	State     string
	Pincode   string
	IsDefault bool
}

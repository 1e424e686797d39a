package wishlist

import (
	"time"

	"github.com/google/uuid"
)

// Item is one saved product with enough listing data for the wishlist page.
type Item struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	PrimaryImage string    `json:"primary_image"`
	Price        int       `json:"price"`
	Available    bool      `json:"available"`
	Rating       float64   `json:"rating"`
	SavedAt      time.Time `json:"saved_at"`
}

// Page is one page of wishlist items.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

// Product represents a catalog listing. Prices are whole rupees.
type Product struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string              `gorm:"column:name;not null"`
	Slug              string              `gorm:"column:slug;not null;uniqueIndex"`
	Description       string              `gorm:"column:description;not null;default:''"`
	ShortDescription  string              `gorm:"column:short_description;not null;default:''"`
	CategoryID        *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Images            pq.StringArray      `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	PrimaryImage      string              `gorm:"column:primary_image;not null;default:''"`
	OriginalPrice     int                 `gorm:"column:original_price;not null"`
	SalePrice         *int                `gorm:"column:sale_price"`
	CostPrice         int                 `gorm:"column:cost_price;not null;default:0"`
	MetalTypes        pq.StringArray      `gorm:"column:metal_types;type:text[];not null;default:ARRAY[]::text[]"`
	StoneType         enums.StoneType     `gorm:"column:stone_type;type:text;not null;default:'no-stone'"`
	RingSizes         pq.StringArray      `gorm:"column:ring_sizes;type:text[];not null;default:ARRAY[]::text[]"`
	Tags              pq.StringArray      `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	Stock             int                 `gorm:"column:stock;not null;default:0"`
	LowStockThreshold int                 `gorm:"column:low_stock_threshold;not null;default:2"`
	Status            enums.ProductStatus `gorm:"column:status;type:text;not null;default:'draft'"`
	IsFeatured        bool                `gorm:"column:is_featured;not null;default:false"`
	IsNewArrival      bool                `gorm:"column:is_new_arrival;not null;default:false"`
	MadeToOrder       bool                `gorm:"column:made_to_order;not null;default:false"`
	Rating            float64             `gorm:"column:rating;not null;default:0"`
	ReviewCount       int                 `gorm:"column:review_count;not null;default:0"`
	CareInstructions  string              `gorm:"column:care_instructions;not null;default:''"`
	MaterialDetails   string              `gorm:"column:material_details;not null;default:''"`
	Variants          []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice returns the sale price when set, else the original price.
func (p Product) EffectivePrice() int {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.OriginalPrice
}

// IsPurchasable reports whether the listing can be added to a cart.
func (p Product) IsPurchasable() bool {
	return p.Status == enums.ProductStatusActive
}

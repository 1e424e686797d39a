package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are generated app-side so inserts behave the same on Postgres and the
// SQLite dev database, which has no gen_random_uuid().

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error               { ensureID(&u.ID); return nil }
func (a *Address) BeforeCreate(*gorm.DB) error            { ensureID(&a.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error           { ensureID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error            { ensureID(&p.ID); return nil }
func (v *ProductVariant) BeforeCreate(*gorm.DB) error     { ensureID(&v.ID); return nil }
func (r *CartRecord) BeforeCreate(*gorm.DB) error         { ensureID(&r.ID); return nil }
func (i *CartItem) BeforeCreate(*gorm.DB) error           { ensureID(&i.ID); return nil }
func (c *Coupon) BeforeCreate(*gorm.DB) error             { ensureID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error              { ensureID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error          { ensureID(&i.ID); return nil }
func (e *OrderTimelineEntry) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error             { ensureID(&r.ID); return nil }
func (w *WishlistItem) BeforeCreate(*gorm.DB) error       { ensureID(&w.ID); return nil }

package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumiere-jewels/lumiere-backend/pkg/db/models"
)

// settingsRowID is the fixed primary key of the singleton settings row.
const settingsRowID = 1

// Repository encapsulates store settings persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a settings repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Get loads the singleton settings row.
func (r *Repository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var row models.StoreSettings
	if err := r.db.WithContext(ctx).Where("id = ?", settingsRowID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the singleton settings row.
func (r *Repository) Save(ctx context.Context, row *models.StoreSettings) error {
	row.ID = settingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

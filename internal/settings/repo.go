package settings

import (
	"context"
	"errors"

	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActiveBundleRules(ctx context.Context) ([]models.BundleRule, error) {
	var rules []models.BundleRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sku_pattern ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) CreateBundleRule(ctx context.Context, rule *models.BundleRule) (*models.BundleRule, error) {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *repository) GetStoreSettings(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", settingsRowID).
		First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) UpsertStoreSettings(ctx context.Context, settings *models.StoreSettings) error {
	settings.ID = settingsRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"free_shipping_threshold", "flat_shipping_cost", "updated_at"}),
		}).
		Create(settings).Error
}

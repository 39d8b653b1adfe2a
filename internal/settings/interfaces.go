package settings

import (
	"context"

	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for store configuration.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActiveBundleRules(ctx context.Context) ([]models.BundleRule, error)
	CreateBundleRule(ctx context.Context, rule *models.BundleRule) (*models.BundleRule, error)
	GetStoreSettings(ctx context.Context) (*models.StoreSettings, error)
	UpsertStoreSettings(ctx context.Context, settings *models.StoreSettings) error
}

package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calyxlabs/herbcart-backend/pkg/config"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	bundleRules := `
CREATE TABLE IF NOT EXISTS bundle_rules (
  id TEXT PRIMARY KEY,
  sku_pattern TEXT NOT NULL UNIQUE,
  required_quantity INTEGER NOT NULL,
  discount_percent TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	storeSettings := `
CREATE TABLE IF NOT EXISTS store_settings (
  id INTEGER PRIMARY KEY,
  free_shipping_threshold TEXT NOT NULL,
  flat_shipping_cost TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(bundleRules).Error)
	require.NoError(t, db.Exec(storeSettings).Error)
	return db
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		TaxRate:                      decimal.RequireFromString("0.08"),
		DefaultFreeShippingThreshold: decimal.RequireFromString("50"),
		DefaultFlatShippingCost:      decimal.RequireFromString("9.99"),
	}
}

func TestRepositoryListActiveBundleRules(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := NewRepository(db)

	active := &models.BundleRule{
		ID:               uuid.New(),
		SKUPattern:       "FLO28G",
		RequiredQuantity: 4,
		DiscountPercent:  decimal.RequireFromString("15"),
		IsActive:         true,
	}
	retired := &models.BundleRule{
		ID:               uuid.New(),
		SKUPattern:       "VAPE1G",
		RequiredQuantity: 4,
		DiscountPercent:  decimal.RequireFromString("10"),
		IsActive:         false,
	}
	_, err := repo.CreateBundleRule(context.Background(), active)
	require.NoError(t, err)
	_, err = repo.CreateBundleRule(context.Background(), retired)
	require.NoError(t, err)

	rules, err := repo.ListActiveBundleRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "FLO28G", rules[0].SKUPattern)
}

func TestRepositoryStoreSettingsRoundTrip(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := NewRepository(db)

	missing, err := repo.GetStoreSettings(context.Background())
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.UpsertStoreSettings(context.Background(), &models.StoreSettings{
		FreeShippingThreshold: decimal.RequireFromString("50"),
		FlatShippingCost:      decimal.RequireFromString("9.99"),
	})
	require.NoError(t, err)

	got, err := repo.GetStoreSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.FreeShippingThreshold.Equal(decimal.RequireFromString("50")))

	err = repo.UpsertStoreSettings(context.Background(), &models.StoreSettings{
		FreeShippingThreshold: decimal.RequireFromString("75"),
		FlatShippingCost:      decimal.RequireFromString("4.99"),
	})
	require.NoError(t, err)

	updated, err := repo.GetStoreSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.FreeShippingThreshold.Equal(decimal.RequireFromString("75")))
	assert.Equal(t, 1, updated.ID)
}

func TestSeedPopulatesDefaultsOnce(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, Seed(context.Background(), repo, testPricingConfig()))

	rules, err := repo.ListActiveBundleRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 6)

	settings, err := repo.GetStoreSettings(context.Background())
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.True(t, settings.FlatShippingCost.Equal(decimal.RequireFromString("9.99")))

	// Re-seeding must not duplicate rules or clobber tuned values.
	require.NoError(t, repo.UpsertStoreSettings(context.Background(), &models.StoreSettings{
		FreeShippingThreshold: decimal.RequireFromString("100"),
		FlatShippingCost:      decimal.RequireFromString("5"),
	}))
	require.NoError(t, Seed(context.Background(), repo, testPricingConfig()))

	rules, err = repo.ListActiveBundleRules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 6)

	settings, err = repo.GetStoreSettings(context.Background())
	require.NoError(t, err)
	assert.True(t, settings.FreeShippingThreshold.Equal(decimal.RequireFromString("100")))
}

func TestEngineRulesAndShippingPolicyConversion(t *testing.T) {
	t.Parallel()

	rules := EngineRules([]models.BundleRule{{
		SKUPattern:       "HAS7G",
		RequiredQuantity: 4,
		DiscountPercent:  decimal.RequireFromString("15"),
	}})
	require.Len(t, rules, 1)
	assert.Equal(t, "HAS7G", rules[0].SKUPattern)
	assert.Equal(t, 4, rules[0].RequiredQuantity)

	policy := ShippingPolicy(nil, testPricingConfig())
	assert.True(t, policy.FlatShippingCost.Equal(decimal.RequireFromString("9.99")))

	policy = ShippingPolicy(&models.StoreSettings{
		FreeShippingThreshold: decimal.RequireFromString("80"),
		FlatShippingCost:      decimal.RequireFromString("3.50"),
	}, testPricingConfig())
	assert.True(t, policy.FreeShippingThreshold.Equal(decimal.RequireFromString("80")))
}

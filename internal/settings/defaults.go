package settings

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	"github.com/calyxlabs/herbcart-backend/pkg/config"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
)

// settingsRowID pins the store settings to a single row.
const settingsRowID = 1

var (
	defaultBundleQuantity = 4
	defaultBundlePercent  = decimal.NewFromInt(15)

	// Weight-tier SKU prefixes the storefront ships with: flower, hash, and
	// shatter in quarter and full ounce sizes.
	defaultBundlePatterns = []string{"FLO7G", "FLO28G", "HAS7G", "HAS28G", "SHA7G", "SHA28G"}
)

// DefaultBundleRules returns the stock bundle tiers seeded into new
// environments. Every tier discounts 15% once four matching units land in
// the cart.
func DefaultBundleRules() []models.BundleRule {
	rules := make([]models.BundleRule, 0, len(defaultBundlePatterns))
	for _, pattern := range defaultBundlePatterns {
		rules = append(rules, models.BundleRule{
			ID:               uuid.New(),
			SKUPattern:       pattern,
			RequiredQuantity: defaultBundleQuantity,
			DiscountPercent:  defaultBundlePercent,
			IsActive:         true,
		})
	}
	return rules
}

// Seed inserts the default bundle rules and shipping settings when they are
// missing. Existing rows are left untouched so operators can tune values
// without a redeploy reverting them.
func Seed(ctx context.Context, repo Repository, pricingCfg config.PricingConfig) error {
	existing, err := repo.ListActiveBundleRules(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		for _, rule := range DefaultBundleRules() {
			if _, err := repo.CreateBundleRule(ctx, &rule); err != nil {
				return err
			}
		}
	}

	current, err := repo.GetStoreSettings(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		return repo.UpsertStoreSettings(ctx, &models.StoreSettings{
			FreeShippingThreshold: pricingCfg.DefaultFreeShippingThreshold,
			FlatShippingCost:      pricingCfg.DefaultFlatShippingCost,
		})
	}
	return nil
}

// EngineRules converts stored bundle rules into the engine's representation.
func EngineRules(rules []models.BundleRule) []pricing.BundleRule {
	out := make([]pricing.BundleRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, pricing.BundleRule{
			SKUPattern:       rule.SKUPattern,
			RequiredQuantity: rule.RequiredQuantity,
			DiscountPercent:  rule.DiscountPercent,
		})
	}
	return out
}

// ShippingPolicy converts stored settings into the engine's representation,
// falling back to configured defaults when no row has been seeded yet.
func ShippingPolicy(settings *models.StoreSettings, pricingCfg config.PricingConfig) pricing.ShippingPolicy {
	if settings == nil {
		return pricing.ShippingPolicy{
			FreeShippingThreshold: pricingCfg.DefaultFreeShippingThreshold,
			FlatShippingCost:      pricingCfg.DefaultFlatShippingCost,
		}
	}
	return pricing.ShippingPolicy{
		FreeShippingThreshold: settings.FreeShippingThreshold,
		FlatShippingCost:      settings.FlatShippingCost,
	}
}

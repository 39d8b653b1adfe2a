package coupons

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
)

// ToEngineCoupon converts a stored coupon into the engine's representation.
// The text[] scoping columns are parsed into typed UUIDs here so the engine
// never deals with storage formats; a malformed ID is a data integrity error,
// not a shopper-facing rejection.
func ToEngineCoupon(record *models.Coupon) (*pricing.Coupon, error) {
	if record == nil {
		return nil, nil
	}

	applicableProducts, err := parseIDs(record.ApplicableProductIDs, "applicable_product_ids")
	if err != nil {
		return nil, err
	}
	excludedProducts, err := parseIDs(record.ExcludedProductIDs, "excluded_product_ids")
	if err != nil {
		return nil, err
	}
	applicableCategories, err := parseIDs(record.ApplicableCategoryIDs, "applicable_category_ids")
	if err != nil {
		return nil, err
	}
	excludedCategories, err := parseIDs(record.ExcludedCategoryIDs, "excluded_category_ids")
	if err != nil {
		return nil, err
	}

	return &pricing.Coupon{
		Code:                  record.Code,
		Kind:                  record.Kind,
		Value:                 record.Value,
		MinimumOrderAmount:    record.MinimumOrderAmount,
		MaximumDiscountAmount: record.MaximumDiscountAmount,
		UsageLimit:            record.UsageLimit,
		UsageCount:            record.UsageCount,
		UserUsageLimit:        record.UserUsageLimit,
		ValidFrom:             record.ValidFrom,
		ValidUntil:            record.ValidUntil,
		IsActive:              record.IsActive,
		ApplicableProductIDs:  applicableProducts,
		ExcludedProductIDs:    excludedProducts,
		ApplicableCategoryIDs: applicableCategories,
		ExcludedCategoryIDs:   excludedCategories,
	}, nil
}

func parseIDs(raw pq.StringArray, column string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("malformed uuid in coupon %s", column))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/pkg/enums"
)

// CouponDiscount is the outcome of applying a valid coupon to the cart.
type CouponDiscount struct {
	Discount         decimal.Decimal
	ApplicableAmount decimal.Decimal
}

// CalculateCouponDiscount determines which line items the coupon covers and
// how much it takes off. It fails with ReasonCouponNotApplicable when no item
// in the cart is eligible: a code that matches nothing is a different failure
// from a code worth zero dollars, and the shopper needs to hear the former.
func CalculateCouponDiscount(coupon *Coupon, items []LineItem) (CouponDiscount, error) {
	applicable := decimal.Zero
	for _, item := range items {
		if couponCoversItem(coupon, item) {
			applicable = applicable.Add(item.LineTotal())
		}
	}
	if applicable.IsZero() {
		return CouponDiscount{}, rejection(ReasonCouponNotApplicable)
	}

	var discount decimal.Decimal
	switch coupon.Kind {
	case enums.CouponKindPercentage:
		discount = applicable.Mul(coupon.Value).Div(oneHundred)
		if coupon.MaximumDiscountAmount != nil && discount.GreaterThan(*coupon.MaximumDiscountAmount) {
			discount = *coupon.MaximumDiscountAmount
		}
	case enums.CouponKindFixed:
		discount = coupon.Value
		if discount.GreaterThan(applicable) {
			discount = applicable
		}
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return CouponDiscount{
		Discount:         discount.Round(2),
		ApplicableAmount: applicable,
	}, nil
}

// couponCoversItem evaluates a single item's eligibility. Empty inclusion
// sets mean the coupon applies store-wide; exclusions override inclusions.
func couponCoversItem(coupon *Coupon, item LineItem) bool {
	if containsID(coupon.ExcludedProductIDs, item.ProductID) {
		return false
	}
	if intersects(coupon.ExcludedCategoryIDs, item.categoryIDs()) {
		return false
	}

	if len(coupon.ApplicableProductIDs) == 0 && len(coupon.ApplicableCategoryIDs) == 0 {
		return true
	}
	if containsID(coupon.ApplicableProductIDs, item.ProductID) {
		return true
	}
	return intersects(coupon.ApplicableCategoryIDs, item.categoryIDs())
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func intersects(a, b []uuid.UUID) bool {
	for _, id := range b {
		if containsID(a, id) {
			return true
		}
	}
	return false
}

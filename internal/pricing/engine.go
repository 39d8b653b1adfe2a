package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine prices carts. It is stateless apart from its collaborator for the
// per-user coupon usage count, so concurrent calls need no coordination and
// identical inputs always produce identical results.
type Engine struct {
	usageCounter UsageCounter
}

// NewEngine builds an engine. A nil counter disables the per-user usage gate
// lookup by reporting zero prior uses.
func NewEngine(usageCounter UsageCounter) *Engine {
	if usageCounter == nil {
		usageCounter = NoopUsageCounter()
	}
	return &Engine{usageCounter: usageCounter}
}

// PriceCart produces the totals breakdown for a cart without a coupon. Cart
// display surfaces call this on every cart mutation.
func (e *Engine) PriceCart(items []LineItem, rules []BundleRule, policy ShippingPolicy, taxRate decimal.Decimal) (*PricingResult, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	bundleDiscount, breakdown := MatchBundles(items, rules)
	result := Aggregate(items, bundleDiscount, decimal.Zero, policy, taxRate)
	result.BundleBreakdown = breakdown
	return &result, nil
}

// PriceCartWithCoupon validates the supplied coupon against the cart and, on
// success, folds its discount into the totals. Checkout calls this with the
// coupon record already looked up by code; a nil coupon means the lookup
// found nothing and yields a not-found rejection.
func (e *Engine) PriceCartWithCoupon(ctx context.Context, items []LineItem, rules []BundleRule, policy ShippingPolicy, taxRate decimal.Decimal, coupon *Coupon, userID uuid.UUID, now time.Time) (*PricingResult, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if err := e.ValidateCoupon(ctx, coupon, userID, items, now); err != nil {
		return nil, err
	}

	couponDiscount, err := CalculateCouponDiscount(coupon, items)
	if err != nil {
		return nil, err
	}

	bundleDiscount, breakdown := MatchBundles(items, rules)
	result := Aggregate(items, bundleDiscount, couponDiscount.Discount, policy, taxRate)
	result.BundleBreakdown = breakdown
	result.CouponOutcome = &CouponOutcome{
		Code:             CanonicalCode(coupon.Code),
		Kind:             coupon.Kind,
		ApplicableAmount: couponDiscount.ApplicableAmount.Round(2),
		Discount:         couponDiscount.Discount,
	}
	return &result, nil
}

package pricing

import "github.com/shopspring/decimal"

// Aggregate combines the subtotal, both discount stages, shipping, and tax
// into the final breakdown.
//
// The ordering is deliberate and must not be rearranged: the bundle discount
// is subtracted before tax and the free-shipping check, while the coupon
// discount is a pure price reduction applied last. A coupon therefore never
// changes what the shopper pays in tax or shipping.
func Aggregate(items []LineItem, bundleDiscount, couponDiscount decimal.Decimal, policy ShippingPolicy, taxRate decimal.Decimal) PricingResult {
	subtotal := rawSubtotal(items)
	discountedSubtotal := subtotal.Sub(bundleDiscount)

	tax := discountedSubtotal.Mul(taxRate)

	shipping := policy.FlatShippingCost
	if discountedSubtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	total := discountedSubtotal.Add(tax).Add(shipping).Sub(couponDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	// Intermediate math runs at full precision; rounding happens exactly
	// once, here, when the result is emitted.
	return PricingResult{
		Subtotal:       subtotal.Round(2),
		BundleDiscount: bundleDiscount.Round(2),
		CouponDiscount: couponDiscount.Round(2),
		Tax:            tax.Round(2),
		Shipping:       shipping.Round(2),
		Total:          total.Round(2),
	}
}

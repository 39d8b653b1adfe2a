package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// MatchBundles classifies line items into bundle buckets and returns the
// total bundle discount plus a per-rule breakdown.
//
// Each rule selects every item whose SKU contains the rule's pattern as a
// plain case-sensitive substring. The bucket qualifies once the summed
// quantity across matched items reaches the rule's threshold, and a
// qualified bucket discounts ALL of its matched items, not just the units
// past the threshold. Rules are not mutually exclusive: a SKU matching two
// patterns is discounted under both, which the store's SKU naming convention
// is expected to prevent.
//
// Each qualified bucket's discount is rounded to two decimals before being
// summed so a bucket never carries sub-cent residue into the total.
func MatchBundles(items []LineItem, rules []BundleRule) (decimal.Decimal, []BundleOutcome) {
	total := decimal.Zero
	breakdown := make([]BundleOutcome, 0, len(rules))

	for _, rule := range rules {
		if rule.SKUPattern == "" || rule.RequiredQuantity <= 0 {
			continue
		}

		quantity := 0
		bucketSubtotal := decimal.Zero
		for _, item := range items {
			if !strings.Contains(item.SKU, rule.SKUPattern) {
				continue
			}
			quantity += item.Quantity
			bucketSubtotal = bucketSubtotal.Add(item.LineTotal())
		}
		if quantity == 0 {
			continue
		}

		outcome := BundleOutcome{
			SKUPattern:     rule.SKUPattern,
			TotalQuantity:  quantity,
			BucketSubtotal: bucketSubtotal,
			Discount:       decimal.Zero,
		}
		if quantity >= rule.RequiredQuantity {
			outcome.Qualified = true
			outcome.Discount = rule.DiscountPercent.Div(oneHundred).Mul(bucketSubtotal).Round(2)
			total = total.Add(outcome.Discount)
		}
		breakdown = append(breakdown, outcome)
	}

	return total, breakdown
}

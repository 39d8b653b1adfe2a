package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMatchBundlesQualifiedBucket(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{SKU: "FLO28G-OG-KUSH", UnitPrice: dec("10"), Quantity: 3},
		{SKU: "FLO28G-BLUE-DREAM", UnitPrice: dec("10"), Quantity: 1},
	}
	rules := []BundleRule{{SKUPattern: "FLO28G", RequiredQuantity: 4, DiscountPercent: dec("15")}}

	total, breakdown := MatchBundles(items, rules)
	if !total.Equal(dec("6.00")) {
		t.Fatalf("expected 6.00 discount, got %s", total)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(breakdown))
	}
	out := breakdown[0]
	if !out.Qualified || out.TotalQuantity != 4 {
		t.Fatalf("expected qualified bucket of 4, got %+v", out)
	}
	if !out.BucketSubtotal.Equal(dec("40")) {
		t.Fatalf("expected bucket subtotal 40, got %s", out.BucketSubtotal)
	}
}

func TestMatchBundlesBelowThreshold(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{SKU: "FLO28G-OG-KUSH", UnitPrice: dec("10"), Quantity: 3},
	}
	rules := []BundleRule{{SKUPattern: "FLO28G", RequiredQuantity: 4, DiscountPercent: dec("15")}}

	total, breakdown := MatchBundles(items, rules)
	if !total.IsZero() {
		t.Fatalf("expected zero discount below threshold, got %s", total)
	}
	if len(breakdown) != 1 || breakdown[0].Qualified {
		t.Fatalf("expected single unqualified outcome, got %+v", breakdown)
	}
	if !breakdown[0].Discount.IsZero() {
		t.Fatalf("unqualified bucket must carry zero discount, got %s", breakdown[0].Discount)
	}
}

func TestMatchBundlesQualifyingUnitUnlocksWholeBucket(t *testing.T) {
	t.Parallel()

	rules := []BundleRule{{SKUPattern: "HAS7G", RequiredQuantity: 4, DiscountPercent: dec("15")}}
	three := []LineItem{{SKU: "HAS7G-TEMPLE", UnitPrice: dec("25"), Quantity: 3}}
	four := []LineItem{{SKU: "HAS7G-TEMPLE", UnitPrice: dec("25"), Quantity: 4}}

	before, _ := MatchBundles(three, rules)
	after, _ := MatchBundles(four, rules)

	if !before.IsZero() {
		t.Fatalf("expected no discount at 3 units, got %s", before)
	}
	// 15% of 100, every unit discounted once the fourth arrives.
	if !after.Equal(dec("15.00")) {
		t.Fatalf("expected 15.00 at 4 units, got %s", after)
	}
}

func TestMatchBundlesAggregatesAcrossSKUs(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{SKU: "FLO7G-GELATO", UnitPrice: dec("12"), Quantity: 2},
		{SKU: "FLO7G-RUNTZ", UnitPrice: dec("14"), Quantity: 2},
		{SKU: "SHA28G-DIAMOND", UnitPrice: dec("90"), Quantity: 1},
	}
	rules := []BundleRule{
		{SKUPattern: "FLO7G", RequiredQuantity: 4, DiscountPercent: dec("15")},
		{SKUPattern: "SHA28G", RequiredQuantity: 4, DiscountPercent: dec("15")},
	}

	total, breakdown := MatchBundles(items, rules)
	// FLO7G bucket: 15% of (24 + 28) = 7.80. SHA28G stays unqualified.
	if !total.Equal(dec("7.80")) {
		t.Fatalf("expected 7.80, got %s", total)
	}
	if len(breakdown) != 2 {
		t.Fatalf("expected both buckets reported, got %+v", breakdown)
	}
	if breakdown[1].Qualified {
		t.Fatalf("SHA28G bucket should not qualify with 1 unit")
	}
}

func TestMatchBundlesSkipsEmptyAndMalformedRules(t *testing.T) {
	t.Parallel()

	items := []LineItem{{SKU: "FLO28G-OG", UnitPrice: dec("10"), Quantity: 4}}
	rules := []BundleRule{
		{SKUPattern: "", RequiredQuantity: 4, DiscountPercent: dec("15")},
		{SKUPattern: "GUMMY", RequiredQuantity: 4, DiscountPercent: dec("15")},
		{SKUPattern: "FLO28G", RequiredQuantity: 0, DiscountPercent: dec("15")},
	}

	total, breakdown := MatchBundles(items, rules)
	if !total.IsZero() || len(breakdown) != 0 {
		t.Fatalf("expected no outcomes, got total=%s breakdown=%+v", total, breakdown)
	}
}

func TestMatchBundlesRoundsPerBucket(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{SKU: "FLO7G-A", UnitPrice: dec("10.01"), Quantity: 4},
		{SKU: "HAS7G-B", UnitPrice: dec("10.01"), Quantity: 4},
	}
	rules := []BundleRule{
		{SKUPattern: "FLO7G", RequiredQuantity: 4, DiscountPercent: dec("15")},
		{SKUPattern: "HAS7G", RequiredQuantity: 4, DiscountPercent: dec("15")},
	}

	total, breakdown := MatchBundles(items, rules)
	// 15% of 40.04 is 6.006, rounded to 6.01 per bucket before summing.
	for _, out := range breakdown {
		if !out.Discount.Equal(dec("6.01")) {
			t.Fatalf("expected per-bucket 6.01, got %s", out.Discount)
		}
	}
	if !total.Equal(dec("12.02")) {
		t.Fatalf("expected 12.02 summed, got %s", total)
	}
}

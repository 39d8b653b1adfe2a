package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

var testPolicy = ShippingPolicy{
	FreeShippingThreshold: dec("50"),
	FlatShippingCost:      dec("9.99"),
}

func TestAggregateTaxOnDiscountedSubtotal(t *testing.T) {
	t.Parallel()

	items := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("25"), Quantity: 4}}

	got := Aggregate(items, dec("15"), decimal.Zero, testPolicy, dec("0.08"))
	if !got.Subtotal.Equal(dec("100.00")) {
		t.Fatalf("expected subtotal 100.00, got %s", got.Subtotal)
	}
	// Tax base is 85, not 100.
	if !got.Tax.Equal(dec("6.80")) {
		t.Fatalf("expected tax 6.80, got %s", got.Tax)
	}
	if !got.Shipping.IsZero() {
		t.Fatalf("expected free shipping, got %s", got.Shipping)
	}
	if !got.Total.Equal(dec("91.80")) {
		t.Fatalf("expected total 91.80, got %s", got.Total)
	}
}

func TestAggregateShippingUsesBundleDiscountedSubtotal(t *testing.T) {
	t.Parallel()

	// Raw subtotal 55 would ride free, but the bundle discount drops the
	// shipping base to 45, below the 50 threshold.
	items := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("55"), Quantity: 1}}

	got := Aggregate(items, dec("10"), decimal.Zero, testPolicy, decimal.Zero)
	if !got.Shipping.Equal(dec("9.99")) {
		t.Fatalf("expected flat shipping, got %s", got.Shipping)
	}
}

func TestAggregateThresholdIsExclusive(t *testing.T) {
	t.Parallel()

	atThreshold := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("50"), Quantity: 1}}
	got := Aggregate(atThreshold, decimal.Zero, decimal.Zero, testPolicy, decimal.Zero)
	if !got.Shipping.Equal(dec("9.99")) {
		t.Fatalf("exactly at threshold still pays shipping, got %s", got.Shipping)
	}

	over := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("50.01"), Quantity: 1}}
	got = Aggregate(over, decimal.Zero, decimal.Zero, testPolicy, decimal.Zero)
	if !got.Shipping.IsZero() {
		t.Fatalf("a cent over the threshold rides free, got %s", got.Shipping)
	}
}

func TestAggregateCouponDoesNotAffectTaxOrShipping(t *testing.T) {
	t.Parallel()

	items := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("60"), Quantity: 1}}

	without := Aggregate(items, decimal.Zero, decimal.Zero, testPolicy, dec("0.08"))
	with := Aggregate(items, decimal.Zero, dec("20"), testPolicy, dec("0.08"))

	if !with.Tax.Equal(without.Tax) {
		t.Fatalf("coupon changed tax: %s vs %s", with.Tax, without.Tax)
	}
	if !with.Shipping.Equal(without.Shipping) {
		t.Fatalf("coupon changed shipping: %s vs %s", with.Shipping, without.Shipping)
	}
	if !with.Total.Equal(without.Total.Sub(dec("20"))) {
		t.Fatalf("coupon must reduce the total by exactly its discount: %s vs %s", with.Total, without.Total)
	}
}

func TestAggregateTotalFlooredAtZero(t *testing.T) {
	t.Parallel()

	items := []LineItem{{SKU: "FLO7G-OG", UnitPrice: dec("5"), Quantity: 1}}

	got := Aggregate(items, decimal.Zero, dec("100"), testPolicy, decimal.Zero)
	if !got.Total.IsZero() {
		t.Fatalf("expected total floored at zero, got %s", got.Total)
	}
}

func TestAggregateEmptyCart(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil, decimal.Zero, decimal.Zero, testPolicy, dec("0.08"))
	if !got.Subtotal.IsZero() || !got.Tax.IsZero() {
		t.Fatalf("expected zero subtotal and tax, got %+v", got)
	}
	if !got.Shipping.Equal(dec("9.99")) {
		t.Fatalf("empty cart below threshold still shows flat shipping, got %s", got.Shipping)
	}
}

package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/pkg/enums"
	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
)

// LineItem is the normalized snapshot of a cart entry used for one pricing
// computation. The catalog layer resolves prices and category memberships
// before handing items to the engine; the engine never mutates them.
type LineItem struct {
	ProductID            uuid.UUID
	VariantID            *uuid.UUID
	SKU                  string
	UnitPrice            decimal.Decimal
	Quantity             int
	PrimaryCategoryID    uuid.UUID
	SecondaryCategoryIDs []uuid.UUID
}

// LineTotal returns unit price times quantity at full precision.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li LineItem) categoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(li.SecondaryCategoryIDs)+1)
	if li.PrimaryCategoryID != uuid.Nil {
		ids = append(ids, li.PrimaryCategoryID)
	}
	ids = append(ids, li.SecondaryCategoryIDs...)
	return ids
}

// BundleRule is one admin-configured bundle tier: any cart items whose SKU
// contains the pattern count toward the tier's quantity threshold.
type BundleRule struct {
	SKUPattern       string
	RequiredQuantity int
	DiscountPercent  decimal.Decimal
}

// BundleOutcome reports how a single rule fared against the cart.
type BundleOutcome struct {
	SKUPattern     string          `json:"sku_pattern"`
	TotalQuantity  int             `json:"total_quantity"`
	Qualified      bool            `json:"qualified"`
	BucketSubtotal decimal.Decimal `json:"bucket_subtotal"`
	Discount       decimal.Decimal `json:"discount"`
}

// ShippingPolicy is the store-wide shipping configuration.
type ShippingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingCost      decimal.Decimal
}

// Coupon is the resolved coupon record handed in by the persistence layer.
// All referenced product/category IDs arrive as typed UUIDs; the repo layer
// owns the translation from stored representations.
type Coupon struct {
	Code                  string
	Kind                  enums.CouponKind
	Value                 decimal.Decimal
	MinimumOrderAmount    *decimal.Decimal
	MaximumDiscountAmount *decimal.Decimal
	UsageLimit            *int
	UsageCount            int
	UserUsageLimit        *int
	ValidFrom             time.Time
	ValidUntil            time.Time
	IsActive              bool
	ApplicableProductIDs  []uuid.UUID
	ExcludedProductIDs    []uuid.UUID
	ApplicableCategoryIDs []uuid.UUID
	ExcludedCategoryIDs   []uuid.UUID
}

// CanonicalCode returns the uppercase form codes are compared under.
func CanonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponOutcome records what a successfully applied coupon contributed.
type CouponOutcome struct {
	Code             string           `json:"code"`
	Kind             enums.CouponKind `json:"kind"`
	ApplicableAmount decimal.Decimal `json:"applicable_amount"`
	Discount         decimal.Decimal `json:"discount"`
}

// PricingResult is the full totals breakdown returned to the checkout/cart
// collaborators. Monetary fields are rounded to two decimals on emission.
type PricingResult struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	BundleDiscount  decimal.Decimal `json:"bundle_discount"`
	CouponDiscount  decimal.Decimal `json:"coupon_discount"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	BundleBreakdown []BundleOutcome `json:"bundle_breakdown"`
	CouponOutcome   *CouponOutcome  `json:"coupon_outcome,omitempty"`
}

// rawSubtotal sums unit price times quantity across all items at full
// precision. Both the coupon minimum-order gate and the aggregator use it.
func rawSubtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// validateItems fails fast on malformed collaborator input. Bad quantities or
// prices are programmer/data errors, not user-facing rejections.
func validateItems(items []LineItem) error {
	for _, item := range items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %s has non-positive quantity", item.SKU))
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line item %s has negative unit price", item.SKU))
		}
	}
	return nil
}

// validateCoupon fails fast on structurally invalid coupon records.
func validateCoupon(coupon *Coupon) error {
	if coupon == nil {
		return nil
	}
	if !coupon.ValidUntil.After(coupon.ValidFrom) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon valid_until must be after valid_from")
	}
	if !coupon.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid coupon kind %q", coupon.Kind))
	}
	if coupon.Value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon value cannot be negative")
	}
	if coupon.Kind == enums.CouponKindPercentage && coupon.Value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage coupon value cannot exceed 100")
	}
	return nil
}

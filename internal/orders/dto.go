package orders

import (
	"github.com/google/uuid"

	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"github.com/calyxlabs/herbcart-backend/pkg/enums"
)

// NewOrderFromPricing stamps a priced cart into an order record with its
// line-item snapshots. The coupon code is stored in canonical form when one
// was applied; totals are copied verbatim from the engine's result.
func NewOrderFromPricing(userID uuid.UUID, items []pricing.LineItem, result *pricing.PricingResult) *models.Order {
	order := &models.Order{
		ID:             uuid.New(),
		UserID:         userID,
		Status:         enums.OrderStatusPending,
		Subtotal:       result.Subtotal,
		BundleDiscount: result.BundleDiscount,
		CouponDiscount: result.CouponDiscount,
		Tax:            result.Tax,
		Shipping:       result.Shipping,
		Total:          result.Total,
	}
	if result.CouponOutcome != nil {
		code := result.CouponOutcome.Code
		order.CouponCode = &code
	}

	order.Items = make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, models.OrderLineItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			SKU:       item.SKU,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Round(2),
		})
	}
	return order
}

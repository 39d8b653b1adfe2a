package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/api/responses"
	"github.com/calyxlabs/herbcart-backend/api/validators"
	checkoutsvc "github.com/calyxlabs/herbcart-backend/internal/checkout"
	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
	"github.com/calyxlabs/herbcart-backend/pkg/logger"
)

// CartPrice quotes a cart without a coupon. Cart display surfaces call this
// on every mutation.
func CartPrice(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload priceCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PriceCart(r.Context(), payload.userID(), payload.engineItems())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutPrice quotes a cart with an optional coupon code applied.
func CheckoutPrice(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil && payload.CouponCode != "" {
			ctx = logg.WithCouponCode(ctx, pricing.CanonicalCode(payload.CouponCode))
		}

		result, err := svc.PriceCheckout(ctx, payload.userID(), payload.engineItems(), payload.CouponCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutComplete prices the cart a final time and stamps the order.
func CheckoutComplete(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithUserID(ctx, payload.userID().String())
		}

		order, result, err := svc.Complete(ctx, payload.userID(), payload.engineItems(), payload.CouponCode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutCompleteResponse{
			OrderID: order.ID,
			Status:  string(order.Status),
			Pricing: result,
		})
	}
}

type lineItemRequest struct {
	ProductID            uuid.UUID       `json:"product_id" validate:"required"`
	VariantID            *uuid.UUID      `json:"variant_id,omitempty"`
	SKU                  string          `json:"sku" validate:"required"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	Quantity             int             `json:"quantity" validate:"required,gt=0"`
	PrimaryCategoryID    uuid.UUID       `json:"primary_category_id,omitempty"`
	SecondaryCategoryIDs []uuid.UUID     `json:"secondary_category_ids,omitempty"`
}

type priceCartRequest struct {
	UserID *uuid.UUID        `json:"user_id,omitempty"`
	Items  []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type checkoutRequest struct {
	UserID     *uuid.UUID        `json:"user_id,omitempty"`
	Items      []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	CouponCode string            `json:"coupon_code,omitempty" validate:"omitempty,max=64"`
}

type checkoutCompleteResponse struct {
	OrderID uuid.UUID              `json:"order_id"`
	Status  string                 `json:"status"`
	Pricing *pricing.PricingResult `json:"pricing"`
}

func (r priceCartRequest) userID() uuid.UUID {
	return derefUserID(r.UserID)
}

func (r priceCartRequest) engineItems() []pricing.LineItem {
	return toEngineItems(r.Items)
}

func (r checkoutRequest) userID() uuid.UUID {
	return derefUserID(r.UserID)
}

func (r checkoutRequest) engineItems() []pricing.LineItem {
	return toEngineItems(r.Items)
}

func derefUserID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func toEngineItems(items []lineItemRequest) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, pricing.LineItem{
			ProductID:            item.ProductID,
			VariantID:            item.VariantID,
			SKU:                  item.SKU,
			UnitPrice:            item.UnitPrice,
			Quantity:             item.Quantity,
			PrimaryCategoryID:    item.PrimaryCategoryID,
			SecondaryCategoryIDs: item.SecondaryCategoryIDs,
		})
	}
	return out
}

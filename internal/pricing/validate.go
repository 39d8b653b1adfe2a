package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
)

// UsageCounter reports how many prior non-cancelled orders the user has
// completed with the given coupon code. The orders layer supplies the real
// implementation; the engine itself performs no I/O beyond this lookup.
type UsageCounter interface {
	CountCouponUses(ctx context.Context, userID uuid.UUID, code string) (int, error)
}

// UsageCounterFunc adapts a plain function into a UsageCounter.
type UsageCounterFunc func(ctx context.Context, userID uuid.UUID, code string) (int, error)

// CountCouponUses implements UsageCounter.
func (fn UsageCounterFunc) CountCouponUses(ctx context.Context, userID uuid.UUID, code string) (int, error) {
	return fn(ctx, userID, code)
}

// NoopUsageCounter returns a counter that reports zero prior uses. It backs
// anonymous checkouts and tests.
func NoopUsageCounter() UsageCounter {
	return UsageCounterFunc(func(ctx context.Context, userID uuid.UUID, code string) (int, error) {
		return 0, nil
	})
}

// ValidateCoupon runs the sequential eligibility gates for a coupon against
// the cart, short-circuiting on the first failure. Failures are *CouponError
// values carrying a user-facing reason; the cart is never touched.
//
// The minimum-order gate deliberately checks the RAW cart subtotal, before
// any bundle discount is subtracted.
func (e *Engine) ValidateCoupon(ctx context.Context, coupon *Coupon, userID uuid.UUID, items []LineItem, now time.Time) error {
	if coupon == nil {
		return rejection(ReasonCouponNotFound)
	}
	if err := validateCoupon(coupon); err != nil {
		return err
	}
	if !coupon.IsActive {
		return rejection(ReasonCouponInactive)
	}
	if now.Before(coupon.ValidFrom) {
		return rejection(ReasonCouponNotYetActive)
	}
	if now.After(coupon.ValidUntil) {
		return rejection(ReasonCouponExpired)
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return rejection(ReasonGlobalUsageLimitReached)
	}

	if coupon.UserUsageLimit != nil && userID != uuid.Nil {
		used, err := e.usageCounter.CountCouponUses(ctx, userID, CanonicalCode(coupon.Code))
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count coupon uses")
		}
		if used >= *coupon.UserUsageLimit {
			return rejection(ReasonUserUsageLimitReached)
		}
	}

	if coupon.MinimumOrderAmount != nil && rawSubtotal(items).LessThan(*coupon.MinimumOrderAmount) {
		return rejection(ReasonMinimumOrderNotMet)
	}

	return nil
}

package pricing

import "errors"

// RejectionReason enumerates the user-facing grounds for refusing a coupon.
// None of them are transient; callers surface them verbatim and never retry.
type RejectionReason string

const (
	ReasonCouponNotFound          RejectionReason = "coupon_not_found"
	ReasonCouponInactive          RejectionReason = "coupon_inactive"
	ReasonCouponNotYetActive      RejectionReason = "coupon_not_yet_active"
	ReasonCouponExpired           RejectionReason = "coupon_expired"
	ReasonGlobalUsageLimitReached RejectionReason = "global_usage_limit_reached"
	ReasonUserUsageLimitReached   RejectionReason = "user_usage_limit_reached"
	ReasonMinimumOrderNotMet      RejectionReason = "minimum_order_not_met"
	ReasonCouponNotApplicable     RejectionReason = "coupon_not_applicable"
)

var rejectionMessages = map[RejectionReason]string{
	ReasonCouponNotFound:          "coupon code not found",
	ReasonCouponInactive:          "this coupon is no longer active",
	ReasonCouponNotYetActive:      "this coupon is not active yet",
	ReasonCouponExpired:           "this coupon has expired",
	ReasonGlobalUsageLimitReached: "this coupon has reached its usage limit",
	ReasonUserUsageLimitReached:   "you have already used this coupon the maximum number of times",
	ReasonMinimumOrderNotMet:      "your order does not meet the minimum amount for this coupon",
	ReasonCouponNotApplicable:     "this coupon does not apply to any item in your cart",
}

// CouponError carries a typed rejection reason alongside the message shown to
// the shopper.
type CouponError struct {
	Reason RejectionReason
}

func rejection(reason RejectionReason) *CouponError {
	return &CouponError{Reason: reason}
}

// Error implements the error interface.
func (e *CouponError) Error() string {
	if msg, ok := rejectionMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

// RejectionFrom unwraps err into a CouponError, or nil when err is not a
// coupon rejection.
func RejectionFrom(err error) *CouponError {
	var typed *CouponError
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

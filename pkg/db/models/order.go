package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/pkg/enums"
)

// Order stamps a completed checkout's totals breakdown, including which
// coupon code (if any) was applied, for audit and per-user usage counting.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Status         enums.OrderStatus `gorm:"column:status;type:order_status;not null;default:'pending'"`
	CouponCode     *string           `gorm:"column:coupon_code"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	BundleDiscount decimal.Decimal   `gorm:"column:bundle_discount;type:numeric(12,2);not null"`
	CouponDiscount decimal.Decimal   `gorm:"column:coupon_discount;type:numeric(12,2);not null"`
	Tax            decimal.Decimal   `gorm:"column:tax;type:numeric(12,2);not null"`
	Shipping       decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Items          []OrderLineItem   `gorm:"foreignKey:OrderID"`
	CancelledAt    *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

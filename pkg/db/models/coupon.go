package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/calyxlabs/herbcart-backend/pkg/enums"
)

// Coupon is the admin-managed coupon record. Codes are stored uppercase and
// looked up case-insensitively. The product/category scoping columns hold
// UUIDs as text[]; the coupons repo resolves them to typed IDs before the
// pricing engine ever sees them.
type Coupon struct {
	ID                    uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                  string           `gorm:"column:code;not null;uniqueIndex"`
	Kind                  enums.CouponKind `gorm:"column:kind;type:coupon_kind;not null"`
	Value                 decimal.Decimal  `gorm:"column:value;type:numeric(12,2);not null"`
	MinimumOrderAmount    *decimal.Decimal `gorm:"column:minimum_order_amount;type:numeric(12,2)"`
	MaximumDiscountAmount *decimal.Decimal `gorm:"column:maximum_discount_amount;type:numeric(12,2)"`
	UsageLimit            *int             `gorm:"column:usage_limit"`
	UsageCount            int              `gorm:"column:usage_count;not null;default:0"`
	UserUsageLimit        *int             `gorm:"column:user_usage_limit"`
	ValidFrom             time.Time        `gorm:"column:valid_from;not null"`
	ValidUntil            time.Time        `gorm:"column:valid_until;not null"`
	IsActive              bool             `gorm:"column:is_active;not null;default:true"`
	ApplicableProductIDs  pq.StringArray   `gorm:"column:applicable_product_ids;type:text[];default:ARRAY[]::text[]"`
	ExcludedProductIDs    pq.StringArray   `gorm:"column:excluded_product_ids;type:text[];default:ARRAY[]::text[]"`
	ApplicableCategoryIDs pq.StringArray   `gorm:"column:applicable_category_ids;type:text[];default:ARRAY[]::text[]"`
	ExcludedCategoryIDs   pq.StringArray   `gorm:"column:excluded_category_ids;type:text[];default:ARRAY[]::text[]"`
	CreatedAt             time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

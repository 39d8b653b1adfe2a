package coupons

import (
	"context"

	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines persistence operations for coupon records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	Redeem(ctx context.Context, code string) error
}

package coupons

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	"github.com/calyxlabs/herbcart-backend/pkg/db"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a coupons repository bound to the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	coupon.Code = pricing.CanonicalCode(coupon.Code)
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_coupons_code") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon code already exists")
		}
		return nil, err
	}
	return coupon, nil
}

// FindByCode looks a coupon up by its canonical uppercase code. A missing
// code returns (nil, nil) so the engine can produce its own not-found
// rejection.
func (r *repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", pricing.CanonicalCode(code)).
		First(&coupon).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// Redeem increments the coupon's global usage count with the limit enforced
// in the same statement, so two concurrent checkouts cannot both take the
// last slot. A zero-row update means the limit was hit between validation
// and redemption.
func (r *repository) Redeem(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", pricing.CanonicalCode(code)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "coupon usage limit reached")
	}
	return nil
}

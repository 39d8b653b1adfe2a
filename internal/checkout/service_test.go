package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/calyxlabs/herbcart-backend/internal/coupons"
	"github.com/calyxlabs/herbcart-backend/internal/orders"
	"github.com/calyxlabs/herbcart-backend/internal/pricing"
	"github.com/calyxlabs/herbcart-backend/internal/settings"
	"github.com/calyxlabs/herbcart-backend/pkg/config"
	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"github.com/calyxlabs/herbcart-backend/pkg/enums"
	pkgerrors "github.com/calyxlabs/herbcart-backend/pkg/errors"
	"github.com/calyxlabs/herbcart-backend/pkg/logger"
)

type testTxRunner struct {
	db *gorm.DB
}

func (t testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return t.db.WithContext(ctx).Transaction(fn)
}

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  kind TEXT NOT NULL,
  value TEXT NOT NULL,
  minimum_order_amount TEXT,
  maximum_discount_amount TEXT,
  usage_limit INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  user_usage_limit INTEGER,
  valid_from DATETIME NOT NULL,
  valid_until DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  applicable_product_ids TEXT,
  excluded_product_ids TEXT,
  applicable_category_ids TEXT,
  excluded_category_ids TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  coupon_code TEXT,
  subtotal TEXT NOT NULL,
  bundle_discount TEXT NOT NULL,
  coupon_discount TEXT NOT NULL,
  tax TEXT NOT NULL,
  shipping TEXT NOT NULL,
  total TEXT NOT NULL,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_line_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT,
  sku TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS bundle_rules (
  id TEXT PRIMARY KEY,
  sku_pattern TEXT NOT NULL UNIQUE,
  required_quantity INTEGER NOT NULL,
  discount_percent TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS store_settings (
  id INTEGER PRIMARY KEY,
  free_shipping_threshold TEXT NOT NULL,
  flat_shipping_cost TEXT NOT NULL,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	cfg := config.PricingConfig{
		TaxRate:                      decimal.RequireFromString("0.08"),
		DefaultFreeShippingThreshold: decimal.RequireFromString("50"),
		DefaultFlatShippingCost:      decimal.RequireFromString("9.99"),
	}

	settingsRepo := settings.NewRepository(db)
	require.NoError(t, settings.Seed(context.Background(), settingsRepo, cfg))

	couponsRepo := coupons.NewRepository(db)
	loader := coupons.NewLoader(couponsRepo, nil, 0, nil)
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})

	svc, err := NewService(testTxRunner{db: db}, loader, couponsRepo, orders.NewRepository(db), settingsRepo, cfg, nil, logg)
	require.NoError(t, err)
	return svc
}

func seedCoupon(t *testing.T, db *gorm.DB, mutate func(*models.Coupon)) *models.Coupon {
	t.Helper()

	now := time.Now().UTC()
	coupon := &models.Coupon{
		ID:         uuid.New(),
		Code:       "SAVE10",
		Kind:       enums.CouponKindFixed,
		Value:      decimal.RequireFromString("10"),
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   true,
	}
	if mutate != nil {
		mutate(coupon)
	}
	created, err := coupons.NewRepository(db).Create(context.Background(), coupon)
	require.NoError(t, err)
	return created
}

func bundleCart() []pricing.LineItem {
	return []pricing.LineItem{
		{ProductID: uuid.New(), SKU: "FLO28G-OG-KUSH", UnitPrice: decimal.RequireFromString("40"), Quantity: 4},
	}
}

func TestServiceCompleteEndToEnd(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestService(t, db)
	seedCoupon(t, db, nil)

	userID := uuid.New()
	order, result, err := svc.Complete(context.Background(), userID, bundleCart(), "save10")
	require.NoError(t, err)

	assert.True(t, result.Subtotal.Equal(decimal.RequireFromString("160.00")))
	assert.True(t, result.BundleDiscount.Equal(decimal.RequireFromString("24.00")))
	assert.True(t, result.CouponDiscount.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, result.Tax.Equal(decimal.RequireFromString("10.88")))
	assert.True(t, result.Shipping.IsZero())
	assert.True(t, result.Total.Equal(decimal.RequireFromString("136.88")))

	stored, err := orders.NewRepository(db).FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, stored.Status)
	require.NotNil(t, stored.CouponCode)
	assert.Equal(t, "SAVE10", *stored.CouponCode)
	require.Len(t, stored.Items, 1)

	coupon, err := coupons.NewRepository(db).FindByCode(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsageCount)
}

func TestServicePriceCheckoutUnknownCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.PriceCheckout(context.Background(), uuid.New(), bundleCart(), "NOPE")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponRejected, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "coupon_not_found", details["reason"])
}

func TestServicePerUserLimitAcrossCheckouts(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestService(t, db)
	seedCoupon(t, db, func(c *models.Coupon) {
		limit := 1
		c.UserUsageLimit = &limit
	})

	userID := uuid.New()
	_, _, err := svc.Complete(context.Background(), userID, bundleCart(), "SAVE10")
	require.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), userID, bundleCart(), "SAVE10")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponRejected, typed.Code())

	// A different shopper is unaffected.
	_, _, err = svc.Complete(context.Background(), uuid.New(), bundleCart(), "SAVE10")
	require.NoError(t, err)
}

func TestServiceGlobalLimitStopsCheckout(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestService(t, db)
	seedCoupon(t, db, func(c *models.Coupon) {
		limit := 1
		c.UsageLimit = &limit
	})

	_, _, err := svc.Complete(context.Background(), uuid.New(), bundleCart(), "SAVE10")
	require.NoError(t, err)

	_, _, err = svc.Complete(context.Background(), uuid.New(), bundleCart(), "SAVE10")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeCouponRejected, typed.Code())
}

func TestServicePriceCartWithoutCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	svc := newTestService(t, db)

	result, err := svc.PriceCart(context.Background(), uuid.New(), []pricing.LineItem{
		{ProductID: uuid.New(), SKU: "HAS7G-TEMPLE", UnitPrice: decimal.RequireFromString("25"), Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, result.Subtotal.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, result.Shipping.Equal(decimal.RequireFromString("9.99")))
	assert.Nil(t, result.CouponOutcome)

	// Blank codes take the couponless path rather than a not-found rejection.
	result, err = svc.PriceCheckout(context.Background(), uuid.New(), bundleCart(), "  ")
	require.NoError(t, err)
	assert.Nil(t, result.CouponOutcome)
}

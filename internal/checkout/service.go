package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
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
	"github.com/calyxlabs/herbcart-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type couponLoader interface {
	Load(ctx context.Context, code string) (*models.Coupon, error)
	Invalidate(ctx context.Context, code string)
}

// Service orchestrates cart pricing and checkout completion.
type Service interface {
	PriceCart(ctx context.Context, userID uuid.UUID, items []pricing.LineItem) (*pricing.PricingResult, error)
	PriceCheckout(ctx context.Context, userID uuid.UUID, items []pricing.LineItem, couponCode string) (*pricing.PricingResult, error)
	Complete(ctx context.Context, userID uuid.UUID, items []pricing.LineItem, couponCode string) (*models.Order, *pricing.PricingResult, error)
}

type service struct {
	tx           txRunner
	engine       *pricing.Engine
	couponLoader couponLoader
	couponsRepo  coupons.Repository
	ordersRepo   orders.Repository
	settingsRepo settings.Repository
	pricingCfg   config.PricingConfig
	metrics      *metrics.PricingMetrics
	logg         *logger.Logger
	now          func() time.Time
}

// NewService builds the checkout service. The engine's per-user usage gate
// is wired to the orders repository here.
func NewService(
	tx txRunner,
	loader couponLoader,
	couponsRepo coupons.Repository,
	ordersRepo orders.Repository,
	settingsRepo settings.Repository,
	pricingCfg config.PricingConfig,
	pricingMetrics *metrics.PricingMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if loader == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	if couponsRepo == nil {
		return nil, fmt.Errorf("coupons repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if settingsRepo == nil {
		return nil, fmt.Errorf("settings repository required")
	}

	engine := pricing.NewEngine(pricing.UsageCounterFunc(ordersRepo.CountCouponUses))
	return &service{
		tx:           tx,
		engine:       engine,
		couponLoader: loader,
		couponsRepo:  couponsRepo,
		ordersRepo:   ordersRepo,
		settingsRepo: settingsRepo,
		pricingCfg:   pricingCfg,
		metrics:      pricingMetrics,
		logg:         logg,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) PriceCart(ctx context.Context, userID uuid.UUID, items []pricing.LineItem) (*pricing.PricingResult, error) {
	started := s.now()
	rules, policy, err := s.loadPricingInputs(ctx)
	if err != nil {
		s.metrics.IncPriced("price_cart", "error")
		return nil, err
	}

	result, err := s.engine.PriceCart(items, rules, policy, s.pricingCfg.TaxRate)
	s.metrics.ObserveDuration("price_cart", s.now().Sub(started))
	if err != nil {
		s.metrics.IncPriced("price_cart", "error")
		return nil, err
	}
	s.metrics.IncPriced("price_cart", "success")
	return result, nil
}

func (s *service) PriceCheckout(ctx context.Context, userID uuid.UUID, items []pricing.LineItem, couponCode string) (*pricing.PricingResult, error) {
	if pricing.CanonicalCode(couponCode) == "" {
		return s.PriceCart(ctx, userID, items)
	}

	started := s.now()
	result, err := s.priceWithCoupon(ctx, userID, items, couponCode)
	s.metrics.ObserveDuration("price_checkout", s.now().Sub(started))
	if err != nil {
		if rej := pricing.RejectionFrom(err); rej != nil {
			s.metrics.IncPriced("price_checkout", "rejected")
			s.metrics.IncRejection(string(rej.Reason))
			return nil, couponRejectedError(rej)
		}
		s.metrics.IncPriced("price_checkout", "error")
		return nil, err
	}
	s.metrics.IncPriced("price_checkout", "success")
	return result, nil
}

// Complete prices the cart one final time and, when the totals hold, stamps
// the order and redeems the coupon in a single transaction. The redemption's
// conditional update closes the window between validation and commit.
func (s *service) Complete(ctx context.Context, userID uuid.UUID, items []pricing.LineItem, couponCode string) (*models.Order, *pricing.PricingResult, error) {
	result, err := s.PriceCheckout(ctx, userID, items, couponCode)
	if err != nil {
		s.metrics.IncPriced("complete", "error")
		return nil, nil, err
	}

	order := orders.NewOrderFromPricing(userID, items, result)
	order.Status = enums.OrderStatusCompleted

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if order.CouponCode != nil {
			if err := s.couponsRepo.WithTx(tx).Redeem(ctx, *order.CouponCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncPriced("complete", "error")
		return nil, nil, err
	}

	if order.CouponCode != nil {
		s.couponLoader.Invalidate(ctx, *order.CouponCode)
		ctx = s.logg.WithCouponCode(ctx, *order.CouponCode)
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "checkout completed")
	s.metrics.IncPriced("complete", "success")
	return order, result, nil
}

func (s *service) priceWithCoupon(ctx context.Context, userID uuid.UUID, items []pricing.LineItem, couponCode string) (*pricing.PricingResult, error) {
	rules, policy, err := s.loadPricingInputs(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.couponLoader.Load(ctx, couponCode)
	if err != nil {
		return nil, err
	}
	coupon, err := coupons.ToEngineCoupon(record)
	if err != nil {
		return nil, err
	}

	return s.engine.PriceCartWithCoupon(ctx, items, rules, policy, s.pricingCfg.TaxRate, coupon, userID, s.now())
}

func (s *service) loadPricingInputs(ctx context.Context) ([]pricing.BundleRule, pricing.ShippingPolicy, error) {
	ruleRecords, err := s.settingsRepo.ListActiveBundleRules(ctx)
	if err != nil {
		return nil, pricing.ShippingPolicy{}, err
	}
	storeSettings, err := s.settingsRepo.GetStoreSettings(ctx)
	if err != nil {
		return nil, pricing.ShippingPolicy{}, err
	}
	return settings.EngineRules(ruleRecords), settings.ShippingPolicy(storeSettings, s.pricingCfg), nil
}

// couponRejectedError translates an engine rejection into the API error
// shape, keeping the machine-readable reason in the details payload.
func couponRejectedError(rej *pricing.CouponError) error {
	return pkgerrors.New(pkgerrors.CodeCouponRejected, rej.Error()).
		WithDetails(map[string]any{"reason": string(rej.Reason)})
}

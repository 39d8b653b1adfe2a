package coupons

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/calyxlabs/herbcart-backend/pkg/db/models"
	"github.com/calyxlabs/herbcart-backend/pkg/logger"
	"github.com/calyxlabs/herbcart-backend/pkg/redis"

	"github.com/calyxlabs/herbcart-backend/internal/pricing"
)

// Loader fronts the coupons repository with a Redis read-through cache.
// Coupon records change rarely relative to how often carts price them, so a
// short TTL keeps lookups off the database without letting stale usage
// counts linger. Cache failures degrade to direct DB reads.
type Loader struct {
	repo  Repository
	cache *redis.Client
	ttl   time.Duration
	logg  *logger.Logger
}

// NewLoader builds a loader. A nil cache client disables caching entirely.
func NewLoader(repo Repository, cache *redis.Client, ttl time.Duration, logg *logger.Logger) *Loader {
	return &Loader{repo: repo, cache: cache, ttl: ttl, logg: logg}
}

// Load returns the coupon stored under the canonical form of code, or nil
// when no such coupon exists.
func (l *Loader) Load(ctx context.Context, code string) (*models.Coupon, error) {
	canonical := pricing.CanonicalCode(code)

	if cached := l.fromCache(ctx, canonical); cached != nil {
		return cached, nil
	}

	record, err := l.repo.FindByCode(ctx, canonical)
	if err != nil {
		return nil, err
	}
	if record != nil {
		l.toCache(ctx, canonical, record)
	}
	return record, nil
}

// Invalidate drops the cached entry for code. Called after any write that
// changes the coupon, redemption included.
func (l *Loader) Invalidate(ctx context.Context, code string) {
	if l.cache == nil {
		return
	}
	canonical := pricing.CanonicalCode(code)
	if err := l.cache.Del(ctx, l.cache.CouponKey(canonical)); err != nil && l.logg != nil {
		l.logg.Warn(l.logg.WithCouponCode(ctx, canonical), "failed to invalidate coupon cache")
	}
}

func (l *Loader) fromCache(ctx context.Context, canonical string) *models.Coupon {
	if l.cache == nil {
		return nil
	}
	payload, err := l.cache.Get(ctx, l.cache.CouponKey(canonical))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		if l.logg != nil {
			l.logg.Warn(l.logg.WithCouponCode(ctx, canonical), "coupon cache read failed, falling back to db")
		}
		return nil
	}

	var record models.Coupon
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		l.Invalidate(ctx, canonical)
		return nil
	}
	return &record
}

func (l *Loader) toCache(ctx context.Context, canonical string, record *models.Coupon) {
	if l.cache == nil || l.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, l.cache.CouponKey(canonical), payload, l.ttl); err != nil && l.logg != nil {
		l.logg.Warn(l.logg.WithCouponCode(ctx, canonical), "coupon cache write failed")
	}
}

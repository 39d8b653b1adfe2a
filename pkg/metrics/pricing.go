package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records request volume and coupon outcomes for the engine.
type PricingMetrics struct {
	duration   *prometheus.HistogramVec
	priced     *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_duration_seconds",
		Help:    "Duration of cart pricing computations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	priced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_requests_total",
		Help: "Cart pricing requests by operation and result.",
	}, []string{"operation", "result"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_rejections_total",
		Help: "Coupon rejections by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, priced, rejections)
	return &PricingMetrics{
		duration:   duration,
		priced:     priced,
		rejections: rejections,
	}
}

// ObserveDuration records the duration for the named operation.
func (p *PricingMetrics) ObserveDuration(operation string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncPriced increments the request counter for the named operation.
func (p *PricingMetrics) IncPriced(operation, result string) {
	if p == nil || p.priced == nil {
		return
	}
	p.priced.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncRejection increments the coupon rejection counter for the given reason.
func (p *PricingMetrics) IncRejection(reason string) {
	if p == nil || p.rejections == nil {
		return
	}
	p.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/calyxlabs/herbcart-backend/api/controllers"
	"github.com/calyxlabs/herbcart-backend/api/middleware"
	checkoutsvc "github.com/calyxlabs/herbcart-backend/internal/checkout"
	"github.com/calyxlabs/herbcart-backend/internal/orders"
	"github.com/calyxlabs/herbcart-backend/pkg/config"
	"github.com/calyxlabs/herbcart-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	checkoutService checkoutsvc.Service,
	ordersRepo orders.Repository,
	metricsGatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})

	if metricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/cart/price", controllers.CartPrice(checkoutService, logg))
		r.Route("/checkout", func(r chi.Router) {
			r.Post("/price", controllers.CheckoutPrice(checkoutService, logg))
			r.Post("/complete", controllers.CheckoutComplete(checkoutService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/{orderId}", controllers.OrderDetail(ordersRepo, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersRepo, logg))
		})
	})

	return r
}

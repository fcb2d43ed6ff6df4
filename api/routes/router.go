package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulseras/storefront-backend/api/controllers"
	cartcontrollers "github.com/pulseras/storefront-backend/api/controllers/cart"
	checkoutcontrollers "github.com/pulseras/storefront-backend/api/controllers/checkout"
	"github.com/pulseras/storefront-backend/api/middleware"
	checkoutsvc "github.com/pulseras/storefront-backend/internal/checkout"
	"github.com/pulseras/storefront-backend/internal/localstore"
	"github.com/pulseras/storefront-backend/pkg/config"
	"github.com/pulseras/storefront-backend/pkg/logger"
	"github.com/pulseras/storefront-backend/pkg/redis"
)

type cartMetrics interface {
	IncPersistFailure(op string)
	IncCorruptLoad()
}

// Dependencies are the wired collaborators served by the router. Idempotency and
// Gatherer may be nil.
type Dependencies struct {
	Device      localstore.Backend
	Idempotency redis.IdempotencyStore
	Checkout    checkoutsvc.Deps
	CartMetrics cartMetrics
	Gatherer    prometheus.Gatherer
	Readiness   map[string]controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	sessions := &cartcontrollers.Sessions{Backend: deps.Device, Logger: logg}
	if deps.CartMetrics != nil {
		sessions.Metrics = deps.CartMetrics
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(deps.Device, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(sessions, logg))
			r.Delete("/", cartcontrollers.CartClear(sessions, logg))
			r.With(middleware.Idempotency(deps.Idempotency, logg)).
				Post("/items", cartcontrollers.CartAddItem(sessions, logg))
			r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(sessions, logg))
			r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(sessions, logg))
			r.Get("/badge", cartcontrollers.BadgeFetch(sessions, logg))
			r.Put("/badge", cartcontrollers.BadgeUpdate(sessions, logg))
		})

		r.Get("/checkout/result", checkoutcontrollers.CheckoutResult(deps.Checkout, sessions, logg))
	})

	return r
}

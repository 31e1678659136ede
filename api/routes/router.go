package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sajpos/counter-backend/api/controllers"
	cartcontrollers "github.com/sajpos/counter-backend/api/controllers/cart"
	catalogcontrollers "github.com/sajpos/counter-backend/api/controllers/catalog"
	ordercontrollers "github.com/sajpos/counter-backend/api/controllers/orders"
	paymentcontrollers "github.com/sajpos/counter-backend/api/controllers/payments"
	"github.com/sajpos/counter-backend/api/middleware"
	"github.com/sajpos/counter-backend/internal/cart"
	"github.com/sajpos/counter-backend/internal/catalog"
	"github.com/sajpos/counter-backend/internal/orders"
	"github.com/sajpos/counter-backend/internal/payments"
	"github.com/sajpos/counter-backend/pkg/config"
	"github.com/sajpos/counter-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	health map[string]controllers.Pinger,
	registry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	paymentsService payments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, health))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListCategories(catalogService, logg))
		})
		r.Route("/modifiers", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListModifiers(catalogService, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListProducts(catalogService, logg))
			r.Get("/{productId}", catalogcontrollers.GetProduct(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(cartService, logg))
			r.Delete("/", cartcontrollers.Clear(cartService, logg))
			r.Post("/items", cartcontrollers.AddItem(cartService, logg))
			r.Post("/items/{lineId}/increment", cartcontrollers.IncQty(cartService, logg))
			r.Post("/items/{lineId}/decrement", cartcontrollers.DecQty(cartService, logg))
			r.Delete("/items/{lineId}", cartcontrollers.RemoveItem(cartService, logg))
			r.Post("/discount", cartcontrollers.SetDiscount(cartService, logg))
			r.Delete("/discount", cartcontrollers.RemoveDiscount(cartService, logg))
			r.Put("/meta", cartcontrollers.UpdateMeta(cartService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Post("/", ordercontrollers.Create(ordersService, logg))
			r.Get("/{orderId}", ordercontrollers.Get(ordersService, logg))
			r.Put("/{orderId}", ordercontrollers.Update(ordersService, logg))
			r.Delete("/{orderId}", ordercontrollers.Delete(ordersService, logg))
			r.Post("/{orderId}/send-kitchen", ordercontrollers.SendToKitchen(ordersService, logg))
			r.Post("/{orderId}/cancel", ordercontrollers.Cancel(ordersService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", paymentcontrollers.Create(paymentsService, logg))
			r.Get("/order/{orderId}", paymentcontrollers.GetByOrder(paymentsService, logg))
		})
	})

	return r
}

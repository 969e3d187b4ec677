package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/grocerylist-backend/api/controllers"
	"github.com/angelmondragon/grocerylist-backend/api/middleware"
	"github.com/angelmondragon/grocerylist-backend/api/responses"
	"github.com/angelmondragon/grocerylist-backend/internal/cart"
	"github.com/angelmondragon/grocerylist-backend/internal/categories"
	"github.com/angelmondragon/grocerylist-backend/internal/items"
	"github.com/angelmondragon/grocerylist-backend/pkg/config"
	"github.com/angelmondragon/grocerylist-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/grocerylist-backend/pkg/errors"
	"github.com/angelmondragon/grocerylist-backend/pkg/logger"
	"github.com/angelmondragon/grocerylist-backend/pkg/metrics"
	"github.com/angelmondragon/grocerylist-backend/pkg/redis"
)

// NewRouter wires middleware and every API route. redisP and idempotency may
// be nil when redis is not configured; gatherer may be nil to skip /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	idempotency redis.IdempotencyStore,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	categoryService categories.Service,
	itemService items.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"))
	})

	deps := map[string]controllers.Pinger{"db": dbP}
	if redisP != nil {
		deps["redis"] = redisP
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.UserContext(cfg.App.DefaultUserID, logg))
		r.Use(middleware.Idempotency(idempotency, logg))

		r.Get("/ping", controllers.Ping())

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Post("/", controllers.CreateCategory(categoryService, logg))
			r.Get("/{id}", controllers.GetCategory(categoryService, logg))
			r.Put("/{id}", controllers.UpdateCategory(categoryService, logg))
			r.Delete("/{id}", controllers.DeleteCategory(categoryService, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(itemService, logg))
			r.Post("/", controllers.CreateItem(itemService, logg))
			r.Get("/grouped", controllers.ListGroupedItems(itemService, logg))
			r.Get("/{id}", controllers.GetItem(itemService, logg))
			r.Put("/{id}", controllers.UpdateItem(itemService, logg))
			r.Delete("/{id}", controllers.DeleteItem(itemService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartService, logg))
			r.Delete("/", controllers.ClearCart(cartService, logg))
			r.Get("/export", controllers.ExportCart(cartService, logg))
			r.Post("/items", controllers.AddCartItem(cartService, logg))
			r.Put("/items/{itemId}", controllers.UpdateCartItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.RemoveCartItem(cartService, logg))
		})
	})

	return r
}

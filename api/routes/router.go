package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avolkov/storefront-backend/api/controllers"
	"github.com/avolkov/storefront-backend/api/middleware"
	authsvc "github.com/avolkov/storefront-backend/internal/auth"
	cartsvc "github.com/avolkov/storefront-backend/internal/cart"
	catalogsvc "github.com/avolkov/storefront-backend/internal/catalog"
	checkoutsvc "github.com/avolkov/storefront-backend/internal/checkout"
	ordersvc "github.com/avolkov/storefront-backend/internal/orders"
	"github.com/avolkov/storefront-backend/pkg/auth/session"
	"github.com/avolkov/storefront-backend/pkg/config"
	"github.com/avolkov/storefront-backend/pkg/logger"
	"github.com/avolkov/storefront-backend/pkg/metrics"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type rateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type catalogService interface {
	List(ctx context.Context, categorySlug string) (*catalogsvc.ListingDTO, error)
	GetBySlug(ctx context.Context, id uuid.UUID, slug string) (*catalogsvc.ProductDTO, error)
}

type cartService interface {
	Add(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*cartsvc.MutationDTO, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*cartsvc.MutationDTO, error)
	Summary(ctx context.Context, sessionID string) (*cartsvc.SummaryDTO, error)
}

type checkoutService interface {
	Execute(ctx context.Context, sessionID string, input checkoutsvc.Input) (*checkoutsvc.Result, error)
}

type ordersService interface {
	Get(ctx context.Context, viewer ordersvc.Viewer, orderID uuid.UUID) (*ordersvc.OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderDTO, error)
}

// NewRouter assembles the public HTTP surface: catalog browsing, the
// session cart, checkout for guests and logged-in customers, and the
// authenticated profile area.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger pinger,
	cachePinger pinger,
	limiter rateLimiterStore,
	sessions sessionManager,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	catalogSvc catalogService,
	cartSvc cartService,
	checkoutSvc checkoutService,
	orderSvc ordersService,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(dbPinger, cachePinger, logg))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginPhoneLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterPhoneLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, limiter, logg)).
				Post("/login", controllers.AuthLogin(authService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, limiter, logg)).
				Post("/register", controllers.AuthRegister(registerService, logg))
			r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(catalogSvc, logg))
			r.Get("/products/{id}/{slug}", controllers.CatalogProductDetail(catalogSvc, logg))
			r.Get("/categories", controllers.CatalogCategories(catalogSvc, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(cartSvc, logg))
			r.Post("/items", controllers.CartAdd(cartSvc, logg))
			r.Delete("/items/{productId}", controllers.CartRemove(cartSvc, logg))
		})

		// Checkout and order detail serve both guests and logged-in
		// customers; a presented token decides which branch runs.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, sessions, logg))
			r.Post("/orders", controllers.OrderCreate(checkoutSvc, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(orderSvc, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Get("/orders", controllers.ProfileOrders(orderSvc, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(orderSvc, logg))
		})
	})

	return r
}

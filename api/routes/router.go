package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumiere-jewels/lumiere-backend/api/controllers"
	"github.com/lumiere-jewels/lumiere-backend/api/middleware"
	"github.com/lumiere-jewels/lumiere-backend/internal/auth"
	"github.com/lumiere-jewels/lumiere-backend/internal/cart"
	"github.com/lumiere-jewels/lumiere-backend/internal/catalog"
	checkoutsvc "github.com/lumiere-jewels/lumiere-backend/internal/checkout"
	"github.com/lumiere-jewels/lumiere-backend/internal/coupons"
	"github.com/lumiere-jewels/lumiere-backend/internal/customers"
	"github.com/lumiere-jewels/lumiere-backend/internal/orders"
	"github.com/lumiere-jewels/lumiere-backend/internal/settings"
	"github.com/lumiere-jewels/lumiere-backend/internal/wishlist"
	"github.com/lumiere-jewels/lumiere-backend/pkg/auth/session"
	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
	"github.com/lumiere-jewels/lumiere-backend/pkg/logger"
	"github.com/lumiere-jewels/lumiere-backend/pkg/redis"
)

// Deps bundles everything the router needs wired in.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	RedisClient    *redis.Client
	SessionManager *session.Manager
	Registry       *prometheus.Registry
	ReadyProbes    map[string]func() error

	AuthService     auth.Service
	CatalogService  catalog.Service
	CartService     cart.Service
	WishlistService wishlist.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	CouponsService  coupons.Service
	CustomerService customers.Service
	SettingsService settings.Service
}

// NewRouter assembles the storefront and admin API surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.ReadyProbes))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, d.RedisClient, logg),
			middleware.Idempotency(d.RedisClient, logg),
		).Post("/register", controllers.AuthRegister(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.RedisClient, logg)).Post("/login", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, d.SessionManager, logg)).Post("/logout", controllers.AuthLogout(d.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.RedisClient, logg)).Post("/login", controllers.AdminAuthLogin(d.AuthService, logg))
	})

	// Public storefront surface. Only active products, approved reviews and
	// the public slice of settings come out of these.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(d.CatalogService, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(d.CatalogService, logg))
		r.Get("/categories", controllers.CategoryList(d.CatalogService, logg))
		r.Get("/products/{productId}/reviews", controllers.ReviewList(d.CatalogService, logg))
		r.Get("/settings", controllers.StorefrontSettings(d.SettingsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
			r.Use(middleware.Idempotency(d.RedisClient, logg))

			r.Post("/products/{productId}/reviews", controllers.ReviewCreate(d.CatalogService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.CartService, logg))
				r.Post("/items", controllers.CartAddItem(d.CartService, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(d.CartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(d.CartService, logg))
				r.Delete("/", controllers.CartClear(d.CartService, logg))
				r.Post("/quote", controllers.CartQuote(d.CartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(d.WishlistService, logg))
				r.Get("/ids", controllers.WishlistIDs(d.WishlistService, logg))
				r.Post("/", controllers.WishlistAddItem(d.WishlistService, logg))
				r.Delete("/{productId}", controllers.WishlistRemoveItem(d.WishlistService, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.CheckoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(d.OrdersService, logg))
				r.Get("/{orderNumber}", controllers.OrderDetail(d.OrdersService, logg))
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileGet(d.CustomerService, logg))
				r.Put("/", controllers.ProfileUpdate(d.CustomerService, logg))
				r.Route("/addresses", func(r chi.Router) {
					r.Post("/", controllers.AddressCreate(d.CustomerService, logg))
					r.Put("/{addressId}", controllers.AddressUpdate(d.CustomerService, logg))
					r.Delete("/{addressId}", controllers.AddressDelete(d.CustomerService, logg))
				})
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(d.CatalogService, logg))
			r.Post("/", controllers.AdminProductCreate(d.CatalogService, logg))
			r.Get("/low-stock", controllers.AdminLowStock(d.CatalogService, logg))
			r.Get("/{productId}", controllers.AdminProductDetail(d.CatalogService, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(d.CatalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductArchive(d.CatalogService, logg))
			r.Post("/{productId}/stock", controllers.AdminStockAdjust(d.CatalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoryList(d.CatalogService, logg))
			r.Post("/", controllers.AdminCategoryCreate(d.CatalogService, logg))
			r.Put("/{categoryId}", controllers.AdminCategoryUpdate(d.CatalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(d.CatalogService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(d.OrdersService, logg))
			r.Get("/export", controllers.AdminOrderExport(d.OrdersService, logg))
			r.Get("/summary", controllers.AdminOrderSummary(d.OrdersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(d.OrdersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.OrdersService, logg))
			r.Patch("/{orderId}/payment", controllers.AdminOrderUpdatePayment(d.OrdersService, logg))
			r.Patch("/{orderId}/tracking", controllers.AdminOrderSetTracking(d.OrdersService, logg))
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponList(d.CouponsService, logg))
			r.Post("/", controllers.AdminCouponCreate(d.CouponsService, logg))
			r.Put("/{couponId}", controllers.AdminCouponUpdate(d.CouponsService, logg))
			r.Delete("/{couponId}", controllers.AdminCouponDelete(d.CouponsService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.AdminReviewList(d.CatalogService, logg))
			r.Patch("/{reviewId}", controllers.AdminReviewModerate(d.CatalogService, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.AdminCustomerList(d.CustomerService, logg))
			r.Get("/{customerId}", controllers.AdminCustomerDetail(d.CustomerService, logg))
			r.Patch("/{customerId}", controllers.AdminCustomerUpdate(d.CustomerService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.AdminSettingsGet(d.SettingsService, logg))
			r.Put("/", controllers.AdminSettingsUpdate(d.SettingsService, logg))
		})
	})

	return r
}

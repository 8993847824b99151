package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fahrurrzl/be-sayur-segar/api/controllers"
	webhookcontrollers "github.com/fahrurrzl/be-sayur-segar/api/controllers/webhooks"
	"github.com/fahrurrzl/be-sayur-segar/api/middleware"
	authsvc "github.com/fahrurrzl/be-sayur-segar/internal/auth"
	cartsvc "github.com/fahrurrzl/be-sayur-segar/internal/cart"
	categorysvc "github.com/fahrurrzl/be-sayur-segar/internal/categories"
	checkoutsvc "github.com/fahrurrzl/be-sayur-segar/internal/checkout"
	ordersvc "github.com/fahrurrzl/be-sayur-segar/internal/orders"
	paymentsvc "github.com/fahrurrzl/be-sayur-segar/internal/paymentmethods"
	productsvc "github.com/fahrurrzl/be-sayur-segar/internal/products"
	sellersvc "github.com/fahrurrzl/be-sayur-segar/internal/sellers"
	walletsvc "github.com/fahrurrzl/be-sayur-segar/internal/wallets"
	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
	"github.com/fahrurrzl/be-sayur-segar/pkg/redis"
	"github.com/fahrurrzl/be-sayur-segar/pkg/xendit"
)

// Services bundles every application service the router exposes.
type Services struct {
	Auth           authsvc.Service
	Sellers        sellersvc.Service
	Categories     categorysvc.Service
	Products       productsvc.Service
	Cart           cartsvc.Service
	Checkout       checkoutsvc.Service
	Orders         ordersvc.Service
	Wallets        walletsvc.Service
	PaymentMethods paymentsvc.Service
	XenditWebhook  webhookcontrollers.XenditWebhookService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	xenditClient *xendit.Client,
	gatherer prometheus.Gatherer,
	svcs Services,
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
			r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe(svcs.Auth, logg))
		})

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/xendit", webhookcontrollers.XenditInvoiceWebhook(svcs.XenditWebhook, xenditClient, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(svcs.Categories, logg))
			r.Get("/{categoryId}", controllers.CategoryDetail(svcs.Categories, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.RequireRole(string(enums.UserRoleSuperadmin), logg))
				r.Post("/", controllers.CategoryCreate(svcs.Categories, logg))
				r.Put("/{categoryId}", controllers.CategoryUpdate(svcs.Categories, logg))
				r.Delete("/{categoryId}", controllers.CategoryDelete(svcs.Categories, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Put("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
			})
		})

		r.Route("/sellers", func(r chi.Router) {
			r.Get("/", controllers.SellerList(svcs.Sellers, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Post("/", controllers.SellerCreate(svcs.Sellers, logg))
				r.Get("/me", controllers.SellerProfile(svcs.Sellers, logg))
				r.Put("/", controllers.SellerUpdate(svcs.Sellers, logg))
				r.Delete("/", controllers.SellerDelete(svcs.Sellers, logg))
			})

			r.Get("/{sellerId}", controllers.SellerDetail(svcs.Sellers, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartDecreaseItem(svcs.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.Checkout(svcs.Checkout, logg))
			r.Post("/retry-invoice", controllers.CheckoutRetryInvoice(svcs.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleSuperadmin), logg)).
				Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/mine", controllers.OrderListMine(svcs.Orders, logg))
			r.Get("/seller", controllers.OrderListForSeller(svcs.Orders, logg))
			r.Get("/{orderCode}", controllers.OrderDetail(svcs.Orders, logg))
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.WalletCreate(svcs.Wallets, logg))
			r.Get("/", controllers.WalletFetch(svcs.Wallets, logg))
			r.Post("/withdraw", controllers.WalletWithdraw(svcs.Wallets, logg))
			r.Get("/transactions", controllers.WalletTransactions(svcs.Wallets, logg))
		})

		r.Route("/payment-methods", func(r chi.Router) {
			r.Get("/", controllers.PaymentMethodList(svcs.PaymentMethods, logg))
			r.Get("/{methodId}", controllers.PaymentMethodDetail(svcs.PaymentMethods, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.RequireRole(string(enums.UserRoleSuperadmin), logg))
				r.Post("/", controllers.PaymentMethodCreate(svcs.PaymentMethods, logg))
				r.Put("/{methodId}", controllers.PaymentMethodUpdate(svcs.PaymentMethods, logg))
				r.Delete("/{methodId}", controllers.PaymentMethodDelete(svcs.PaymentMethods, logg))
			})
		})
	})

	return r
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fahrurrzl/be-sayur-segar/api/routes"
	authsvc "github.com/fahrurrzl/be-sayur-segar/internal/auth"
	"github.com/fahrurrzl/be-sayur-segar/internal/cart"
	"github.com/fahrurrzl/be-sayur-segar/internal/categories"
	"github.com/fahrurrzl/be-sayur-segar/internal/checkout"
	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
	"github.com/fahrurrzl/be-sayur-segar/internal/paymentmethods"
	"github.com/fahrurrzl/be-sayur-segar/internal/products"
	"github.com/fahrurrzl/be-sayur-segar/internal/sellers"
	"github.com/fahrurrzl/be-sayur-segar/internal/users"
	"github.com/fahrurrzl/be-sayur-segar/internal/wallets"
	xenditwebhook "github.com/fahrurrzl/be-sayur-segar/internal/webhooks/xendit"
	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
	"github.com/fahrurrzl/be-sayur-segar/pkg/metrics"
	"github.com/fahrurrzl/be-sayur-segar/pkg/migrate"
	"github.com/fahrurrzl/be-sayur-segar/pkg/redis"
	"github.com/fahrurrzl/be-sayur-segar/pkg/xendit"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	xenditClient, err := xendit.NewClient(context.Background(), cfg.Xendit, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create xendit client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	flowMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()
	usersRepo := users.NewRepository(gormDB)
	sellersRepo := sellers.NewRepository(gormDB)
	categoriesRepo := categories.NewRepository(gormDB)
	productsRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	walletsRepo := wallets.NewRepository(gormDB)
	paymentMethodsRepo := paymentmethods.NewRepository(gormDB)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       usersRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnError(logg, "auth service", err)

	sellersService, err := sellers.NewService(sellers.ServiceParams{
		DB:   dbClient,
		Repo: sellersRepo,
	})
	exitOnError(logg, "sellers service", err)

	categoriesService, err := categories.NewService(categoriesRepo)
	exitOnError(logg, "categories service", err)

	productsService, err := products.NewService(products.ServiceParams{
		Repo:       productsRepo,
		Sellers:    sellersRepo,
		Categories: categoriesRepo,
	})
	exitOnError(logg, "products service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cartRepo,
		Products: productsRepo,
	})
	exitOnError(logg, "cart service", err)

	feeCalculator, err := checkout.NewFlatFeeCalculator(cfg.Shipping)
	exitOnError(logg, "fee calculator", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:       dbClient,
		Cart:     cartRepo,
		Orders:   ordersRepo,
		Users:    usersRepo,
		Invoices: xenditClient,
		Fees:     feeCalculator,
		Metrics:  flowMetrics,
		Logger:   logg,
	})
	exitOnError(logg, "checkout service", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:    ordersRepo,
		Sellers: sellersRepo,
	})
	exitOnError(logg, "orders service", err)

	walletsService, err := wallets.NewService(wallets.ServiceParams{
		DB:      dbClient,
		Repo:    walletsRepo,
		Sellers: sellersRepo,
	})
	exitOnError(logg, "wallets service", err)

	paymentMethodsService, err := paymentmethods.NewService(paymentMethodsRepo)
	exitOnError(logg, "payment methods service", err)

	webhookService, err := xenditwebhook.NewService(xenditwebhook.ServiceParams{
		DB:       dbClient,
		Orders:   ordersRepo,
		Wallets:  walletsRepo,
		Products: productsRepo,
		Dedup:    redisClient,
		DedupTTL: cfg.Xendit.WebhookDedupTTL,
		Metrics:  flowMetrics,
		Logger:   logg,
	})
	exitOnError(logg, "webhook service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, xenditClient, registry, routes.Services{
			Auth:           authService,
			Sellers:        sellersService,
			Categories:     categoriesService,
			Products:       productsService,
			Cart:           cartService,
			Checkout:       checkoutService,
			Orders:         ordersService,
			Wallets:        walletsService,
			PaymentMethods: paymentMethodsService,
			XenditWebhook:  webhookService,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}

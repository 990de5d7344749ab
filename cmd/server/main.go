package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/marketplace/backend/internal/application/billing"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	merchantapp "github.com/marketplace/backend/internal/application/merchant"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/billing"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	infrabilling "github.com/marketplace/backend/internal/infrastructure/billing"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/migration"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes up before anything that emits spans or metrics
	providers, err := telemetry.Setup(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if core := providers.Logs.ZapCore(cfg.Telemetry.ServiceName, logger.ParseLevel(cfg.Log.Level)); core != nil {
		if log, err = logger.New(logCfg, core); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.ProfilingSpanProfiles && profiler.IsEnabled() {
		providers.Tracer.EnableSpanProfiles()
	}

	meter := providers.Meter.Meter("marketplace")
	metrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Warn("Business metrics disabled", zap.Error(err))
	}

	// Database
	gormOpts := []logger.GormLoggerOption{logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL)}
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDB(db.DB, telemetry.DBConfig{
		TracingEnabled:  cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, meter, log); err != nil {
		log.Warn("Database instrumentation disabled", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}
	if err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
		log.Warn("Database pool metrics disabled", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		migrator, err := migration.New(sqlDB, cfg.Database.MigrationsPath, log)
		if err != nil {
			log.Fatal("Failed to initialize migrations", zap.Error(err))
		}
		if err := migrator.Up(); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Caches: Redis, or in memory when Redis is disabled or unreachable
	stores, err := cache.NewFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).Create()
	if err != nil {
		log.Fatal("Failed to initialize caches", zap.Error(err))
	}
	log.Info("Caches ready", zap.String("backend", stores.Backend))

	// Payments provider is optional; without it plans come from stored
	// subscriptions and the webhook route is not mounted
	var stripeAdapter *infrabilling.StripeAdapter
	if cfg.Stripe.SecretKey != "" {
		stripeAdapter, err = infrabilling.NewStripeAdapter(infrabilling.NewStripeConfig(cfg.Stripe), log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe", zap.Error(err))
		}
	} else {
		log.Warn("Stripe is not configured, payments features are disabled")
	}

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	subRepo := persistence.NewGormUserSubscriptionRepository(db.DB)

	// Application services
	plans := billing.NewCatalog(cfg.Stripe.StandardPriceID, cfg.Stripe.ProPriceID)
	subCfg := billingapp.SubscriptionServiceConfig{
		Repo:     subRepo,
		Catalog:  plans,
		Cache:    stores.Subscriptions,
		CacheTTL: cfg.Redis.SubscriptionTTL,
		Logger:   log,
	}
	storeCfg := merchantapp.StoreServiceConfig{
		StoreRepo: storeRepo,
		Catalog:   plans,
		Metrics:   metrics,
		Logger:    log,
	}
	if stripeAdapter != nil {
		subCfg.Reader = stripeAdapter
		storeCfg.Accounts = stripeAdapter
	}
	subscriptionService := billingapp.NewSubscriptionService(subCfg)
	storeCfg.Plans = subscriptionService
	storeService := merchantapp.NewStoreService(storeCfg)
	productService := catalogapp.NewProductService(productRepo, storeRepo, subscriptionService, metrics, log)
	orderService := tradeapp.NewOrderService(orderRepo, storeRepo, metrics, log)

	// HTTP
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	handlers := router.Handlers{
		Storefront: handler.NewStorefrontHandler(productService, storeService),
		Stores:     handler.NewDashboardStoreHandler(storeService),
		Products:   handler.NewDashboardProductHandler(productService),
		Orders:     handler.NewOrderHandler(orderService),
		Billing:    handler.NewBillingHandler(subscriptionService),
		Health:     handler.NewHealthHandler(db, stores),
	}
	if stripeAdapter != nil {
		handlers.Webhooks = handler.NewStripeWebhookHandler(billingapp.NewWebhookService(billingapp.WebhookServiceConfig{
			Verifier:    stripeAdapter,
			Payments:    orderService,
			SubRepo:     subRepo,
			Plans:       subscriptionService,
			Idempotency: stores.Idempotency,
			Metrics:     metrics,
			Logger:      log,
		}))
	}

	routeMW := router.RouteMiddleware{
		Session: middleware.SessionAuth(middleware.SessionConfig{
			Verifier:   auth.NewSessionVerifier(cfg.Auth),
			SignInPath: cfg.App.SignInPath,
			Logger:     log,
		}),
	}
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		routeMW.StorefrontRateLimit = middleware.RateLimit(limiter)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Meter:          meter,
	})
	router.Mount(engine, handlers, routeMW)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if err := stores.Close(); err != nil {
		log.Error("Error closing caches", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

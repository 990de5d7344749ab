package router

import (
	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HealthPath is served outside the versioned API and is not request-logged
const HealthPath = "/health"

// EngineConfig configures the global middleware chain
type EngineConfig struct {
	Logger         *zap.Logger
	HTTP           config.HTTPConfig
	ServiceName    string
	TracingEnabled bool
	Meter          metric.Meter
}

// NewEngine creates a gin engine with the global middleware chain:
// recovery, request id, request logging, tracing, metrics, security
// headers, CORS and the body size limit.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, HealthPath))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.HTTPMetrics(cfg.Meter, log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	return engine
}

// Handlers are the HTTP handlers mounted by Mount.
// A nil Webhooks handler leaves the webhook route unmounted.
type Handlers struct {
	Storefront *handler.StorefrontHandler
	Stores     *handler.DashboardStoreHandler
	Products   *handler.DashboardProductHandler
	Orders     *handler.OrderHandler
	Billing    *handler.BillingHandler
	Webhooks   *handler.StripeWebhookHandler
	Health     *handler.HealthHandler
}

// RouteMiddleware is the per-group middleware. Session is required;
// a nil StorefrontRateLimit disables rate limiting.
type RouteMiddleware struct {
	Session             gin.HandlerFunc
	StorefrontRateLimit gin.HandlerFunc
}

// StorefrontRoutes are the public catalogue routes
func StorefrontRoutes(h *handler.StorefrontHandler, rateLimit gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("storefront", "").Use(rateLimit)
	g.GET("/products", h.ListProducts).
		GET("/products/:id", h.GetProduct).
		GET("/categories", h.ListCategories).
		GET("/categories/:category/:subcategory", h.ListSubcategory).
		GET("/stores", h.ListStores).
		GET("/stores/:id", h.GetStore).
		GET("/stores/:id/products", h.ListStoreProducts)
	return g
}

// DashboardRoutes are the merchant and buyer routes behind the session
func DashboardRoutes(h Handlers, session gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("dashboard", "/dashboard").Use(session)
	g.GET("/purchases", h.Orders.ListPurchases).
		GET("/billing", h.Billing.Overview)

	stores := g.Group("stores", "/stores")
	stores.GET("", h.Stores.List).
		POST("", h.Stores.Create).
		GET("/:storeId", h.Stores.Get).
		PUT("/:storeId", h.Stores.Update).
		DELETE("/:storeId", h.Stores.Delete).
		GET("/:storeId/payment-account", h.Stores.PaymentAccount).
		PUT("/:storeId/payment-account", h.Stores.ConnectPaymentAccount).
		DELETE("/:storeId/payment-account", h.Stores.DisconnectPaymentAccount).
		GET("/:storeId/orders", h.Orders.ListStoreOrders).
		GET("/:storeId/customers", h.Orders.ListCustomers)

	products := stores.Group("products", "/:storeId/products")
	products.GET("", h.Products.List).
		POST("", h.Products.Create).
		GET("/:productId", h.Products.Get).
		PUT("/:productId", h.Products.Update).
		DELETE("/:productId", h.Products.Delete)
	return g
}

// WebhookRoutes are the provider callbacks. They carry their own signature
// and never pass through the session.
func WebhookRoutes(h *handler.StripeWebhookHandler) *DomainGroup {
	return NewDomainGroup("webhooks", "/webhooks").
		POST("/stripe", h.HandleStripeWebhook)
}

// Mount registers the health check and every API group on the engine
func Mount(engine *gin.Engine, h Handlers, mw RouteMiddleware, opts ...RouterOption) *Router {
	if h.Health != nil {
		engine.GET(HealthPath, h.Health.Check)
	}

	r := NewRouter(engine, opts...)
	r.Register(StorefrontRoutes(h.Storefront, mw.StorefrontRateLimit)).
		Register(DashboardRoutes(h, mw.Session))
	if h.Webhooks != nil {
		r.Register(WebhookRoutes(h.Webhooks))
	}
	r.Setup()
	return r
}

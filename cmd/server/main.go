package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"gift_registry_echo/internal/config"
	"gift_registry_echo/internal/gateway"
	"gift_registry_echo/internal/handlers"
	"gift_registry_echo/internal/logger"
	appmw "gift_registry_echo/internal/middleware"
	"gift_registry_echo/internal/ratelimit"
	"gift_registry_echo/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.Init(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize Database
	db, err := services.InitDB(cfg.Database.URL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := services.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run database migrations", zap.Error(err))
	}

	// Rate-limit store: redis when configured, in-process otherwise
	var limitStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.URL != "" {
		cache, err := services.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer cache.Close()
		limitStore = ratelimit.NewRedisStore(cache.Client())
	} else {
		zlog.Warn("REDIS_URL not set; rate limits are per-instance and reset on restart")
	}
	limiter := ratelimit.NewLimiter(limitStore, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)

	if cfg.Asaas.APIKey == "" {
		zlog.Warn("ASAAS_API_KEY not set; payment endpoints will fail until it is configured")
	}

	asaasClient := gateway.NewClient(cfg.Asaas, zlog)
	paymentService := services.NewPaymentService(db, asaasClient, zlog)
	reconciler := services.NewReconciler(db, zlog)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = appmw.NewErrorHandler(zlog)

	// Middleware
	e.Use(echomw.Recover())
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		XSSProtection:      "1; mode=block",
		HSTSMaxAge:         31536000,
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(paymentService, zlog)
	statusHandler := handlers.NewStatusHandler(paymentService, zlog)
	webhookHandler := handlers.NewWebhookHandler(reconciler, cfg.Asaas, cfg.Mercado, zlog)
	giftHandler := handlers.NewGiftHandler(db, zlog)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", appmw.RateLimit(limiter, zlog))
	api.POST("/checkout", checkoutHandler.Checkout)
	api.POST("/payment-status", statusHandler.PaymentStatus)
	api.POST("/gifts/:id/purchase", giftHandler.DirectPurchase)
	api.POST("/webhooks/asaas", webhookHandler.AsaasWebhook)
	api.POST("/webhooks/mercadopago", webhookHandler.MercadoPagoWebhook)

	zlog.Info("server starting", zap.String("port", cfg.Server.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}

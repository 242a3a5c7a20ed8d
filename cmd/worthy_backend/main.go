package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hero710690/worthy-backend/internal/adapters/httpclient"
	"github.com/hero710690/worthy-backend/internal/core/services"
	"github.com/hero710690/worthy-backend/internal/handlers"
	"github.com/hero710690/worthy-backend/internal/middleware"
	"github.com/hero710690/worthy-backend/internal/platform/config"
)

// @title Worthy Valuation API
// @version 1.0
// @description Portfolio valuation and returns calculation service.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// One shared HTTP client for all outbound provider calls. Timeouts live
	// here; on timeout the services fall back exactly as for any other
	// fetch failure.
	outbound := &http.Client{Timeout: cfg.HTTPTimeout}

	rateSource := httpclient.NewRatesClient(cfg.RatesAPIURL, outbound)
	quoteSource := httpclient.NewAlphaVantageClient(cfg.QuoteAPIURL, cfg.QuoteAPIKey, cfg.BaseCurrency, outbound)
	portfolioAPI := httpclient.NewPortfolioClient(cfg.PortfolioAPIURL, outbound)

	container := services.NewServiceContainer(cfg, rateSource, quoteSource, portfolioAPI)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, inbound rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	limiterStore := memory.NewStore()
	limiterInstance := limiter.New(limiterStore, limiter.Rate{Period: time.Minute, Limit: 120})
	r.Use(middleware.RateLimit(limiterInstance))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, portfolioAPI)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

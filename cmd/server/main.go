package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mynztrip/faresearch/internal/cache"
	"github.com/mynztrip/faresearch/internal/config"
	"github.com/mynztrip/faresearch/internal/connectors"
	"github.com/mynztrip/faresearch/internal/connectors/data"
	"github.com/mynztrip/faresearch/internal/dispatch"
	"github.com/mynztrip/faresearch/internal/fx"
	"github.com/mynztrip/faresearch/internal/handler"
	"github.com/mynztrip/faresearch/internal/health"
	"github.com/mynztrip/faresearch/internal/lifecycle"
	"github.com/mynztrip/faresearch/internal/linkcheck"
	"github.com/mynztrip/faresearch/internal/ranking"
	"github.com/mynztrip/faresearch/internal/ratelimit"
	"github.com/mynztrip/faresearch/internal/store/memory"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	registry, err := initializeConnectors()
	if err != nil {
		logger.Fatal("failed to initialize connectors", zap.Error(err))
	}
	logger.Info("initialized connectors", zap.Strings("sources", registry.AvailableSources()))

	rateLimiter := ratelimit.New(
		ratelimit.Limit{RPS: cfg.Search.RateLimit.RequestsPerSecond, Burst: cfg.Search.RateLimit.Burst},
		sourceLimits(cfg.Search.RateLimits),
	)

	dispatcher := dispatch.NewDispatcher(dispatch.Config{
		ConnectorTimeout: cfg.Search.ConnectorTimeout(),
		OverallDeadline:  cfg.Search.OverallDeadline(),
		MaxAttempts:      cfg.Search.MaxAttempts,
		MaxParallel:      cfg.Search.MaxParallelConnectors,
		RateLimiter:      rateLimiter,
	}, logger)

	var searchCache cache.Coordinator
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Cache.RedisHost,
			Port:     cfg.Cache.RedisPort,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		}, logger)
		if err != nil {
			logger.Warn("redis unavailable; continuing without cache", zap.Error(err))
			searchCache = cache.NewNoopCache()
		} else {
			searchCache = redisCache
			logger.Info("redis cache enabled",
				zap.String("host", cfg.Cache.RedisHost+":"+cfg.Cache.RedisPort),
				zap.Duration("ttl", cfg.Cache.TTL()))
		}
	} else {
		searchCache = cache.NewNoopCache()
		logger.Info("cache disabled")
	}
	defer searchCache.Close()

	tracker := health.NewTracker()
	tracker.RegisterSources(registry.AvailableSources()...)

	fxService := fx.NewService(fx.Config{
		Endpoint: cfg.FX.Endpoint,
		TTL:      cfg.FX.TTL(),
		Timeout:  cfg.FX.Timeout(),
	})
	engine := ranking.NewEngine(cfg.Search.MaxOffersPerSearch, fxService, logger)

	manager := lifecycle.NewManager(
		memory.New(),
		searchCache,
		dispatcher,
		registry,
		engine,
		linkcheck.NewValidator(cfg.Linkcheck.Timeout(), cfg.Linkcheck.Probe),
		tracker,
		logger,
		lifecycle.Config{
			CacheTTL:        cfg.Cache.TTL(),
			ClaimTTL:        cfg.Cache.ClaimTTL(),
			OverallDeadline: cfg.Search.OverallDeadline(),
			DetailTimeout:   cfg.Search.DetailTimeout(),
		},
	)

	searchHandler := handler.NewSearchHandler(manager, tracker, cfg.Search.DefaultSources)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	api := e.Group("/api/v1")
	api.POST("/search", searchHandler.Create)
	api.GET("/search/:search_id", searchHandler.Get)
	api.GET("/search/:search_id/offers/:offer_id", searchHandler.GetOffer)
	e.GET("/health/connectors", searchHandler.ConnectorHealth)
	e.GET("/health", handler.HealthHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting fare search server", zap.String("port", cfg.Server.Port))
	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	manager.Shutdown()
	logger.Info("shutdown complete")
}

func sourceLimits(limits map[string]config.RateLimitConfig) map[string]ratelimit.Limit {
	out := make(map[string]ratelimit.Limit, len(limits))
	for source, l := range limits {
		out[source] = ratelimit.Limit{RPS: l.RequestsPerSecond, Burst: l.Burst}
	}
	return out
}

func newLogger(level string) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = lvl
	}
	logger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	return logger
}

func initializeConnectors() (*connectors.Registry, error) {
	tripcom, err := connectors.NewTripComConnector(data.TripComData)
	if err != nil {
		return nil, err
	}

	airasia, err := connectors.NewAirAsiaConnector(data.AirAsiaData)
	if err != nil {
		return nil, err
	}

	mynztrip, err := connectors.NewMynztripConnector(data.MynztripData)
	if err != nil {
		return nil, err
	}

	return connectors.NewRegistry(tripcom, airasia, mynztrip), nil
}

package app

import (
	"go-leave/internal/middleware"
	"go-leave/internal/observability"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "go-leave"

// BuildApp connects the API's infrastructure and mounts every module on
// router.
func BuildApp(router *gin.Engine, cfg *Config, logger *zap.Logger) error {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres(), cfg.DBMaxRetries, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DBMaxRetries, logger)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	metrics := observability.NewMetricsCollector(serviceName, cfg.AppVersion)

	router.Use(
		middleware.RequestID(),
		middleware.SecureHeaders(cfg.IsProduction()),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitIPRPS), cfg.RateLimitIPBurst),
		metrics.MetricsMiddleware(),
	)
	router.GET("/metrics", metrics.Handler())

	return registerModules(router, moduleDeps{
		cfg:     cfg,
		logger:  logger,
		db:      sqlDB,
		gormDB:  gormDB,
		rdb:     redisClient,
		metrics: metrics,
	})
}

package app

import (
	"context"
	"database/sql"

	"go-leave/internal/attachment"
	"go-leave/internal/leave"
	"go-leave/internal/ledger"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/observability"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	"go-leave/internal/shared/txretry"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type moduleDeps struct {
	cfg     *Config
	logger  *zap.Logger
	db      *sql.DB
	gormDB  *gorm.DB
	rdb     *redis.Client
	metrics *observability.MetricsCollector
}

func registerModules(router *gin.Engine, d moduleDeps) error {
	loc, err := d.cfg.Location()
	if err != nil {
		return err
	}
	floor, err := d.cfg.FloorPolicy()
	if err != nil {
		return err
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(d.gormDB)
	attachmentRepo := attachment.NewRepository(d.gormDB)
	leaveRepo := leave.NewRepository(d.gormDB)
	ledgerRepo := ledger.NewRepository(d.gormDB)
	outboxRepo := kafka.NewOutboxRepository(d.db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(d.cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, d.logger)
	if err := rbacService.LoadPolicy(context.Background()); err != nil {
		return err
	}

	// --- Services ---
	retry := txretry.New(d.cfg.TxRetry(), d.logger)
	leaveMetrics := observability.NewLeaveMetrics(d.metrics)

	ledgerService := ledger.NewService(d.db, ledgerRepo, ledger.ServiceOptions{
		OutboxRepo: outboxRepo,
		Retry:      retry,
		Metrics:    leaveMetrics,
		Location:   loc,
	}, d.logger)
	leaveService := leave.NewService(d.db, leaveRepo, ledgerRepo, rbacService, attachmentRepo, leave.ServiceOptions{
		OutboxRepo: outboxRepo,
		Floor:      floor,
		Retry:      retry,
		Metrics:    leaveMetrics,
		Location:   loc,
	}, d.logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, d.rdb, d.logger)
	ledgerHandler := ledger.NewHandler(ledgerService, d.rdb, d.logger)
	rbacHandler := rbac.NewHandler(rbacService, d.logger)

	// --- Routes Registration ---
	auth := middleware.Authenticated(d.cfg.JWTSecret, d.logger)
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, d.rdb, auth)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService, d.rdb, auth)
		rbac.RegisterRoutes(api, rbacHandler, auth)
	}

	return nil
}

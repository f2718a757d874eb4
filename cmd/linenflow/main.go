package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/linenflow/linenflow/internal/app"
	"github.com/linenflow/linenflow/internal/audit"
	"github.com/linenflow/linenflow/internal/auth"
	"github.com/linenflow/linenflow/internal/authz"
	"github.com/linenflow/linenflow/internal/branches"
	"github.com/linenflow/linenflow/internal/customers"
	"github.com/linenflow/linenflow/internal/finance"
	"github.com/linenflow/linenflow/internal/linen"
	"github.com/linenflow/linenflow/internal/orders"
	"github.com/linenflow/linenflow/internal/platform/cache"
	"github.com/linenflow/linenflow/internal/platform/db"
	"github.com/linenflow/linenflow/internal/reports"
	"github.com/linenflow/linenflow/internal/users"
	"github.com/linenflow/linenflow/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Reports fall back to direct queries when Redis is unreachable,
	// so a failed connection is degraded service, not a startup error.
	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
	} else if client != nil {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	guard := authz.Middleware{Logger: logger}
	recorder := audit.NewRecorder(dbpool, logger)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, auth.TokenConfig{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.JWTAccessTTL,
		RefreshTTL:    cfg.JWTRefreshTTL,
	})
	authHandler := auth.NewHandler(logger, authService)

	branchRepo := branches.NewRepository(dbpool)
	branchService := branches.NewService(branchRepo)
	branchHandler := branches.NewHandler(logger, branchService, guard)

	userService := users.NewService(users.NewRepository(dbpool))
	userHandler := users.NewHandler(logger, userService, guard)

	customerService := customers.NewService(customers.NewRepository(dbpool), recorder, logger)
	customerHandler := customers.NewHandler(logger, customerService, guard)

	linenService := linen.NewService(linen.NewRepository(dbpool), recorder, logger)
	linenHandler := linen.NewHandler(logger, linenService, guard)

	orderService := orders.NewService(orders.NewRepository(dbpool), recorder, logger)
	orderHandler := orders.NewHandler(logger, orderService, guard)

	financeService := finance.NewService(finance.NewRepository(dbpool), recorder, logger)
	financeHandler := finance.NewHandler(logger, financeService, guard)

	reportCache := reports.NewCache(redisClient, cfg.CacheTTL)
	reportService := reports.NewService(reports.NewRepository(dbpool), reportCache)
	reportHandler := reports.NewHandler(logger, reportService, guard)

	auditService := audit.NewService(audit.NewRepository(dbpool))
	auditHandler := audit.NewHandler(logger, auditService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthService:     authService,
		AuthHandler:     authHandler,
		BranchHandler:   branchHandler,
		UserHandler:     userHandler,
		CustomerHandler: customerHandler,
		LinenHandler:    linenHandler,
		OrderHandler:    orderHandler,
		FinanceHandler:  financeHandler,
		ReportHandler:   reportHandler,
		AuditHandler:    auditHandler,
		JobHandler:      jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

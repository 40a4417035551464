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
	"golang.org/x/sync/errgroup"

	"github.com/msousapenha/clinica-crm/internal/app"
	"github.com/msousapenha/clinica-crm/internal/auth"
	"github.com/msousapenha/clinica-crm/internal/dashboard"
	"github.com/msousapenha/clinica-crm/internal/finance"
	"github.com/msousapenha/clinica-crm/internal/inventory"
	"github.com/msousapenha/clinica-crm/internal/observability"
	"github.com/msousapenha/clinica-crm/internal/patients"
	"github.com/msousapenha/clinica-crm/internal/platform/cache"
	"github.com/msousapenha/clinica-crm/internal/platform/db"
	"github.com/msousapenha/clinica-crm/internal/procedures"
	"github.com/msousapenha/clinica-crm/internal/schedule"
	"github.com/msousapenha/clinica-crm/internal/shared"
	"github.com/msousapenha/clinica-crm/internal/staff"
	"github.com/msousapenha/clinica-crm/internal/users"
	"github.com/msousapenha/clinica-crm/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)
	metrics := observability.NewMetrics()

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(pool), tokens)
	authHandler := auth.NewHandler(logger, authService, metrics)
	authMiddleware := auth.Middleware{Tokens: tokens, Logger: logger}

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(users.NewRepository(pool), tokens, auditLogger)
	usersHandler := users.NewHandler(logger, usersService)

	patientsService := patients.NewService(patients.NewRepository(pool))
	patientsHandler := patients.NewHandler(logger, patientsService)

	scheduleService := schedule.NewService(schedule.NewRepository(pool), jobsClient, auditLogger)
	scheduleHandler := schedule.NewHandler(scheduleService)

	inventoryService := inventory.NewService(inventory.NewRepository(pool), auditLogger)
	inventoryHandler := inventory.NewHandler(inventoryService)

	financeService := finance.NewService(finance.NewRepository(pool), auditLogger)
	financeHandler := finance.NewHandler(financeService)

	proceduresService := procedures.NewService(procedures.NewRepository(pool), auditLogger)
	proceduresHandler := procedures.NewHandler(proceduresService)

	staffService := staff.NewService(staff.NewRepository(pool), auditLogger)
	staffHandler := staff.NewHandler(staffService)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), dashboardCache)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// Writes that move the landing page numbers drop the cached snapshot.
	scheduleService.InvalidateSnapshotsWith(dashboardService)
	inventoryService.InvalidateSnapshotsWith(dashboardService)
	financeService.InvalidateSnapshotsWith(dashboardService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		DashboardHandler:  dashboardHandler,
		ScheduleHandler:   scheduleHandler,
		PatientsHandler:   patientsHandler,
		FinanceHandler:    financeHandler,
		InventoryHandler:  inventoryHandler,
		ProceduresHandler: proceduresHandler,
		StaffHandler:      staffHandler,
		UsersHandler:      usersHandler,
		JobsHandler:       jobsHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}

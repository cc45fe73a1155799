package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novakeep/stakevault/internal/bootstrap"
	"github.com/novakeep/stakevault/internal/concurrency"
	"github.com/novakeep/stakevault/internal/config"
	"github.com/novakeep/stakevault/internal/database"
	"github.com/novakeep/stakevault/internal/eventlog"
	"github.com/novakeep/stakevault/internal/gamification"
	"github.com/novakeep/stakevault/internal/scheduler"
	"github.com/novakeep/stakevault/internal/server"
	"github.com/novakeep/stakevault/internal/skills"
	"github.com/novakeep/stakevault/internal/staking"
	"github.com/novakeep/stakevault/internal/telemetry"
	"github.com/novakeep/stakevault/internal/worker"
)

// Background machinery sizing. The pool stays small: sweep jobs are IO-bound
// and the staking service serializes per account anyway.
const (
	workerPoolSize       = 4
	workerQueueSize      = 16
	poolStatsInterval    = time.Minute
	eventLogCleanupEvery = 24 * time.Hour
	startupTimeout       = 15 * time.Second
	shutdownTimeout      = 30 * time.Second
)

// @title StakeVault API
// @version 1.0
// @description Token custody and staking ledger: deposits under lock tiers, hourly reward accrual, and treasury commission routing.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @securityDefinitions.apikey AdminKeyAuth
// @in header
// @name X-API-Key
// @description Operator key for lifecycle, treasury, and audit endpoints.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		slog.Error("Logger setup failed", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx := context.Background()

	// Tracing is a no-op unless an OTLP endpoint is configured
	traceShutdown, err := telemetry.Setup(ctx, cfg.ServiceName)
	if err != nil {
		slog.Warn("Tracing disabled", "error", err)
	}
	defer func() {
		if err := traceShutdown(context.Background()); err != nil {
			slog.Error("Trace exporter shutdown failed", "error", err)
		}
	}()

	dbCtx, dbCancel := context.WithTimeout(ctx, startupTimeout)
	dbPool, err := database.NewPool(dbCtx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	dbCancel()
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Event system initialization failed", "error", err)
		os.Exit(1)
	}

	eventLogService := eventlog.NewService(repos.EventLog)
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        eventBus,
		EventLogService: eventLogService,
	}); err != nil {
		slog.Error("Event handler registration failed", "error", err)
		os.Exit(1)
	}

	// First boot seeds the treasury address; later boots leave the stored
	// lifecycle state alone.
	if err := bootstrap.SyncLedgerState(ctx, repos.Staking, cfg); err != nil {
		slog.Error("Ledger state sync failed", "error", err)
		os.Exit(1)
	}

	skillsService := skills.NewService(repos.Skills, publisher)

	var authority staking.GamificationAuthority
	var gamClient *gamification.HTTPClient
	if cfg.GamificationBaseURL != "" {
		gamClient = gamification.NewHTTPClient(cfg.GamificationBaseURL, cfg.GamificationAPIKey)
		authority = gamClient
		slog.Info("Gamification authority configured", "base_url", cfg.GamificationBaseURL)
	}

	stakingService := staking.NewService(
		repos.Staking,
		skillsService,
		authority,
		publisher,
		concurrency.NewAccountGuard(),
		staking.Economics{
			CommissionRateBP: cfg.CommissionRateBP,
			DailyWithdrawCap: cfg.DailyWithdrawCap,
			MinStakeAmount:   cfg.MinStakeAmount,
			MaxStakeAmount:   cfg.MaxStakeAmount,
		},
	)

	pool := worker.NewPool(workerPoolSize, workerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(poolStatsInterval, worker.NewPoolStatsJob(repos.Staking))
	sched.Schedule(eventLogCleanupEvery, eventlog.NewCleanupJob(eventLogService, cfg.EventLogRetentionDays))

	// The sweep only runs with an authority to answer opt-in checks
	if gamClient != nil {
		sched.Schedule(cfg.AutoCompoundInterval, worker.NewAutoCompoundJob(stakingService, gamClient, repos.Staking, cfg.AutoCompoundMinReward))
	} else {
		slog.Info("Auto-compound sweep disabled, no gamification authority configured")
	}

	purgeWorker := worker.NewDailyPurgeWorker(repos.Staking)
	purgeWorker.Start()

	srv := server.NewServer(
		cfg.Port,
		server.APIKeys{
			Client:    cfg.APIKey,
			Admin:     cfg.AdminAPIKey,
			Authority: cfg.AuthorityAPIKey,
		},
		cfg.TrustedProxies,
		dbPool,
		stakingService,
		skillsService,
		eventLogService,
	)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		PurgeWorker:        purgeWorker,
		StakingService:     stakingService,
		ResilientPublisher: publisher,
	})
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	httpAdapter "github.com/splitledger/splitledger/internal/adapter/http"
	"github.com/splitledger/splitledger/internal/adapter/http/handler"
	"github.com/splitledger/splitledger/internal/adapter/http/middleware"
	postgresRepo "github.com/splitledger/splitledger/internal/adapter/repository/postgres"
	redisRepo "github.com/splitledger/splitledger/internal/adapter/repository/redis"
	"github.com/splitledger/splitledger/internal/domain"
	"github.com/splitledger/splitledger/internal/infrastructure/config"
	"github.com/splitledger/splitledger/internal/infrastructure/eventpublisher"
	"github.com/splitledger/splitledger/internal/infrastructure/logger"
	"github.com/splitledger/splitledger/internal/infrastructure/metrics"
	"github.com/splitledger/splitledger/internal/infrastructure/postgres"
	"github.com/splitledger/splitledger/internal/infrastructure/redis"
	"github.com/splitledger/splitledger/internal/usecase"
)

const (
	rateLimiterSweepInterval = 10 * time.Minute
	rateLimiterMaxIdle       = 30 * time.Minute
)

func main() {
	// A local .env is optional; deployments configure through the environment.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.DatabaseTimeout)
	defer cancelConnect()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run schema migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(connectCtx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Business metrics share the default registry with the HTTP middleware
	// counters, so /metrics exposes both.
	businessMetrics := metrics.New(prometheus.DefaultRegisterer)

	quantizer := domain.NewQuantizer(cfg.CurrencyPlaces)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, businessMetrics)
	expenseUC := usecase.NewExpenseUseCase(usecase.ExpenseUseCaseConfig{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		TxRepo:      transactionRepo,
		EntryRepo:   entryRepo,
		OutboxRepo:  outboxRepo,
		Cache:       cache,
		IDGen:       idGen,
		Metrics:     businessMetrics,
		Quantizer:   quantizer,
	}).WithRetrier(postgresRepo.NewRetrier(log))
	balanceUC := usecase.NewBalanceUseCase(accountRepo, entryRepo, cache, businessMetrics)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	expenseHandler := handler.NewExpenseHandler(expenseUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		ExpenseHandler:   expenseHandler,
		BalanceHandler:   balanceHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		Logger:           log,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      rateLimiter,
	})

	// Background workers stop when shutdown begins.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Publish outbox events
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log),
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  cfg.OutboxRetention,
	})
	go func() {
		if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Drop per-IP limiters that have gone quiet.
	go func() {
		ticker := time.NewTicker(rateLimiterSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				rateLimiter.CleanupStale(rateLimiterMaxIdle)
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

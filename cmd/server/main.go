package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/finwallet/ledger/internal/adapter/http"
	"github.com/finwallet/ledger/internal/adapter/http/handler"
	postgresRepo "github.com/finwallet/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/finwallet/ledger/internal/adapter/repository/redis"
	"github.com/finwallet/ledger/internal/infrastructure/auth"
	"github.com/finwallet/ledger/internal/infrastructure/config"
	"github.com/finwallet/ledger/internal/infrastructure/eventpublisher"
	"github.com/finwallet/ledger/internal/infrastructure/logger"
	"github.com/finwallet/ledger/internal/infrastructure/metrics"
	"github.com/finwallet/ledger/internal/infrastructure/postgres"
	"github.com/finwallet/ledger/internal/infrastructure/redis"
	"github.com/finwallet/ledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	ctx := context.Background()

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		zlog.Fatal().Err(err).Msg("failed to run migrations")
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxConns:        cfg.DatabaseMaxConns,
		MinConns:        cfg.DatabaseMinConns,
		MaxConnLifetime: cfg.DatabaseMaxConnLifetime,
		MaxConnIdleTime: cfg.DatabaseMaxConnIdleTime,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	zlog.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	zlog.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	uowManager := postgresRepo.NewUnitOfWorkManager(pool, cfg.LockTimeout)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	balanceCache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Use cases
	transferUC := usecase.NewTransferUseCase(usecase.TransferConfig{
		UnitOfWorkManager: uowManager,
		AccountRepo:       accountRepo,
		TransactionRepo:   transactionRepo,
		EntryRepo:         entryRepo,
		OutboxRepo:        outboxRepo,
		AuditRepo:         auditRepo,
		BalanceCache:      balanceCache,
		IDGen:             idGen,
		Metrics:           m,
		TransferTimeout:   cfg.TransferTimeout,
		BalanceCacheTTL:   cfg.BalanceCacheTTL,
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, m)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, balanceCache, cfg.BalanceCacheTTL, m)
	queryUC := usecase.NewQueryUseCase(transactionRepo, entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, m)
	accountHandler := handler.NewAccountHandler(accountUC, balanceUC)
	transferHandler := handler.NewTransferHandler(transferUC, queryUC)
	entryHandler := handler.NewEntryHandler(queryUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransferHandler:    transferHandler,
		EntryHandler:       entryHandler,
		LedgerHandler:      ledgerHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		AuthEnabled:        cfg.AuthEnabled,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		Logger:             zlog,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Outbox publisher worker
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && err != context.Canceled {
			zlog.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		zlog.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info().Msg("shutting down server...")
	stopPublisher()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("server forced to shutdown")
	}

	zlog.Info().Msg("server stopped")
}

package integration

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/finwallet/ledger/internal/adapter/http"
	"github.com/finwallet/ledger/internal/adapter/http/handler"
	"github.com/finwallet/ledger/internal/adapter/repository/postgres"
	redisrepo "github.com/finwallet/ledger/internal/adapter/repository/redis"
	"github.com/finwallet/ledger/internal/infrastructure/auth"
	infraredis "github.com/finwallet/ledger/internal/infrastructure/redis"
	"github.com/finwallet/ledger/internal/usecase"
	"github.com/finwallet/ledger/tests/testutil"
)

// testStack wires real repositories against the test database and redis.
type testStack struct {
	DB          *testutil.TestDB
	RedisClient *goredis.Client

	TransferUC *usecase.TransferUseCase
	AccountUC  *usecase.AccountUseCase
	QueryUC    *usecase.QueryUseCase
	LedgerUC   *usecase.LedgerUseCase
	OutboxRepo *postgres.OutboxRepository

	Router http.Handler
}

func newTestStack(t *testing.T) (*testStack, func()) {
	t.Helper()

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		testDB.Cleanup()
		t.Fatalf("failed to connect to redis: %v", err)
	}

	pool := testDB.Pool
	uowManager := postgres.NewUnitOfWorkManager(pool, 3*time.Second)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	balanceCache := redisrepo.NewCache(redisClient)
	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)
	idGen := postgres.NewULIDGenerator()

	transferUC := usecase.NewTransferUseCase(usecase.TransferConfig{
		UnitOfWorkManager: uowManager,
		AccountRepo:       accountRepo,
		TransactionRepo:   transactionRepo,
		EntryRepo:         entryRepo,
		OutboxRepo:        outboxRepo,
		AuditRepo:         auditRepo,
		BalanceCache:      balanceCache,
		IDGen:             idGen,
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, nil)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, balanceCache, 30*time.Second, nil)
	queryUC := usecase.NewQueryUseCase(transactionRepo, entryRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	jwtManager := auth.NewJWTManager("integration-secret", time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:      handler.NewAuthHandler(userUC, jwtManager, nil),
		AccountHandler:   handler.NewAccountHandler(accountUC, balanceUC),
		TransferHandler:  handler.NewTransferHandler(transferUC, queryUC),
		EntryHandler:     handler.NewEntryHandler(queryUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		JWTManager:       jwtManager,
		IdempotencyStore: idempotencyStore,
		Logger:           zerolog.Nop(),
	})

	stack := &testStack{
		DB:          testDB,
		RedisClient: redisClient,
		TransferUC:  transferUC,
		AccountUC:   accountUC,
		QueryUC:     queryUC,
		LedgerUC:    ledgerUC,
		OutboxRepo:  outboxRepo,
		Router:      router,
	}

	cleanup := func() {
		redisClient.Close()
		testDB.Cleanup()
	}

	return stack, cleanup
}

// transferInput builds a minimal transfer input without auth context.
func transferInput(sourceID, destID, amount string) usecase.ExecuteTransferInput {
	return usecase.ExecuteTransferInput{
		SourceAccountID:      sourceID,
		DestinationAccountID: destID,
		Amount:               decimal.RequireFromString(amount),
	}
}

// entriesInput builds an entry listing input with a generous page size.
func entriesInput(accountID string) usecase.GetEntriesByAccountInput {
	return usecase.GetEntriesByAccountInput{
		AccountID: accountID,
		Limit:     100,
	}
}

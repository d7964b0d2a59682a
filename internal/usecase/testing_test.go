package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/repository"
)

const (
	testStoreAccount  = "store.near"
	testOwnerAccount  = "owner.near"
	testMarketAccount = "market.near"
)

// promauto registers against the default registry, so the package shares one
// metrics instance across tests.
var testMetrics = metrics.NewContractMetrics()

type testEnv struct {
	db            *gorm.DB
	stateRepo     *repository.ContractStateRepository
	seriesRepo    *repository.SeriesRepository
	affiliateRepo *repository.AffiliateRequestRepository
	tokenRepo     *repository.TokenRepository
	chainRepo     *repository.CallChainRepository
	guard         *AccessGuard
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	err = db.AutoMigrate(
		&models.ContractStateModel{},
		&models.SeriesModel{},
		&models.AffiliateRequestModel{},
		&models.TokenModel{},
		&models.LockedTokenModel{},
		&models.CallChainModel{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	stateRepo := repository.NewContractStateRepository(db)
	if err := stateRepo.InitState(&domain.ContractState{
		StoreAccountID:       testStoreAccount,
		OwnerID:              testOwnerAccount,
		MarketplaceAccountID: testMarketAccount,
		TokenCost:            4,
		Metadata:             domain.StoreMetadata{Name: "Corner Store", Symbol: "CRNR"},
	}); err != nil {
		t.Fatalf("init state: %v", err)
	}

	return &testEnv{
		db:            db,
		stateRepo:     stateRepo,
		seriesRepo:    repository.NewSeriesRepository(db),
		affiliateRepo: repository.NewAffiliateRequestRepository(db),
		tokenRepo:     repository.NewTokenRepository(db),
		chainRepo:     repository.NewCallChainRepository(db),
		guard:         NewAccessGuard(stateRepo),
	}
}

type refundCall struct {
	Receiver string
	Amount   uint64
	Memo     string
}

type stubTreasury struct {
	mu      sync.Mutex
	refunds []refundCall
	err     error
}

func (s *stubTreasury) Refund(_ context.Context, receiverID string, amount uint64, memo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.refunds = append(s.refunds, refundCall{Receiver: receiverID, Amount: amount, Memo: memo})
	return nil
}

func (s *stubTreasury) calls() []refundCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]refundCall(nil), s.refunds...)
}

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (s *stubPublisher) Publish(topic string, _ ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append(s.topics, topic)
	return nil
}

type platformCall struct {
	Op        string
	AccountID string
	Method    string
	Args      any
	Deposit   uint64
}

// stubPlatform records every call and fails any operation named in failOn.
type stubPlatform struct {
	mu     sync.Mutex
	log    []platformCall
	failOn map[string]error
}

func (s *stubPlatform) record(call platformCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, call)
	if err, ok := s.failOn[call.Op]; ok {
		return err
	}
	return nil
}

func (s *stubPlatform) CreateSubaccount(_ context.Context, accountID string) error {
	return s.record(platformCall{Op: "create_subaccount", AccountID: accountID})
}

func (s *stubPlatform) AddFullAccessKey(_ context.Context, accountID, publicKey string) error {
	return s.record(platformCall{Op: "add_full_access_key", AccountID: accountID})
}

func (s *stubPlatform) Transfer(_ context.Context, receiverID string, amount uint64) error {
	return s.record(platformCall{Op: "transfer", AccountID: receiverID, Deposit: amount})
}

func (s *stubPlatform) DeployCode(_ context.Context, accountID, codeRef string) error {
	return s.record(platformCall{Op: "deploy_code", AccountID: accountID})
}

func (s *stubPlatform) Call(_ context.Context, accountID, method string, args any, deposit uint64) error {
	return s.record(platformCall{Op: "call", AccountID: accountID, Method: method, Args: args, Deposit: deposit})
}

func (s *stubPlatform) calls() []platformCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]platformCall(nil), s.log...)
}

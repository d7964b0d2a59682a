package repository

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

func setupDB(t *testing.T) *gorm.DB {
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
	return db
}

func sampleSeries(id uint64, affiliate map[string]uint32) *domain.Series {
	now := time.Now()
	price := uint64(100)
	return &domain.Series{
		ID: domain.SeriesID(id),
		Metadata: domain.SeriesMetadata{
			Title:               "Coffee Card",
			Description:         "ten espressos",
			IsReward:            true,
			RewardAmountPerUnit: 5,
		},
		Colors:    map[string]uint32{"brown": 1},
		Affiliate: affiliate,
		Price:     &price,
		OwnerID:   "owner.store",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSeriesRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	consumed, err := repo.CreateSeries(sampleSeries(1, map[string]uint32{"alice.near": 0}), 1<<20)
	require.NoError(t, err)
	require.Greater(t, consumed, int64(0))

	got, err := repo.GetSeriesByID(1)
	require.NoError(t, err)
	require.Equal(t, "Coffee Card", got.Metadata.Title)
	require.True(t, got.AcceptsAffiliates())
	require.Equal(t, uint32(0), got.Affiliate["alice.near"])
	require.NotNil(t, got.Price)
	require.Equal(t, uint64(100), *got.Price)
}

func TestCreateSeriesRollsBackWhenOverBudget(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.CreateSeries(sampleSeries(1, nil), 1)
	require.ErrorIs(t, err, domain.ErrInsufficientDeposit)

	// the insert must not survive the failed accounting
	_, err = repo.GetSeriesByID(1)
	require.ErrorIs(t, err, domain.ErrSeriesNotFound)
}

func TestSeriesNotFound(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.GetSeriesByID(42)
	require.ErrorIs(t, err, domain.ErrSeriesNotFound)
}

func TestSeriesWithoutAffiliatesStaysNil(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.CreateSeries(sampleSeries(1, nil), 1<<20)
	require.NoError(t, err)

	got, err := repo.GetSeriesByID(1)
	require.NoError(t, err)
	require.False(t, got.AcceptsAffiliates())
}

func TestSetAffiliatePercent(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.CreateSeries(sampleSeries(1, map[string]uint32{"alice.near": 0}), 1<<20)
	require.NoError(t, err)

	require.NoError(t, repo.SetAffiliatePercent(1, "alice.near", 10))

	got, err := repo.GetSeriesByID(1)
	require.NoError(t, err)
	percent, ok := got.ApprovedAffiliatePercent("alice.near")
	require.True(t, ok)
	require.Equal(t, uint32(10), percent)
}

func TestSetAffiliatePercentNotEligible(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.CreateSeries(sampleSeries(1, map[string]uint32{"alice.near": 0}), 1<<20)
	require.NoError(t, err)

	// approval never inserts a new key
	err = repo.SetAffiliatePercent(1, "mallory.near", 10)
	require.ErrorIs(t, err, domain.ErrAffiliateNotEligible)
}

func TestSetAffiliatePercentNotAccepted(t *testing.T) {
	db := setupDB(t)
	repo := NewSeriesRepository(db)

	_, err := repo.CreateSeries(sampleSeries(1, nil), 1<<20)
	require.NoError(t, err)

	err = repo.SetAffiliatePercent(1, "alice.near", 10)
	require.ErrorIs(t, err, domain.ErrAffiliateNotAccepted)
}

func newRequest(account string, seriesID uint64) *domain.AffiliateRequest {
	now := time.Now()
	return &domain.AffiliateRequest{
		ID:        uuid.New().String(),
		AccountID: account,
		SeriesID:  domain.SeriesID(seriesID),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAppendRequestAndFind(t *testing.T) {
	db := setupDB(t)
	repo := NewAffiliateRequestRepository(db)

	consumed, err := repo.AppendRequest(newRequest("alice.near", 1), 1<<20)
	require.NoError(t, err)
	require.Greater(t, consumed, int64(0))

	got, err := repo.FindByAccountAndSeries("alice.near", 1)
	require.NoError(t, err)
	require.False(t, got.Approved)

	_, err = repo.FindByAccountAndSeries("bob.near", 1)
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestAppendRequestRollsBackWhenOverBudget(t *testing.T) {
	db := setupDB(t)
	repo := NewAffiliateRequestRepository(db)

	_, err := repo.AppendRequest(newRequest("alice.near", 1), 1)
	require.ErrorIs(t, err, domain.ErrInsufficientDeposit)

	// the insert must not survive the failed accounting
	_, err = repo.FindByAccountAndSeries("alice.near", 1)
	require.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestMarkApproved(t *testing.T) {
	db := setupDB(t)
	repo := NewAffiliateRequestRepository(db)

	request := newRequest("alice.near", 1)
	_, err := repo.AppendRequest(request, 1<<20)
	require.NoError(t, err)

	pending, err := repo.FindUnresolved("alice.near", 1)
	require.NoError(t, err)

	approved, err := repo.MarkApproved(pending.ID)
	require.NoError(t, err)
	require.True(t, approved.Approved)

	// resolved requests are no longer pending
	_, err = repo.FindUnresolved("alice.near", 1)
	require.ErrorIs(t, err, domain.ErrRequestNotFound)

	// but remain visible as audit records
	got, err := repo.FindByAccountAndSeries("alice.near", 1)
	require.NoError(t, err)
	require.True(t, got.Approved)
}

func TestListRequestsKeepsInsertionOrder(t *testing.T) {
	db := setupDB(t)
	repo := NewAffiliateRequestRepository(db)

	for _, account := range []string{"carol.near", "alice.near", "bob.near"} {
		_, err := repo.AppendRequest(newRequest(account, 1), 1<<20)
		require.NoError(t, err)
	}

	requests, err := repo.ListRequests()
	require.NoError(t, err)
	require.Len(t, requests, 3)
	require.Equal(t, "carol.near", requests[0].AccountID)
	require.Equal(t, "alice.near", requests[1].AccountID)
	require.Equal(t, "bob.near", requests[2].AccountID)
}

func TestInitStateIsIdempotent(t *testing.T) {
	db := setupDB(t)
	repo := NewContractStateRepository(db)

	require.NoError(t, repo.InitState(&domain.ContractState{
		StoreAccountID:       "store.near",
		OwnerID:              "owner.near",
		MarketplaceAccountID: "market.near",
		TokenCost:            4,
	}))

	flipped, err := repo.SetTokenDeployedIfFalse()
	require.NoError(t, err)
	require.True(t, flipped)

	// a restart re-seeds but must not reset the deployment flag
	require.NoError(t, repo.InitState(&domain.ContractState{
		StoreAccountID: "store.near",
		OwnerID:        "owner.near",
	}))

	state, err := repo.GetState()
	require.NoError(t, err)
	require.True(t, state.TokenDeployed)
	require.Equal(t, "market.near", state.MarketplaceAccountID)
}

func TestSetTokenDeployedIsOneShot(t *testing.T) {
	db := setupDB(t)
	repo := NewContractStateRepository(db)

	require.NoError(t, repo.InitState(&domain.ContractState{StoreAccountID: "store.near"}))

	flipped, err := repo.SetTokenDeployedIfFalse()
	require.NoError(t, err)
	require.True(t, flipped)

	flipped, err = repo.SetTokenDeployedIfFalse()
	require.NoError(t, err)
	require.False(t, flipped)
}

func TestGetStateUninitialized(t *testing.T) {
	db := setupDB(t)
	repo := NewContractStateRepository(db)

	_, err := repo.GetState()
	require.ErrorIs(t, err, domain.ErrStateNotInitialized)
}

func TestTokenLockUnlock(t *testing.T) {
	db := setupDB(t)
	repo := NewTokenRepository(db)

	require.NoError(t, repo.LockToken("1:1"))

	locked, err := repo.IsTokenLocked("1:1")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, repo.UnlockToken("1:1"))

	locked, err = repo.IsTokenLocked("1:1")
	require.NoError(t, err)
	require.False(t, locked)

	require.ErrorIs(t, repo.UnlockToken("1:1"), domain.ErrTokenNotLocked)
}

func TestChainRoundTripAndStuckLookup(t *testing.T) {
	db := setupDB(t)
	repo := NewCallChainRepository(db)

	seriesID := domain.SeriesID(7)
	chain := &domain.CallChain{
		ID:       "chain-1",
		Kind:     domain.ChainKindTokenReward,
		Status:   domain.ChainStatusPending,
		Steps:    []domain.ChainStep{{Name: "storage_deposit", Status: domain.StepStatusScheduled}},
		CallerID: "market.near",
		SeriesID: &seriesID,
		Receiver: "buyer.near",
		Amount:   5,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.CreateChain(chain))

	got, err := repo.GetChainByID("chain-1")
	require.NoError(t, err)
	require.Equal(t, domain.ChainKindTokenReward, got.Kind)
	require.NotNil(t, got.SeriesID)
	require.Equal(t, domain.SeriesID(7), *got.SeriesID)
	require.Len(t, got.Steps, 1)

	stuck, err := repo.FindStuckChains(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, stuck, 1)

	got.Status = domain.ChainStatusSucceeded
	require.NoError(t, repo.UpdateChain(got))

	stuck, err = repo.FindStuckChains(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Empty(t, stuck)

	_, err = repo.GetChainByID("missing")
	require.ErrorIs(t, err, domain.ErrChainNotFound)
}

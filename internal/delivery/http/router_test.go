package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/repository"
	"github.com/piparlabs/store-token-service/internal/usecase"
)

const (
	ownerAccount  = "owner.near"
	marketAccount = "market.near"
)

var testMetrics = metrics.NewContractMetrics()

type nopPublisher struct{}

func (nopPublisher) Publish(string, ...domain.Message) error { return nil }

type nopTreasury struct{}

func (nopTreasury) Refund(context.Context, string, uint64, string) error { return nil }

type nopPlatform struct{}

func (nopPlatform) CreateSubaccount(context.Context, string) error         { return nil }
func (nopPlatform) AddFullAccessKey(context.Context, string, string) error { return nil }
func (nopPlatform) Transfer(context.Context, string, uint64) error         { return nil }
func (nopPlatform) DeployCode(context.Context, string, string) error       { return nil }
func (nopPlatform) Call(context.Context, string, string, any, uint64) error {
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.SeriesRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ContractStateModel{},
		&models.SeriesModel{},
		&models.AffiliateRequestModel{},
		&models.TokenModel{},
		&models.LockedTokenModel{},
		&models.CallChainModel{},
	))

	stateRepo := repository.NewContractStateRepository(db)
	require.NoError(t, stateRepo.InitState(&domain.ContractState{
		StoreAccountID:       "store.near",
		OwnerID:              ownerAccount,
		MarketplaceAccountID: marketAccount,
		TokenCost:            4,
		Metadata:             domain.StoreMetadata{Name: "Corner Store", Symbol: "CRNR"},
	}))

	seriesRepo := repository.NewSeriesRepository(db)
	affiliateRepo := repository.NewAffiliateRequestRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	chainRepo := repository.NewCallChainRepository(db)
	guard := usecase.NewAccessGuard(stateRepo)
	runner := chain.NewRunner(chainRepo, testMetrics)

	treasury := nopTreasury{}
	seriesUC := usecase.NewDefaultSeriesUsecase(seriesRepo, guard, treasury, testMetrics, 0, 1)
	affiliateUC := usecase.NewDefaultAffiliateUsecase(affiliateRepo, seriesRepo, guard, treasury, nopPublisher{}, testMetrics, 0, 1)
	settlementUC := usecase.NewDefaultSettlementUsecase(seriesRepo, tokenRepo, guard, testMetrics, 1)
	rewardUC := usecase.NewDefaultRewardUsecase(stateRepo, seriesRepo, guard, nopPlatform{}, runner, nopPublisher{}, testMetrics, 3)
	factoryUC := usecase.NewDefaultFactoryUsecase(stateRepo, guard, nopPlatform{}, treasury, runner, nopPublisher{}, testMetrics, "ft-v1")
	stateUC := usecase.NewDefaultStateUsecase(stateRepo, chainRepo)

	router := NewRouter(Handlers{
		Series:      NewSeriesHandler(seriesUC),
		Affiliate:   NewAffiliateHandler(affiliateUC),
		Marketplace: NewMarketplaceHandler(settlementUC, rewardUC),
		Factory:     NewFactoryHandler(factoryUC),
		Query:       NewQueryHandler(stateUC),
	})
	return router, seriesRepo
}

func seedSeries(t *testing.T, seriesRepo *repository.SeriesRepository, affiliate map[string]uint32) {
	t.Helper()
	now := time.Now()
	_, err := seriesRepo.CreateSeries(&domain.Series{
		ID:        1,
		Metadata:  domain.SeriesMetadata{Title: "Gift Card"},
		Affiliate: affiliate,
		OwnerID:   ownerAccount,
		CreatedAt: now,
		UpdatedAt: now,
	}, 1<<20)
	require.NoError(t, err)
}

func doJSON(router *gin.Engine, method, path, caller string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(callerHeader, caller)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSettlementEndpoint(t *testing.T) {
	router, seriesRepo := setupRouter(t)
	seedSeries(t, seriesRepo, map[string]uint32{"alice.near": 10})

	body := map[string]any{
		"series_id":          1,
		"storage_bytes_used": 5,
		"unit_price":         100,
		"store_owner":        ownerAccount,
		"token_owner":        "seller.near",
		"token_id":           "1:1",
		"attached_deposit":   105,
		"affiliate":          "alice.near",
	}

	w := doJSON(router, http.MethodPost, "/api/v1/marketplace/settlements", marketAccount, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp settleSaleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Affiliate)
	require.Equal(t, uint64(100), resp.Price)
	require.NotNil(t, resp.AffiliatePercent)
	require.Equal(t, uint32(10), *resp.AffiliatePercent)
}

func TestSettlementEndpointForbidden(t *testing.T) {
	router, seriesRepo := setupRouter(t)
	seedSeries(t, seriesRepo, nil)

	body := map[string]any{
		"series_id":        1,
		"unit_price":       100,
		"store_owner":      ownerAccount,
		"token_owner":      "seller.near",
		"token_id":         "1:1",
		"attached_deposit": 100,
	}

	w := doJSON(router, http.MethodPost, "/api/v1/marketplace/settlements", "mallory.near", body)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateSeriesEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]any{
		"series_id":          2,
		"title":              "Punch Card",
		"owner_id":           ownerAccount,
		"accept_affiliates":  true,
		"affiliate_accounts": []string{"alice.near"},
		"attached_deposit":   10_000,
	}

	w := doJSON(router, http.MethodPost, "/api/v1/series", ownerAccount, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp seriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, uint64(2), resp.SeriesID)
	require.Contains(t, resp.Affiliate, "alice.near")

	w = doJSON(router, http.MethodGet, "/api/v1/series/2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/series/99", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSeriesEndpointOwnerOnly(t *testing.T) {
	router, _ := setupRouter(t)

	body := map[string]any{
		"series_id":        2,
		"title":            "Punch Card",
		"owner_id":         ownerAccount,
		"attached_deposit": 10_000,
	}

	w := doJSON(router, http.MethodPost, "/api/v1/series", "mallory.near", body)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAffiliateEndpoints(t *testing.T) {
	router, seriesRepo := setupRouter(t)
	seedSeries(t, seriesRepo, map[string]uint32{"alice.near": 0})

	submit := map[string]any{"series_id": 1, "attached_deposit": 10_000}
	w := doJSON(router, http.MethodPost, "/api/v1/affiliate/requests", "alice.near", submit)
	require.Equal(t, http.StatusCreated, w.Code)

	// resubmission conflicts
	w = doJSON(router, http.MethodPost, "/api/v1/affiliate/requests", "alice.near", submit)
	require.Equal(t, http.StatusConflict, w.Code)

	approve := map[string]any{"series_id": 1, "affiliate_id": "alice.near", "percent": 10}
	w = doJSON(router, http.MethodPost, "/api/v1/affiliate/approvals", ownerAccount, approve)
	require.Equal(t, http.StatusOK, w.Code)

	var resp affiliateRequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Approved)
}

func TestQueryEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/store/owner", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), ownerAccount)

	w = doJSON(router, http.MethodGet, "/api/v1/store/token", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "false")

	w = doJSON(router, http.MethodGet, "/api/v1/store/token/cost", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "4")

	w = doJSON(router, http.MethodGet, "/api/v1/store/metadata", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Corner Store")

	w = doJSON(router, http.MethodGet, "/api/v1/chains/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

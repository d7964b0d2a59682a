package usecase

import (
	"fmt"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	settlementdto "github.com/piparlabs/store-token-service/internal/usecase/dto/settlement"
)

type SettlementUsecase interface {
	SettleSale(callerID string, input *settlementdto.SettleSaleInput) (*domain.MarketplaceData, error)
	UnlockToken(callerID, tokenID string) error
}

type DefaultSettlementUsecase struct {
	SeriesRepo  domain.SeriesRepository
	TokenRepo   domain.TokenRepository
	Guard       *AccessGuard
	Metrics     *metrics.ContractMetrics
	PerByteRate uint64
}

func NewDefaultSettlementUsecase(
	seriesRepo domain.SeriesRepository,
	tokenRepo domain.TokenRepository,
	guard *AccessGuard,
	contractMetrics *metrics.ContractMetrics,
	perByteRate uint64) *DefaultSettlementUsecase {

	return &DefaultSettlementUsecase{
		SeriesRepo:  seriesRepo,
		TokenRepo:   tokenRepo,
		Guard:       guard,
		Metrics:     contractMetrics,
		PerByteRate: perByteRate,
	}
}

// SettleSale computes how a sale's proceeds are split among store owner,
// token owner and affiliate. It is a pure computation: no funds move here,
// the marketplace collaborator transfers based on the returned data.
func (uc *DefaultSettlementUsecase) SettleSale(callerID string, input *settlementdto.SettleSaleInput) (*domain.MarketplaceData, error) {
	if err := uc.Guard.RequireMarketplace(callerID); err != nil {
		uc.Metrics.RecordSettlementError("caller")
		return nil, err
	}

	requiredCost := uc.PerByteRate * input.StorageBytesUsed
	if input.AttachedDeposit < requiredCost+input.UnitPrice {
		uc.Metrics.RecordSettlementError("insufficient_deposit")
		return nil, fmt.Errorf("%w: must attach %d to cover storage and price per token %d, attached %d",
			domain.ErrInsufficientDeposit, requiredCost, input.UnitPrice, input.AttachedDeposit)
	}

	series, err := uc.SeriesRepo.GetSeriesByID(domain.SeriesID(input.SeriesID))
	if err != nil {
		uc.Metrics.RecordSettlementError("series_not_found")
		return nil, err
	}

	data := &domain.MarketplaceData{
		Price:      input.UnitPrice,
		Affiliate:  false,
		TokenID:    input.TokenID,
		TokenOwner: input.TokenOwner,
		StoreOwner: input.StoreOwner,
	}

	// an unspecified, unknown or unapproved candidate silently degrades to
	// a plain sale; a typo in the affiliate id must not fail the sale
	if input.Affiliate != nil {
		if percent, ok := series.ApprovedAffiliatePercent(*input.Affiliate); ok {
			affiliateID := *input.Affiliate
			data.Affiliate = true
			data.AffiliateID = &affiliateID
			data.AffiliatePercent = &percent
		}
	}

	uc.Metrics.RecordSettlement(data.Affiliate, data.Price)
	return data, nil
}

// UnlockToken releases a token held pending a cross-contract transaction.
// Unlocking an unlocked token is a logic error, not a silent no-op.
func (uc *DefaultSettlementUsecase) UnlockToken(callerID, tokenID string) error {
	if err := uc.Guard.RequireMarketplace(callerID); err != nil {
		return err
	}
	return uc.TokenRepo.UnlockToken(tokenID)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	seriesdto "github.com/piparlabs/store-token-service/internal/usecase/dto/series"
)

type SeriesUsecase interface {
	CreateSeries(ctx context.Context, callerID string, input *seriesdto.CreateSeriesInput) (*domain.Series, error)
	GetSeriesByID(id uint64) (*domain.Series, error)
	GetSeries(page, limit int32) ([]*domain.Series, error)
}

type DefaultSeriesUsecase struct {
	SeriesRepo    domain.SeriesRepository
	Guard         *AccessGuard
	Treasury      domain.TreasuryPort
	Metrics       *metrics.ContractMetrics
	PerByteRate   uint64
	MinAttachment uint64
}

func NewDefaultSeriesUsecase(
	seriesRepo domain.SeriesRepository,
	guard *AccessGuard,
	treasury domain.TreasuryPort,
	contractMetrics *metrics.ContractMetrics,
	perByteRate uint64,
	minAttachment uint64) *DefaultSeriesUsecase {

	return &DefaultSeriesUsecase{
		SeriesRepo:    seriesRepo,
		Guard:         guard,
		Treasury:      treasury,
		Metrics:       contractMetrics,
		PerByteRate:   perByteRate,
		MinAttachment: minAttachment,
	}
}

// CreateSeries persists a new product template. When the series opts into
// the affiliate program, the allow-list seeds the affiliate map with a zero
// commission; only owner approval raises an account's percentage.
func (uc *DefaultSeriesUsecase) CreateSeries(ctx context.Context, callerID string, input *seriesdto.CreateSeriesInput) (*domain.Series, error) {
	if err := uc.Guard.RequireOwner(callerID); err != nil {
		return nil, err
	}

	if input.AttachedDeposit <= uc.MinAttachment {
		return nil, fmt.Errorf("%w: must attach more than %d to this call",
			domain.ErrInsufficientDeposit, uc.MinAttachment)
	}

	_, err := uc.SeriesRepo.GetSeriesByID(domain.SeriesID(input.SeriesID))
	if err == nil {
		return nil, fmt.Errorf("series %d already exists", input.SeriesID)
	}
	if !errors.Is(err, domain.ErrSeriesNotFound) {
		return nil, err
	}

	now := time.Now()
	series := &domain.Series{
		ID: domain.SeriesID(input.SeriesID),
		Metadata: domain.SeriesMetadata{
			Title:               input.Title,
			Description:         input.Description,
			Media:               input.Media,
			Copies:              input.Copies,
			BuyTimeout:          input.BuyTimeout,
			IsDiscount:          input.IsDiscount,
			DiscountPercent:     input.DiscountPercent,
			TokenAmountPerUnit:  input.TokenAmountPerUnit,
			IsReward:            input.IsReward,
			RewardAmountPerUnit: input.RewardAmountPerUnit,
			IsCustomUser:        input.IsCustomUser,
			User:                input.User,
		},
		Colors:    input.Colors,
		Royalty:   input.Royalty,
		Price:     input.Price,
		OwnerID:   input.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.AcceptAffiliates {
		series.Affiliate = make(map[string]uint32, len(input.AffiliateAccounts))
		for _, account := range input.AffiliateAccounts {
			series.Affiliate[account] = 0
		}
	}

	maxBytes := int64(math.MaxInt64)
	if uc.PerByteRate > 0 {
		maxBytes = int64(input.AttachedDeposit / uc.PerByteRate)
	}
	consumedBytes, err := uc.SeriesRepo.CreateSeries(series, maxBytes)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientDeposit) {
			return nil, fmt.Errorf("%w: series requires %d for storage, attached %d",
				domain.ErrInsufficientDeposit, uint64(consumedBytes)*uc.PerByteRate, input.AttachedDeposit)
		}
		return nil, err
	}

	storageCost := uint64(consumedBytes) * uc.PerByteRate
	if refund := input.AttachedDeposit - storageCost; refund > 0 {
		if err := uc.Treasury.Refund(ctx, callerID, refund, "series storage refund"); err != nil {
			slog.Error("failed to refund series storage excess",
				"caller", callerID, "amount", refund, "error", err.Error())
		} else {
			uc.Metrics.RecordRefund("storage_excess", refund)
		}
	}

	return series, nil
}

func (uc *DefaultSeriesUsecase) GetSeriesByID(id uint64) (*domain.Series, error) {
	return uc.SeriesRepo.GetSeriesByID(domain.SeriesID(id))
}

func (uc *DefaultSeriesUsecase) GetSeries(page, limit int32) ([]*domain.Series, error) {
	return uc.SeriesRepo.GetSeries(page, limit)
}

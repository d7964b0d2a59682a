package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/piparlabs/store-token-service/internal/domain"
	publisher "github.com/piparlabs/store-token-service/internal/infrastructure/kafka"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	affiliatedto "github.com/piparlabs/store-token-service/internal/usecase/dto/affiliate"
)

type AffiliateUsecase interface {
	SubmitRequest(ctx context.Context, input *affiliatedto.SubmitRequestInput) (*affiliatedto.SubmitRequestOutput, error)
	ApproveRequest(ctx context.Context, callerID string, input *affiliatedto.ApproveRequestInput) (*domain.AffiliateRequest, error)
	ListRequests() ([]*domain.AffiliateRequest, error)
}

type DefaultAffiliateUsecase struct {
	AffiliateRepo domain.AffiliateRequestRepository
	SeriesRepo    domain.SeriesRepository
	Guard         *AccessGuard
	Treasury      domain.TreasuryPort
	Publisher     domain.PublisherPort
	Metrics       *metrics.ContractMetrics
	PerByteRate   uint64
	MinAttachment uint64
}

func NewDefaultAffiliateUsecase(
	affiliateRepo domain.AffiliateRequestRepository,
	seriesRepo domain.SeriesRepository,
	guard *AccessGuard,
	treasury domain.TreasuryPort,
	pub domain.PublisherPort,
	contractMetrics *metrics.ContractMetrics,
	perByteRate uint64,
	minAttachment uint64) *DefaultAffiliateUsecase {

	return &DefaultAffiliateUsecase{
		AffiliateRepo: affiliateRepo,
		SeriesRepo:    seriesRepo,
		Guard:         guard,
		Treasury:      treasury,
		Publisher:     pub,
		Metrics:       contractMetrics,
		PerByteRate:   perByteRate,
		MinAttachment: minAttachment,
	}
}

// SubmitRequest enrolls an account as a pending affiliate of a series. The
// affiliate pays for its own storage: the appended record is measured and
// the unused part of the attached deposit is refunded.
func (uc *DefaultAffiliateUsecase) SubmitRequest(ctx context.Context, input *affiliatedto.SubmitRequestInput) (*affiliatedto.SubmitRequestOutput, error) {
	seriesID := domain.SeriesID(input.SeriesID)

	series, err := uc.SeriesRepo.GetSeriesByID(seriesID)
	if err != nil {
		uc.Metrics.AffiliateRequestsTotal.WithLabelValues("series_not_found").Inc()
		return nil, err
	}
	if !series.AcceptsAffiliates() {
		uc.Metrics.AffiliateRequestsTotal.WithLabelValues("not_accepted").Inc()
		return nil, domain.ErrAffiliateNotAccepted
	}

	if input.AttachedDeposit <= uc.MinAttachment {
		uc.Metrics.AffiliateRequestsTotal.WithLabelValues("insufficient_deposit").Inc()
		return nil, fmt.Errorf("%w: must attach more than %d to this call",
			domain.ErrInsufficientDeposit, uc.MinAttachment)
	}

	// duplicate submission fails whether the earlier request is resolved or
	// not; the conflicting record is echoed back to the caller
	existing, err := uc.AffiliateRepo.FindByAccountAndSeries(input.AffiliateID, seriesID)
	if err == nil {
		uc.Metrics.AffiliateRequestsTotal.WithLabelValues("duplicate").Inc()
		return nil, fmt.Errorf("%w: account=%s series=%d approved=%t",
			domain.ErrDuplicateRequest, existing.AccountID, existing.SeriesID, existing.Approved)
	}
	if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, err
	}

	now := time.Now()
	request := &domain.AffiliateRequest{
		ID:        uuid.New().String(),
		AccountID: input.AffiliateID,
		SeriesID:  seriesID,
		Approved:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	maxBytes := int64(math.MaxInt64)
	if uc.PerByteRate > 0 {
		maxBytes = int64(input.AttachedDeposit / uc.PerByteRate)
	}
	consumedBytes, err := uc.AffiliateRepo.AppendRequest(request, maxBytes)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientDeposit) {
			uc.Metrics.AffiliateRequestsTotal.WithLabelValues("insufficient_deposit").Inc()
			return nil, fmt.Errorf("%w: request requires %d for storage, attached %d",
				domain.ErrInsufficientDeposit, uint64(consumedBytes)*uc.PerByteRate, input.AttachedDeposit)
		}
		return nil, err
	}

	storageCost := uint64(consumedBytes) * uc.PerByteRate
	refunded := input.AttachedDeposit - storageCost
	if refunded > 0 {
		if err := uc.Treasury.Refund(ctx, input.AffiliateID, refunded, "affiliate request storage refund"); err != nil {
			// record is in place; the refund failure is operational, not fatal
			slog.Error("failed to refund storage excess",
				"account", input.AffiliateID, "amount", refunded, "error", err.Error())
		} else {
			uc.Metrics.RecordRefund("storage_excess", refunded)
		}
	}

	uc.Metrics.AffiliateRequestsTotal.WithLabelValues("submitted").Inc()

	go func(event publisher.AffiliateEvent) {
		if err := publisher.PublishAffiliateEvent(uc.Publisher, event); err != nil {
			slog.Error("failed to publish AffiliateEvent:requested", "error", err.Error())
		}
	}(publisher.AffiliateEvent{
		RequestID: request.ID,
		AccountID: request.AccountID,
		SeriesID:  uint64(request.SeriesID),
		Status:    "REQUESTED",
	})

	return &affiliatedto.SubmitRequestOutput{
		Request:     *request,
		StorageCost: storageCost,
		Refunded:    refunded,
	}, nil
}

// ApproveRequest is owner-only. Approval overwrites the commission
// percentage of an account already present in the series affiliate map and
// flips the pending request in place.
func (uc *DefaultAffiliateUsecase) ApproveRequest(ctx context.Context, callerID string, input *affiliatedto.ApproveRequestInput) (*domain.AffiliateRequest, error) {
	if err := uc.Guard.RequireOwner(callerID); err != nil {
		return nil, err
	}
	// a zero percentage is indistinguishable from an unapproved seed entry
	if input.Percent == 0 {
		return nil, domain.ErrInvalidPercent
	}

	seriesID := domain.SeriesID(input.SeriesID)

	pending, err := uc.AffiliateRepo.FindUnresolved(input.AffiliateID, seriesID)
	if err != nil {
		return nil, err
	}

	if err := uc.SeriesRepo.SetAffiliatePercent(seriesID, input.AffiliateID, input.Percent); err != nil {
		return nil, err
	}

	approved, err := uc.AffiliateRepo.MarkApproved(pending.ID)
	if err != nil {
		return nil, err
	}

	uc.Metrics.AffiliateRequestsTotal.WithLabelValues("approved").Inc()

	go func(event publisher.AffiliateEvent) {
		if err := publisher.PublishAffiliateEvent(uc.Publisher, event); err != nil {
			slog.Error("failed to publish AffiliateEvent:approved", "error", err.Error())
		}
	}(publisher.AffiliateEvent{
		RequestID: approved.ID,
		AccountID: approved.AccountID,
		SeriesID:  uint64(approved.SeriesID),
		Status:    "APPROVED",
		Percent:   input.Percent,
	})

	return approved, nil
}

func (uc *DefaultAffiliateUsecase) ListRequests() ([]*domain.AffiliateRequest, error) {
	return uc.AffiliateRepo.ListRequests()
}

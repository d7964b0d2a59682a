package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"

	"github.com/jaevor/go-nanoid"

	"github.com/piparlabs/store-token-service/internal/client"
	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
	publisher "github.com/piparlabs/store-token-service/internal/infrastructure/kafka"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
)

const (
	storageDepositMethod = "storage_deposit"
	ftTransferMethod     = "ft_transfer"
)

type RewardUsecase interface {
	RewardBuyer(ctx context.Context, callerID string, seriesID uint64, receiverID string) (string, error)
	StartSaleConsumer(ctx context.Context, sub domain.SubscriberPort) error
}

type DefaultRewardUsecase struct {
	StateRepo       domain.ContractStateRepository
	SeriesRepo      domain.SeriesRepository
	Guard           *AccessGuard
	Platform        domain.TokenPlatformPort
	Runner          *chain.Runner
	Publisher       domain.PublisherPort
	Metrics         *metrics.ContractMetrics
	RegistrationFee uint64

	newChainID func() string
}

func NewDefaultRewardUsecase(
	stateRepo domain.ContractStateRepository,
	seriesRepo domain.SeriesRepository,
	guard *AccessGuard,
	platform domain.TokenPlatformPort,
	runner *chain.Runner,
	pub domain.PublisherPort,
	contractMetrics *metrics.ContractMetrics,
	registrationFee uint64) *DefaultRewardUsecase {

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init chain id generator: %v", err)
	}

	uc := &DefaultRewardUsecase{
		StateRepo:       stateRepo,
		SeriesRepo:      seriesRepo,
		Guard:           guard,
		Platform:        platform,
		Runner:          runner,
		Publisher:       pub,
		Metrics:         contractMetrics,
		RegistrationFee: registrationFee,
		newChainID:      idGenerator,
	}

	runner.RegisterCompletion(domain.ChainKindTokenReward, uc.onRewardComplete)
	return uc
}

// RewardBuyer pays a buyer the series' configured reward in the store token
// after a qualifying purchase. All preconditions are checked synchronously;
// if any fails the call aborts with no external side effect.
func (uc *DefaultRewardUsecase) RewardBuyer(ctx context.Context, callerID string, seriesID uint64, receiverID string) (string, error) {
	if err := uc.Guard.RequireMarketplace(callerID); err != nil {
		return "", err
	}
	if err := uc.Guard.RequireTokenDeployed(); err != nil {
		return "", err
	}

	state, err := uc.StateRepo.GetState()
	if err != nil {
		return "", err
	}

	series, err := uc.SeriesRepo.GetSeriesByID(domain.SeriesID(seriesID))
	if err != nil {
		return "", err
	}
	if !series.Metadata.IsReward {
		return "", domain.ErrNoRewardForSeries
	}

	rewardAmount := series.Metadata.RewardAmountPerUnit
	tokenAccount := TokenAccountID(state.StoreAccountID)
	memo := fmt.Sprintf("Thank You for Shopping at %s!", state.StoreAccountID)

	storageArgs := client.StorageData{
		AccountID:        receiverID,
		RegistrationOnly: false,
	}
	transferArgs := client.TokenData{
		ReceiverID: receiverID,
		Amount:     rewardAmount,
		Memo:       memo,
	}

	id := domain.SeriesID(seriesID)
	chainRecord := &domain.CallChain{
		ID:       uc.newChainID(),
		Kind:     domain.ChainKindTokenReward,
		CallerID: callerID,
		SeriesID: &id,
		Receiver: receiverID,
		Amount:   rewardAmount,
	}

	steps := []chain.Step{
		{Name: "storage_deposit", Run: func(ctx context.Context) error {
			return uc.Platform.Call(ctx, tokenAccount, storageDepositMethod, storageArgs, uc.RegistrationFee)
		}},
		{Name: "ft_transfer", Run: func(ctx context.Context) error {
			return uc.Platform.Call(ctx, tokenAccount, ftTransferMethod, transferArgs, 0)
		}},
	}

	if err := uc.Runner.Schedule(chainRecord, steps); err != nil {
		return "", err
	}

	return chainRecord.ID, nil
}

// StartSaleConsumer drains marketplace sale events and disburses rewards for
// sales of reward series. Events arrive over the marketplace's own topic, so
// they carry the same authority as a direct marketplace call; sales of
// non-reward series are skipped without error.
func (uc *DefaultRewardUsecase) StartSaleConsumer(ctx context.Context, sub domain.SubscriberPort) error {
	messages, err := sub.Subscribe(publisher.MarketplaceSaleTopic, "store-token-service")
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				uc.handleSaleEvent(ctx, msg)
			}
		}
	}()
	return nil
}

func (uc *DefaultRewardUsecase) handleSaleEvent(ctx context.Context, msg domain.Message) {
	var event publisher.MarketplaceSaleEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		slog.Error("failed to decode MarketplaceSaleEvent", "error", err.Error())
		return
	}

	state, err := uc.StateRepo.GetState()
	if err != nil {
		slog.Error("failed to load state for sale event", "error", err.Error())
		return
	}

	chainID, err := uc.RewardBuyer(ctx, state.MarketplaceAccountID, event.SeriesID, event.BuyerID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRewardForSeries) || errors.Is(err, domain.ErrTokenNotDeployed) {
			return
		}
		slog.Error("failed to reward buyer from sale event",
			"series_id", event.SeriesID, "buyer", event.BuyerID, "error", err.Error())
		return
	}
	slog.Info("reward chain scheduled from sale event",
		"chain_id", chainID, "series_id", event.SeriesID, "buyer", event.BuyerID)
}

// onRewardComplete reports the outcome; failures are reported, not retried,
// and no local state is rolled back because none was mutated before the
// chain was issued.
func (uc *DefaultRewardUsecase) onRewardComplete(ctx context.Context, chainRecord *domain.CallChain, chainErr error) string {
	var result, status string
	if chainErr == nil {
		result = fmt.Sprintf("Sent %d token successfully!", chainRecord.Amount)
		status = "SUCCEEDED"
	} else {
		result = "failed sending token"
		status = "FAILED"
		slog.Error("reward disbursement failed", "chain_id", chainRecord.ID, "error", chainErr.Error())
	}

	var seriesID uint64
	if chainRecord.SeriesID != nil {
		seriesID = uint64(*chainRecord.SeriesID)
	}

	go func(event publisher.TokenRewardEvent) {
		if err := publisher.PublishTokenRewardEvent(uc.Publisher, event); err != nil {
			slog.Error("failed to publish TokenRewardEvent", "error", err.Error())
		}
	}(publisher.TokenRewardEvent{
		ChainID:  chainRecord.ID,
		SeriesID: seriesID,
		Receiver: chainRecord.Receiver,
		Amount:   chainRecord.Amount,
		Status:   status,
		Result:   result,
	})

	return result
}

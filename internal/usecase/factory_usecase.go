package usecase

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/jaevor/go-nanoid"

	"github.com/piparlabs/store-token-service/internal/client"
	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
	publisher "github.com/piparlabs/store-token-service/internal/infrastructure/kafka"
	"github.com/piparlabs/store-token-service/internal/infrastructure/metrics"
	factorydto "github.com/piparlabs/store-token-service/internal/usecase/dto/factory"
)

// tokenAccountPrefix namespaces the store's fungible-token sub-account
// under the store account itself.
const tokenAccountPrefix = "ft."

const tokenInitMethod = "new_default_meta"

type FactoryUsecase interface {
	DeployStoreToken(ctx context.Context, callerID string, input *factorydto.DeployTokenInput) (string, error)
}

type DefaultFactoryUsecase struct {
	StateRepo    domain.ContractStateRepository
	Guard        *AccessGuard
	Platform     domain.TokenPlatformPort
	Treasury     domain.TreasuryPort
	Runner       *chain.Runner
	Publisher    domain.PublisherPort
	Metrics      *metrics.ContractMetrics
	TokenCodeRef string

	newChainID func() string
}

func NewDefaultFactoryUsecase(
	stateRepo domain.ContractStateRepository,
	guard *AccessGuard,
	platform domain.TokenPlatformPort,
	treasury domain.TreasuryPort,
	runner *chain.Runner,
	pub domain.PublisherPort,
	contractMetrics *metrics.ContractMetrics,
	tokenCodeRef string) *DefaultFactoryUsecase {

	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		log.Fatalf("failed to init chain id generator: %v", err)
	}

	uc := &DefaultFactoryUsecase{
		StateRepo:    stateRepo,
		Guard:        guard,
		Platform:     platform,
		Treasury:     treasury,
		Runner:       runner,
		Publisher:    pub,
		Metrics:      contractMetrics,
		TokenCodeRef: tokenCodeRef,
		newChainID:   idGenerator,
	}

	runner.RegisterCompletion(domain.ChainKindTokenDeploy, uc.onDeployComplete)
	return uc
}

// TokenAccountID derives the deterministic sub-account the store token is
// deployed into.
func TokenAccountID(storeAccountID string) string {
	return tokenAccountPrefix + storeAccountID
}

// DeployStoreToken schedules the five-step deployment chain and returns the
// chain id immediately. The only local state advanced optimistically is
// nothing at all: the deployment flag moves inside the completion callback,
// after the whole chain is known to have succeeded.
func (uc *DefaultFactoryUsecase) DeployStoreToken(ctx context.Context, callerID string, input *factorydto.DeployTokenInput) (string, error) {
	if err := uc.Guard.RequireOwner(callerID); err != nil {
		return "", err
	}
	if err := uc.Guard.RequireTokenNotDeployed(); err != nil {
		return "", err
	}

	state, err := uc.StateRepo.GetState()
	if err != nil {
		return "", err
	}
	if input.AttachedDeposit <= state.TokenCost {
		return "", fmt.Errorf("%w: need to attach at least %d to cover the storage required for the token contract",
			domain.ErrInsufficientDeposit, state.TokenCost)
	}

	tokenAccount := TokenAccountID(state.StoreAccountID)
	deploymentCost := state.TokenCost

	initArgs := client.FtData{
		OwnerID:     state.StoreAccountID,
		TotalSupply: input.TotalSupply,
		Name:        input.Name,
		Symbol:      input.Symbol,
		Icon:        input.Icon,
	}

	chainRecord := &domain.CallChain{
		ID:              uc.newChainID(),
		Kind:            domain.ChainKindTokenDeploy,
		CallerID:        callerID,
		AttachedDeposit: input.AttachedDeposit,
		Receiver:        tokenAccount,
	}

	steps := []chain.Step{
		{Name: "create_subaccount", Run: func(ctx context.Context) error {
			return uc.Platform.CreateSubaccount(ctx, tokenAccount)
		}},
		{Name: "add_full_access_key", Run: func(ctx context.Context) error {
			return uc.Platform.AddFullAccessKey(ctx, tokenAccount, input.PublicKey)
		}},
		{Name: "transfer_deployment_cost", Run: func(ctx context.Context) error {
			return uc.Platform.Transfer(ctx, tokenAccount, deploymentCost)
		}},
		{Name: "deploy_code", Run: func(ctx context.Context) error {
			return uc.Platform.DeployCode(ctx, tokenAccount, uc.TokenCodeRef)
		}},
		{Name: "init_token", Run: func(ctx context.Context) error {
			return uc.Platform.Call(ctx, tokenAccount, tokenInitMethod, initArgs, 0)
		}},
	}

	if err := uc.Runner.Schedule(chainRecord, steps); err != nil {
		return "", err
	}

	return chainRecord.ID, nil
}

// onDeployComplete is the privileged completion of the deployment chain,
// dispatched only by the chain runner. On success it re-validates that the
// one-shot flag is still false before flipping it; on failure it refunds
// the entire originally attached deposit so the owner can retry.
func (uc *DefaultFactoryUsecase) onDeployComplete(ctx context.Context, chainRecord *domain.CallChain, chainErr error) string {
	if chainErr == nil {
		flipped, err := uc.StateRepo.SetTokenDeployedIfFalse()
		if err != nil {
			slog.Error("failed to set deployment flag", "chain_id", chainRecord.ID, "error", err.Error())
		} else if !flipped {
			slog.Warn("deployment flag was already set", "chain_id", chainRecord.ID)
		}

		uc.publishDeployEvent(chainRecord, "SUCCEEDED", 0)
		slog.Info("successful token deployment", "chain_id", chainRecord.ID, "token_account", chainRecord.Receiver)
		return "Successful token deployment"
	}

	if err := uc.Treasury.Refund(ctx, chainRecord.CallerID, chainRecord.AttachedDeposit, "token deployment failed"); err != nil {
		slog.Error("failed to refund deployment deposit",
			"chain_id", chainRecord.ID, "caller", chainRecord.CallerID, "error", err.Error())
	} else {
		uc.Metrics.RecordRefund("deploy_failed", chainRecord.AttachedDeposit)
	}

	uc.publishDeployEvent(chainRecord, "FAILED", chainRecord.AttachedDeposit)
	slog.Error("failed token deployment", "chain_id", chainRecord.ID, "error", chainErr.Error())
	return "failed token deployment"
}

func (uc *DefaultFactoryUsecase) publishDeployEvent(chainRecord *domain.CallChain, status string, refund uint64) {
	go func(event publisher.TokenDeployEvent) {
		if err := publisher.PublishTokenDeployEvent(uc.Publisher, event); err != nil {
			slog.Error("failed to publish TokenDeployEvent", "error", err.Error())
		}
	}(publisher.TokenDeployEvent{
		ChainID:      chainRecord.ID,
		CallerID:     chainRecord.CallerID,
		TokenAccount: chainRecord.Receiver,
		Status:       status,
		RefundAmount: refund,
	})
}

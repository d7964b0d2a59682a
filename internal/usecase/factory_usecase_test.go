package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/piparlabs/store-token-service/internal/client"
	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/chain"
	factorydto "github.com/piparlabs/store-token-service/internal/usecase/dto/factory"
)

func deployInput() *factorydto.DeployTokenInput {
	return &factorydto.DeployTokenInput{
		TotalSupply:     1_000_000,
		Name:            "Corner Store Token",
		Symbol:          "CRNR",
		PublicKey:       "ed25519:stub",
		AttachedDeposit: 10,
	}
}

func startFactory(t *testing.T, env *testEnv, platform *stubPlatform, treasury *stubTreasury) *DefaultFactoryUsecase {
	t.Helper()
	runner := chain.NewRunner(env.chainRepo, testMetrics)
	uc := NewDefaultFactoryUsecase(
		env.stateRepo, env.guard, platform, treasury,
		runner, &stubPublisher{}, testMetrics, "ft-v1")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go runner.Run(ctx)
	return uc
}

func waitForChain(t *testing.T, env *testEnv, chainID string) *domain.CallChain {
	t.Helper()
	var resolved *domain.CallChain
	require.Eventually(t, func() bool {
		chainRecord, err := env.chainRepo.GetChainByID(chainID)
		if err != nil || chainRecord.CompletedAt == nil {
			return false
		}
		resolved = chainRecord
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return resolved
}

func TestDeployStoreToken(t *testing.T) {
	env := setupEnv(t)
	platform := &stubPlatform{}
	uc := startFactory(t, env, platform, &stubTreasury{})

	chainID, err := uc.DeployStoreToken(context.Background(), testOwnerAccount, deployInput())
	require.NoError(t, err)

	chainRecord := waitForChain(t, env, chainID)
	require.Equal(t, domain.ChainStatusSucceeded, chainRecord.Status)
	require.Equal(t, "Successful token deployment", chainRecord.Result)

	state, err := env.stateRepo.GetState()
	require.NoError(t, err)
	require.True(t, state.TokenDeployed)

	calls := platform.calls()
	require.Len(t, calls, 5)
	require.Equal(t, "create_subaccount", calls[0].Op)
	require.Equal(t, "ft."+testStoreAccount, calls[0].AccountID)
	require.Equal(t, "add_full_access_key", calls[1].Op)
	require.Equal(t, "transfer", calls[2].Op)
	require.Equal(t, uint64(4), calls[2].Deposit)
	require.Equal(t, "deploy_code", calls[3].Op)
	require.Equal(t, "call", calls[4].Op)
	require.Equal(t, "new_default_meta", calls[4].Method)

	initArgs, ok := calls[4].Args.(client.FtData)
	require.True(t, ok)
	require.Equal(t, testStoreAccount, initArgs.OwnerID)
	require.Equal(t, uint64(1_000_000), initArgs.TotalSupply)
}

func TestDeployStoreTokenFailureRefundsWholeDeposit(t *testing.T) {
	env := setupEnv(t)
	platform := &stubPlatform{failOn: map[string]error{"deploy_code": errors.New("code ref rejected")}}
	treasury := &stubTreasury{}
	uc := startFactory(t, env, platform, treasury)

	chainID, err := uc.DeployStoreToken(context.Background(), testOwnerAccount, deployInput())
	require.NoError(t, err)

	chainRecord := waitForChain(t, env, chainID)
	require.Equal(t, domain.ChainStatusFailed, chainRecord.Status)
	require.Equal(t, "failed token deployment", chainRecord.Result)

	require.Equal(t, domain.StepStatusSucceeded, chainRecord.Steps[0].Status)
	require.Equal(t, domain.StepStatusSucceeded, chainRecord.Steps[1].Status)
	require.Equal(t, domain.StepStatusSucceeded, chainRecord.Steps[2].Status)
	require.Equal(t, domain.StepStatusFailed, chainRecord.Steps[3].Status)
	require.Equal(t, domain.StepStatusSkipped, chainRecord.Steps[4].Status)

	// compensation returns the full attached deposit, not the remainder
	refunds := treasury.calls()
	require.Len(t, refunds, 1)
	require.Equal(t, testOwnerAccount, refunds[0].Receiver)
	require.Equal(t, uint64(10), refunds[0].Amount)

	state, err := env.stateRepo.GetState()
	require.NoError(t, err)
	require.False(t, state.TokenDeployed)
}

func TestDeployStoreTokenIsOneShot(t *testing.T) {
	env := setupEnv(t)
	uc := startFactory(t, env, &stubPlatform{}, &stubTreasury{})

	chainID, err := uc.DeployStoreToken(context.Background(), testOwnerAccount, deployInput())
	require.NoError(t, err)
	waitForChain(t, env, chainID)

	_, err = uc.DeployStoreToken(context.Background(), testOwnerAccount, deployInput())
	require.ErrorIs(t, err, domain.ErrTokenAlreadyDeployed)
}

func TestDeployStoreTokenOwnerOnly(t *testing.T) {
	env := setupEnv(t)
	uc := startFactory(t, env, &stubPlatform{}, &stubTreasury{})

	_, err := uc.DeployStoreToken(context.Background(), testMarketAccount, deployInput())
	require.ErrorIs(t, err, domain.ErrNotContractOwner)
}

func TestDeployStoreTokenRequiresDepositAboveCost(t *testing.T) {
	env := setupEnv(t)
	uc := startFactory(t, env, &stubPlatform{}, &stubTreasury{})

	input := deployInput()
	input.AttachedDeposit = 4 // equal to the token cost is not enough
	_, err := uc.DeployStoreToken(context.Background(), testOwnerAccount, input)
	require.ErrorIs(t, err, domain.ErrInsufficientDeposit)
}

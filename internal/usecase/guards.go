package usecase

import (
	"github.com/piparlabs/store-token-service/internal/domain"
)

// AccessGuard holds the cross-cutting caller checks. Caller identity is a
// capability check against the contract state, not an identity check on the
// end buyer.
type AccessGuard struct {
	StateRepo domain.ContractStateRepository
}

func NewAccessGuard(stateRepo domain.ContractStateRepository) *AccessGuard {
	return &AccessGuard{StateRepo: stateRepo}
}

func (g *AccessGuard) RequireOwner(callerID string) error {
	state, err := g.StateRepo.GetState()
	if err != nil {
		return err
	}
	if state.OwnerID != callerID {
		return domain.ErrNotContractOwner
	}
	return nil
}

func (g *AccessGuard) RequireMarketplace(callerID string) error {
	state, err := g.StateRepo.GetState()
	if err != nil {
		return err
	}
	if state.MarketplaceAccountID != callerID {
		return domain.ErrNotMarketplaceCaller
	}
	return nil
}

func (g *AccessGuard) RequireTokenNotDeployed() error {
	state, err := g.StateRepo.GetState()
	if err != nil {
		return err
	}
	if state.TokenDeployed {
		return domain.ErrTokenAlreadyDeployed
	}
	return nil
}

func (g *AccessGuard) RequireTokenDeployed() error {
	state, err := g.StateRepo.GetState()
	if err != nil {
		return err
	}
	if !state.TokenDeployed {
		return domain.ErrTokenNotDeployed
	}
	return nil
}

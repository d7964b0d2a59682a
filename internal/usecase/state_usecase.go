package usecase

import (
	"github.com/piparlabs/store-token-service/internal/domain"
)

// StateUsecase answers the read-only contract queries.
type StateUsecase interface {
	GetStoreOwner() (string, error)
	HasToken() (bool, error)
	GetTokenCost() (uint64, error)
	GetStoreMetadata() (*domain.StoreMetadata, error)
	GetChain(chainID string) (*domain.CallChain, error)
}

type DefaultStateUsecase struct {
	StateRepo domain.ContractStateRepository
	ChainRepo domain.CallChainRepository
}

func NewDefaultStateUsecase(
	stateRepo domain.ContractStateRepository,
	chainRepo domain.CallChainRepository) *DefaultStateUsecase {

	return &DefaultStateUsecase{
		StateRepo: stateRepo,
		ChainRepo: chainRepo,
	}
}

func (uc *DefaultStateUsecase) GetStoreOwner() (string, error) {
	state, err := uc.StateRepo.GetState()
	if err != nil {
		return "", err
	}
	return state.OwnerID, nil
}

func (uc *DefaultStateUsecase) HasToken() (bool, error) {
	state, err := uc.StateRepo.GetState()
	if err != nil {
		return false, err
	}
	return state.TokenDeployed, nil
}

func (uc *DefaultStateUsecase) GetTokenCost() (uint64, error) {
	state, err := uc.StateRepo.GetState()
	if err != nil {
		return 0, err
	}
	return state.TokenCost, nil
}

func (uc *DefaultStateUsecase) GetStoreMetadata() (*domain.StoreMetadata, error) {
	state, err := uc.StateRepo.GetState()
	if err != nil {
		return nil, err
	}
	return &state.Metadata, nil
}

func (uc *DefaultStateUsecase) GetChain(chainID string) (*domain.CallChain, error) {
	return uc.ChainRepo.GetChainByID(chainID)
}

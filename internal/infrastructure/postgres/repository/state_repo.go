package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

const stateRowID = 1

type ContractStateRepository struct {
	db *gorm.DB
}

func NewContractStateRepository(db *gorm.DB) *ContractStateRepository {
	return &ContractStateRepository{db: db}
}

func (r *ContractStateRepository) InitState(state *domain.ContractState) error {
	var count int64
	if err := r.db.Model(&models.ContractStateModel{}).Count(&count).Error; err != nil {
		return err
	}
	// already initialized; restarts must not reset the deployment flag
	if count > 0 {
		return nil
	}

	now := time.Now()
	return r.db.Create(&models.ContractStateModel{
		ID:                   stateRowID,
		StoreAccountID:       state.StoreAccountID,
		OwnerID:              state.OwnerID,
		MarketplaceAccountID: state.MarketplaceAccountID,
		TokenDeployed:        state.TokenDeployed,
		TokenCost:            state.TokenCost,
		StoreName:            state.Metadata.Name,
		StoreSymbol:          state.Metadata.Symbol,
		StoreIcon:            state.Metadata.Icon,
		StoreBgIcon:          state.Metadata.BgIcon,
		StoreDescription:     state.Metadata.Description,
		StoreCategory:        state.Metadata.Category,
		StoreCity:            state.Metadata.City,
		StoreCountry:         state.Metadata.Country,
		CreatedAt:            now,
		UpdatedAt:            now,
	}).Error
}

func (r *ContractStateRepository) GetState() (*domain.ContractState, error) {
	var model models.ContractStateModel
	if err := r.db.First(&model, "id = ?", stateRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStateNotInitialized
		}
		return nil, err
	}

	return &domain.ContractState{
		StoreAccountID:       model.StoreAccountID,
		OwnerID:              model.OwnerID,
		MarketplaceAccountID: model.MarketplaceAccountID,
		TokenDeployed:        model.TokenDeployed,
		TokenCost:            model.TokenCost,
		Metadata: domain.StoreMetadata{
			Name:        model.StoreName,
			Symbol:      model.StoreSymbol,
			Icon:        model.StoreIcon,
			BgIcon:      model.StoreBgIcon,
			Description: model.StoreDescription,
			Category:    model.StoreCategory,
			City:        model.StoreCity,
			Country:     model.StoreCountry,
		},
	}, nil
}

// SetTokenDeployedIfFalse performs the one-shot false -> true transition.
// The WHERE clause makes the flip conditional, so a callback racing a state
// change observed after its chain was issued cannot flip the flag twice.
func (r *ContractStateRepository) SetTokenDeployedIfFalse() (bool, error) {
	result := r.db.Model(&models.ContractStateModel{}).
		Where("id = ? AND token_deployed = ?", stateRowID, false).
		Update("token_deployed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

type CallChainRepository struct {
	db *gorm.DB
}

func NewCallChainRepository(db *gorm.DB) *CallChainRepository {
	return &CallChainRepository{db: db}
}

func (r *CallChainRepository) CreateChain(chain *domain.CallChain) error {
	model, err := r.toModel(chain)
	if err != nil {
		return err
	}
	return r.db.Create(model).Error
}

func (r *CallChainRepository) GetChainByID(chainID string) (*domain.CallChain, error) {
	var model models.CallChainModel
	if err := r.db.First(&model, "id = ?", chainID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChainNotFound
		}
		return nil, err
	}
	return r.toDomain(&model)
}

func (r *CallChainRepository) UpdateChain(chain *domain.CallChain) error {
	model, err := r.toModel(chain)
	if err != nil {
		return err
	}
	return r.db.Save(model).Error
}

func (r *CallChainRepository) ClaimCompletion(chainID string, status domain.ChainStatus) (bool, error) {
	result := r.db.Model(&models.CallChainModel{}).
		Where("id = ? AND status IN ?",
			chainID,
			[]string{string(domain.ChainStatusPending), string(domain.ChainStatusRunning)}).
		Update("status", string(status))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CallChainRepository) FindStuckChains(deadline time.Time) ([]*domain.CallChain, error) {
	var chainModels []*models.CallChainModel
	err := r.db.
		Where("status IN ? AND created_at < ?",
			[]string{string(domain.ChainStatusPending), string(domain.ChainStatusRunning)},
			deadline).
		Find(&chainModels).Error
	if err != nil {
		return nil, err
	}

	chains := make([]*domain.CallChain, 0, len(chainModels))
	for _, model := range chainModels {
		chain, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		chains = append(chains, chain)
	}
	return chains, nil
}

func (r *CallChainRepository) toModel(chain *domain.CallChain) (*models.CallChainModel, error) {
	steps, err := json.Marshal(chain.Steps)
	if err != nil {
		return nil, err
	}

	model := &models.CallChainModel{
		ID:              chain.ID,
		Kind:            string(chain.Kind),
		Status:          string(chain.Status),
		StepsJSON:       string(steps),
		CallerID:        chain.CallerID,
		AttachedDeposit: chain.AttachedDeposit,
		Receiver:        chain.Receiver,
		Amount:          chain.Amount,
		Result:          chain.Result,
		CreatedAt:       chain.CreatedAt,
		UpdatedAt:       chain.UpdatedAt,
		CompletedAt:     chain.CompletedAt,
	}
	if chain.SeriesID != nil {
		id := uint64(*chain.SeriesID)
		model.SeriesID = &id
	}
	return model, nil
}

func (r *CallChainRepository) toDomain(model *models.CallChainModel) (*domain.CallChain, error) {
	chain := &domain.CallChain{
		ID:              model.ID,
		Kind:            domain.ChainKind(model.Kind),
		Status:          domain.ChainStatus(model.Status),
		CallerID:        model.CallerID,
		AttachedDeposit: model.AttachedDeposit,
		Receiver:        model.Receiver,
		Amount:          model.Amount,
		Result:          model.Result,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		CompletedAt:     model.CompletedAt,
	}
	if model.SeriesID != nil {
		id := domain.SeriesID(*model.SeriesID)
		chain.SeriesID = &id
	}
	if model.StepsJSON != "" {
		if err := json.Unmarshal([]byte(model.StepsJSON), &chain.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode chain steps: %w", err)
		}
	}
	return chain, nil
}

package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetTokenByID(tokenID string) (*domain.TokenRecord, error) {
	var model models.TokenModel
	if err := r.db.First(&model, "token_id = ?", tokenID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.TokenRecord{
		TokenID:  model.TokenID,
		SeriesID: domain.SeriesID(model.SeriesID),
		OwnerID:  model.OwnerID,
	}, nil
}

func (r *TokenRepository) LockToken(tokenID string) error {
	return r.db.Create(&models.LockedTokenModel{
		TokenID:   tokenID,
		CreatedAt: time.Now(),
	}).Error
}

func (r *TokenRepository) UnlockToken(tokenID string) error {
	result := r.db.Delete(&models.LockedTokenModel{}, "token_id = ?", tokenID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTokenNotLocked
	}
	return nil
}

func (r *TokenRepository) IsTokenLocked(tokenID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.LockedTokenModel{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

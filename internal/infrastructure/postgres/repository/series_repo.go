package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

type SeriesRepository struct {
	db *gorm.DB
}

func NewSeriesRepository(db *gorm.DB) *SeriesRepository {
	return &SeriesRepository{db: db}
}

// CreateSeries inserts the series and measures the bytes the row consumed.
// The insert rolls back when the measured bytes exceed maxBytes, so an
// underfunded creation leaves no row behind.
func (r *SeriesRepository) CreateSeries(series *domain.Series, maxBytes int64) (int64, error) {
	model, err := r.toModel(series)
	if err != nil {
		return 0, err
	}

	var consumed int64
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		consumed = storageBytes(model)
		if consumed > maxBytes {
			return domain.ErrInsufficientDeposit
		}
		return nil
	})
	if err != nil {
		return consumed, err
	}

	return consumed, nil
}

func (r *SeriesRepository) GetSeriesByID(id domain.SeriesID) (*domain.Series, error) {
	var model models.SeriesModel
	if err := r.db.First(&model, "id = ?", uint64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSeriesNotFound
		}
		return nil, err
	}

	return r.toDomain(&model)
}

func (r *SeriesRepository) SetAffiliatePercent(id domain.SeriesID, accountID string, percent uint32) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var model models.SeriesModel
		if err := tx.First(&model, "id = ?", uint64(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSeriesNotFound
			}
			return err
		}

		if model.AffiliateJSON == nil {
			return domain.ErrAffiliateNotAccepted
		}

		affiliate := make(map[string]uint32)
		if err := json.Unmarshal([]byte(*model.AffiliateJSON), &affiliate); err != nil {
			return fmt.Errorf("failed to decode affiliate map: %w", err)
		}

		// approval overwrites an existing key, never inserts a new one
		if _, ok := affiliate[accountID]; !ok {
			return domain.ErrAffiliateNotEligible
		}
		affiliate[accountID] = percent

		raw, err := json.Marshal(affiliate)
		if err != nil {
			return err
		}
		encoded := string(raw)

		return tx.Model(&models.SeriesModel{}).
			Where("id = ?", uint64(id)).
			Update("affiliate", &encoded).Error
	})
}

func (r *SeriesRepository) GetSeries(page, limit int32) ([]*domain.Series, error) {
	var seriesModels []*models.SeriesModel

	offset := (page - 1) * limit
	if err := r.db.Order("id").Offset(int(offset)).Limit(int(limit)).Find(&seriesModels).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Series, 0, len(seriesModels))
	for _, model := range seriesModels {
		series, err := r.toDomain(model)
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	return result, nil
}

func (r *SeriesRepository) toModel(series *domain.Series) (*models.SeriesModel, error) {
	colors, err := json.Marshal(series.Colors)
	if err != nil {
		return nil, err
	}
	tokenIDs, err := json.Marshal(series.TokenIDs)
	if err != nil {
		return nil, err
	}

	model := &models.SeriesModel{
		ID:                  uint64(series.ID),
		Title:               series.Metadata.Title,
		Description:         series.Metadata.Description,
		Media:               series.Metadata.Media,
		Copies:              series.Metadata.Copies,
		BuyTimeout:          series.Metadata.BuyTimeout,
		IsDiscount:          series.Metadata.IsDiscount,
		DiscountPercent:     series.Metadata.DiscountPercent,
		TokenAmountPerUnit:  series.Metadata.TokenAmountPerUnit,
		IsReward:            series.Metadata.IsReward,
		RewardAmountPerUnit: series.Metadata.RewardAmountPerUnit,
		IsCustomUser:        series.Metadata.IsCustomUser,
		User:                series.Metadata.User,
		ColorsJSON:          string(colors),
		TokenIDsJSON:        string(tokenIDs),
		Price:               series.Price,
		OwnerID:             series.OwnerID,
		CreatedAt:           series.CreatedAt,
		UpdatedAt:           series.UpdatedAt,
	}

	if series.Royalty != nil {
		raw, err := json.Marshal(series.Royalty)
		if err != nil {
			return nil, err
		}
		encoded := string(raw)
		model.RoyaltyJSON = &encoded
	}
	if series.Affiliate != nil {
		raw, err := json.Marshal(series.Affiliate)
		if err != nil {
			return nil, err
		}
		encoded := string(raw)
		model.AffiliateJSON = &encoded
	}

	return model, nil
}

func (r *SeriesRepository) toDomain(model *models.SeriesModel) (*domain.Series, error) {
	series := &domain.Series{
		ID: domain.SeriesID(model.ID),
		Metadata: domain.SeriesMetadata{
			Title:               model.Title,
			Description:         model.Description,
			Media:               model.Media,
			Copies:              model.Copies,
			BuyTimeout:          model.BuyTimeout,
			IsDiscount:          model.IsDiscount,
			DiscountPercent:     model.DiscountPercent,
			TokenAmountPerUnit:  model.TokenAmountPerUnit,
			IsReward:            model.IsReward,
			RewardAmountPerUnit: model.RewardAmountPerUnit,
			IsCustomUser:        model.IsCustomUser,
			User:                model.User,
		},
		Price:     model.Price,
		OwnerID:   model.OwnerID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}

	if model.ColorsJSON != "" {
		if err := json.Unmarshal([]byte(model.ColorsJSON), &series.Colors); err != nil {
			return nil, fmt.Errorf("failed to decode colors: %w", err)
		}
	}
	if model.TokenIDsJSON != "" {
		if err := json.Unmarshal([]byte(model.TokenIDsJSON), &series.TokenIDs); err != nil {
			return nil, fmt.Errorf("failed to decode token ids: %w", err)
		}
	}
	if model.RoyaltyJSON != nil {
		if err := json.Unmarshal([]byte(*model.RoyaltyJSON), &series.Royalty); err != nil {
			return nil, fmt.Errorf("failed to decode royalty map: %w", err)
		}
	}
	if model.AffiliateJSON != nil {
		if err := json.Unmarshal([]byte(*model.AffiliateJSON), &series.Affiliate); err != nil {
			return nil, fmt.Errorf("failed to decode affiliate map: %w", err)
		}
	}

	return series, nil
}

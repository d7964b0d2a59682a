package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/infrastructure/postgres/models"
)

type AffiliateRequestRepository struct {
	db *gorm.DB
}

func NewAffiliateRequestRepository(db *gorm.DB) *AffiliateRequestRepository {
	return &AffiliateRequestRepository{db: db}
}

// AppendRequest inserts the request and measures the bytes it consumed.
// The insert rolls back when the measured bytes exceed maxBytes, so an
// underfunded submission leaves no record behind.
func (r *AffiliateRequestRepository) AppendRequest(request *domain.AffiliateRequest, maxBytes int64) (int64, error) {
	model := r.toModel(request)

	var consumed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxSeq uint64
		if err := tx.Model(&models.AffiliateRequestModel{}).
			Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		model.Seq = maxSeq + 1

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

func (r *AffiliateRequestRepository) FindByAccountAndSeries(accountID string, seriesID domain.SeriesID) (*domain.AffiliateRequest, error) {
	var model models.AffiliateRequestModel
	err := r.db.
		Where("account_id = ? AND series_id = ?", accountID, uint64(seriesID)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return r.toDomain(&model), nil
}

func (r *AffiliateRequestRepository) FindUnresolved(accountID string, seriesID domain.SeriesID) (*domain.AffiliateRequest, error) {
	var model models.AffiliateRequestModel
	err := r.db.
		Where("account_id = ? AND series_id = ? AND approved = ?", accountID, uint64(seriesID), false).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return r.toDomain(&model), nil
}

func (r *AffiliateRequestRepository) MarkApproved(requestID string) (*domain.AffiliateRequest, error) {
	err := r.db.Model(&models.AffiliateRequestModel{}).
		Where("id = ?", requestID).
		Update("approved", true).Error
	if err != nil {
		return nil, err
	}

	var model models.AffiliateRequestModel
	if err := r.db.First(&model, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return r.toDomain(&model), nil
}

func (r *AffiliateRequestRepository) ListRequests() ([]*domain.AffiliateRequest, error) {
	var requestModels []*models.AffiliateRequestModel
	if err := r.db.Order("seq").Find(&requestModels).Error; err != nil {
		return nil, err
	}

	requests := make([]*domain.AffiliateRequest, len(requestModels))
	for i, model := range requestModels {
		requests[i] = r.toDomain(model)
	}
	return requests, nil
}

func (r *AffiliateRequestRepository) toModel(request *domain.AffiliateRequest) *models.AffiliateRequestModel {
	return &models.AffiliateRequestModel{
		ID:        request.ID,
		AccountID: request.AccountID,
		SeriesID:  uint64(request.SeriesID),
		Approved:  request.Approved,
		CreatedAt: request.CreatedAt,
		UpdatedAt: request.UpdatedAt,
	}
}

func (r *AffiliateRequestRepository) toDomain(model *models.AffiliateRequestModel) *domain.AffiliateRequest {
	return &domain.AffiliateRequest{
		ID:        model.ID,
		AccountID: model.AccountID,
		SeriesID:  domain.SeriesID(model.SeriesID),
		Approved:  model.Approved,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

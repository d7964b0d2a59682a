package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/usecase"
	affiliatedto "github.com/piparlabs/store-token-service/internal/usecase/dto/affiliate"
)

type AffiliateHandler struct {
	uc usecase.AffiliateUsecase
}

func NewAffiliateHandler(uc usecase.AffiliateUsecase) *AffiliateHandler {
	return &AffiliateHandler{uc: uc}
}

type submitAffiliateRequest struct {
	SeriesID        uint64 `json:"series_id" binding:"required"`
	AttachedDeposit uint64 `json:"attached_deposit"`
}

type approveAffiliateRequest struct {
	SeriesID    uint64 `json:"series_id" binding:"required"`
	AffiliateID string `json:"affiliate_id" binding:"required"`
	Percent     uint32 `json:"percent" binding:"required"`
}

type affiliateRequestResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	SeriesID  uint64    `json:"series_id"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type submitAffiliateResponse struct {
	Request     affiliateRequestResponse `json:"request"`
	StorageCost uint64                   `json:"storage_cost"`
	Refunded    uint64                   `json:"refunded"`
}

func toAffiliateRequestResponse(request *domain.AffiliateRequest) affiliateRequestResponse {
	return affiliateRequestResponse{
		ID:        request.ID,
		AccountID: request.AccountID,
		SeriesID:  uint64(request.SeriesID),
		Approved:  request.Approved,
		CreatedAt: request.CreatedAt,
	}
}

func (h *AffiliateHandler) SubmitRequest(c *gin.Context) {
	var req submitAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	caller := c.GetHeader(callerHeader)
	if caller == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "missing caller account"})
		return
	}

	output, err := h.uc.SubmitRequest(c.Request.Context(), &affiliatedto.SubmitRequestInput{
		SeriesID:        req.SeriesID,
		AffiliateID:     caller,
		AttachedDeposit: req.AttachedDeposit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submitAffiliateResponse{
		Request:     toAffiliateRequestResponse(&output.Request),
		StorageCost: output.StorageCost,
		Refunded:    output.Refunded,
	})
}

func (h *AffiliateHandler) ApproveRequest(c *gin.Context) {
	var req approveAffiliateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	approved, err := h.uc.ApproveRequest(c.Request.Context(), c.GetHeader(callerHeader), &affiliatedto.ApproveRequestInput{
		SeriesID:    req.SeriesID,
		AffiliateID: req.AffiliateID,
		Percent:     req.Percent,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAffiliateRequestResponse(approved))
}

func (h *AffiliateHandler) ListRequests(c *gin.Context) {
	requests, err := h.uc.ListRequests()
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]affiliateRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toAffiliateRequestResponse(request))
	}

	c.JSON(http.StatusOK, gin.H{"requests": responses})
}

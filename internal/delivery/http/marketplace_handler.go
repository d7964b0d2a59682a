package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/usecase"
	settlementdto "github.com/piparlabs/store-token-service/internal/usecase/dto/settlement"
)

// MarketplaceHandler groups the endpoints only the marketplace collaborator
// calls: sale settlement, token unlock and buyer rewards.
type MarketplaceHandler struct {
	settlement usecase.SettlementUsecase
	reward     usecase.RewardUsecase
}

func NewMarketplaceHandler(settlement usecase.SettlementUsecase, reward usecase.RewardUsecase) *MarketplaceHandler {
	return &MarketplaceHandler{settlement: settlement, reward: reward}
}

type settleSaleRequest struct {
	SeriesID         uint64  `json:"series_id" binding:"required"`
	StorageBytesUsed uint64  `json:"storage_bytes_used"`
	UnitPrice        uint64  `json:"unit_price"`
	StoreOwner       string  `json:"store_owner" binding:"required"`
	TokenOwner       string  `json:"token_owner" binding:"required"`
	TokenID          string  `json:"token_id" binding:"required"`
	AttachedDeposit  uint64  `json:"attached_deposit"`
	Affiliate        *string `json:"affiliate"`
}

type settleSaleResponse struct {
	Price            uint64  `json:"price"`
	Affiliate        bool    `json:"affiliate"`
	AffiliateID      *string `json:"affiliate_id,omitempty"`
	AffiliatePercent *uint32 `json:"affiliate_percent,omitempty"`
	TokenID          string  `json:"token_id"`
	TokenOwner       string  `json:"token_owner"`
	StoreOwner       string  `json:"store_owner"`
}

type unlockTokenRequest struct {
	TokenID string `json:"token_id" binding:"required"`
}

type rewardBuyerRequest struct {
	SeriesID   uint64 `json:"series_id" binding:"required"`
	ReceiverID string `json:"receiver_id" binding:"required"`
}

func (h *MarketplaceHandler) SettleSale(c *gin.Context) {
	var req settleSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	data, err := h.settlement.SettleSale(c.GetHeader(callerHeader), &settlementdto.SettleSaleInput{
		SeriesID:         req.SeriesID,
		StorageBytesUsed: req.StorageBytesUsed,
		UnitPrice:        req.UnitPrice,
		StoreOwner:       req.StoreOwner,
		TokenOwner:       req.TokenOwner,
		TokenID:          req.TokenID,
		AttachedDeposit:  req.AttachedDeposit,
		Affiliate:        req.Affiliate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settleSaleResponse{
		Price:            data.Price,
		Affiliate:        data.Affiliate,
		AffiliateID:      data.AffiliateID,
		AffiliatePercent: data.AffiliatePercent,
		TokenID:          data.TokenID,
		TokenOwner:       data.TokenOwner,
		StoreOwner:       data.StoreOwner,
	})
}

func (h *MarketplaceHandler) UnlockToken(c *gin.Context) {
	var req unlockTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := h.settlement.UnlockToken(c.GetHeader(callerHeader), req.TokenID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token_id": req.TokenID, "locked": false})
}

func (h *MarketplaceHandler) RewardBuyer(c *gin.Context) {
	var req rewardBuyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	chainID, err := h.reward.RewardBuyer(c.Request.Context(), c.GetHeader(callerHeader), req.SeriesID, req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"chain_id": chainID})
}

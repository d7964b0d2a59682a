package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/usecase"
	factorydto "github.com/piparlabs/store-token-service/internal/usecase/dto/factory"
)

type FactoryHandler struct {
	uc usecase.FactoryUsecase
}

func NewFactoryHandler(uc usecase.FactoryUsecase) *FactoryHandler {
	return &FactoryHandler{uc: uc}
}

type deployTokenRequest struct {
	TotalSupply     uint64 `json:"total_supply" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Symbol          string `json:"symbol" binding:"required"`
	Icon            string `json:"icon"`
	PublicKey       string `json:"public_key" binding:"required"`
	AttachedDeposit uint64 `json:"attached_deposit"`
}

func (h *FactoryHandler) DeployToken(c *gin.Context) {
	var req deployTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	chainID, err := h.uc.DeployStoreToken(c.Request.Context(), c.GetHeader(callerHeader), &factorydto.DeployTokenInput{
		TotalSupply:     req.TotalSupply,
		Name:            req.Name,
		Symbol:          req.Symbol,
		Icon:            req.Icon,
		PublicKey:       req.PublicKey,
		AttachedDeposit: req.AttachedDeposit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"chain_id": chainID})
}

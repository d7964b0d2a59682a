package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/usecase"
)

type QueryHandler struct {
	uc usecase.StateUsecase
}

func NewQueryHandler(uc usecase.StateUsecase) *QueryHandler {
	return &QueryHandler{uc: uc}
}

func (h *QueryHandler) GetStoreOwner(c *gin.Context) {
	owner, err := h.uc.GetStoreOwner()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner_id": owner})
}

func (h *QueryHandler) HasToken(c *gin.Context) {
	deployed, err := h.uc.HasToken()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_deployed": deployed})
}

func (h *QueryHandler) GetTokenCost(c *gin.Context) {
	cost, err := h.uc.GetTokenCost()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token_cost": cost})
}

func (h *QueryHandler) GetStoreMetadata(c *gin.Context) {
	metadata, err := h.uc.GetStoreMetadata()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":        metadata.Name,
		"symbol":      metadata.Symbol,
		"icon":        metadata.Icon,
		"bg_icon":     metadata.BgIcon,
		"description": metadata.Description,
		"category":    metadata.Category,
		"city":        metadata.City,
		"country":     metadata.Country,
	})
}

type chainStepResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type chainResponse struct {
	ID          string              `json:"id"`
	Kind        string              `json:"kind"`
	Status      string              `json:"status"`
	Steps       []chainStepResponse `json:"steps"`
	Result      string              `json:"result,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

func (h *QueryHandler) GetChain(c *gin.Context) {
	chainRecord, err := h.uc.GetChain(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	steps := make([]chainStepResponse, 0, len(chainRecord.Steps))
	for _, step := range chainRecord.Steps {
		steps = append(steps, chainStepResponse{
			Name:   step.Name,
			Status: string(step.Status),
			Error:  step.Error,
		})
	}

	c.JSON(http.StatusOK, chainResponse{
		ID:          chainRecord.ID,
		Kind:        string(chainRecord.Kind),
		Status:      string(chainRecord.Status),
		Steps:       steps,
		Result:      chainRecord.Result,
		CreatedAt:   chainRecord.CreatedAt,
		CompletedAt: chainRecord.CompletedAt,
	})
}

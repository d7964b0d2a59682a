package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piparlabs/store-token-service/internal/domain"
	"github.com/piparlabs/store-token-service/internal/usecase"
	seriesdto "github.com/piparlabs/store-token-service/internal/usecase/dto/series"
)

type SeriesHandler struct {
	uc usecase.SeriesUsecase
}

func NewSeriesHandler(uc usecase.SeriesUsecase) *SeriesHandler {
	return &SeriesHandler{uc: uc}
}

type createSeriesRequest struct {
	SeriesID            uint64            `json:"series_id" binding:"required"`
	Title               string            `json:"title" binding:"required"`
	Description         string            `json:"description"`
	Media               string            `json:"media"`
	Copies              *uint64           `json:"copies"`
	BuyTimeout          uint64            `json:"buy_timeout"`
	IsDiscount          bool              `json:"is_discount"`
	DiscountPercent     uint64            `json:"discount_percent"`
	TokenAmountPerUnit  uint64            `json:"token_amount_per_unit"`
	IsReward            bool              `json:"is_reward"`
	RewardAmountPerUnit uint64            `json:"reward_amount_per_unit"`
	IsCustomUser        bool              `json:"is_custom_user"`
	User                string            `json:"user"`
	Colors              map[string]uint32 `json:"colors"`
	Royalty             map[string]uint32 `json:"royalty"`
	AcceptAffiliates    bool              `json:"accept_affiliates"`
	AffiliateAccounts   []string          `json:"affiliate_accounts"`
	Price               *uint64           `json:"price"`
	OwnerID             string            `json:"owner_id" binding:"required"`
	AttachedDeposit     uint64            `json:"attached_deposit"`
}

type seriesResponse struct {
	SeriesID            uint64            `json:"series_id"`
	Title               string            `json:"title"`
	Description         string            `json:"description"`
	Media               string            `json:"media"`
	Copies              *uint64           `json:"copies"`
	BuyTimeout          uint64            `json:"buy_timeout"`
	IsDiscount          bool              `json:"is_discount"`
	DiscountPercent     uint64            `json:"discount_percent"`
	TokenAmountPerUnit  uint64            `json:"token_amount_per_unit"`
	IsReward            bool              `json:"is_reward"`
	RewardAmountPerUnit uint64            `json:"reward_amount_per_unit"`
	Colors              map[string]uint32 `json:"colors"`
	Royalty             map[string]uint32 `json:"royalty,omitempty"`
	Affiliate           map[string]uint32 `json:"affiliate,omitempty"`
	Price               *uint64           `json:"price"`
	OwnerID             string            `json:"owner_id"`
}

func toSeriesResponse(series *domain.Series) seriesResponse {
	return seriesResponse{
		SeriesID:            uint64(series.ID),
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
		Colors:              series.Colors,
		Royalty:             series.Royalty,
		Affiliate:           series.Affiliate,
		Price:               series.Price,
		OwnerID:             series.OwnerID,
	}
}

func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	var req createSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	series, err := h.uc.CreateSeries(c.Request.Context(), c.GetHeader(callerHeader), &seriesdto.CreateSeriesInput{
		SeriesID:            req.SeriesID,
		Title:               req.Title,
		Description:         req.Description,
		Media:               req.Media,
		Copies:              req.Copies,
		BuyTimeout:          req.BuyTimeout,
		IsDiscount:          req.IsDiscount,
		DiscountPercent:     req.DiscountPercent,
		TokenAmountPerUnit:  req.TokenAmountPerUnit,
		IsReward:            req.IsReward,
		RewardAmountPerUnit: req.RewardAmountPerUnit,
		IsCustomUser:        req.IsCustomUser,
		User:                req.User,
		Colors:              req.Colors,
		Royalty:             req.Royalty,
		AcceptAffiliates:    req.AcceptAffiliates,
		AffiliateAccounts:   req.AffiliateAccounts,
		Price:               req.Price,
		OwnerID:             req.OwnerID,
		AttachedDeposit:     req.AttachedDeposit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toSeriesResponse(series))
}

func (h *SeriesHandler) GetSeriesByID(c *gin.Context) {
	seriesID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid series id"})
		return
	}

	series, err := h.uc.GetSeriesByID(seriesID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSeriesResponse(series))
}

func (h *SeriesHandler) GetSeries(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 32)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid page"})
		return
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 32)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid limit"})
		return
	}

	seriesList, err := h.uc.GetSeries(int32(page), int32(limit))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]seriesResponse, 0, len(seriesList))
	for _, series := range seriesList {
		responses = append(responses, toSeriesResponse(series))
	}

	c.JSON(http.StatusOK, gin.H{"series": responses})
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Series      *SeriesHandler
	Affiliate   *AffiliateHandler
	Marketplace *MarketplaceHandler
	Factory     *FactoryHandler
	Query       *QueryHandler
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.Default()

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/series", h.Series.CreateSeries)
		api.GET("/series", h.Series.GetSeries)
		api.GET("/series/:id", h.Series.GetSeriesByID)

		api.POST("/affiliate/requests", h.Affiliate.SubmitRequest)
		api.POST("/affiliate/approvals", h.Affiliate.ApproveRequest)
		api.GET("/affiliate/requests", h.Affiliate.ListRequests)

		api.POST("/marketplace/settlements", h.Marketplace.SettleSale)
		api.POST("/marketplace/unlocks", h.Marketplace.UnlockToken)
		api.POST("/marketplace/rewards", h.Marketplace.RewardBuyer)

		api.POST("/token/deployments", h.Factory.DeployToken)

		api.GET("/store/owner", h.Query.GetStoreOwner)
		api.GET("/store/token", h.Query.HasToken)
		api.GET("/store/token/cost", h.Query.GetTokenCost)
		api.GET("/store/metadata", h.Query.GetStoreMetadata)
		api.GET("/chains/:id", h.Query.GetChain)
	}

	return router
}

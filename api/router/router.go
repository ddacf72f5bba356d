package router

import (
	"github.com/gin-gonic/gin"

	"mandi-ai/api/handler"
)

func RegisterRoutes(r *gin.Engine, negotiationH *handler.NegotiationHandler) {
	api := r.Group("/api/v1")
	{
		price := api.Group("/price")
		{
			price.POST("/suggest", negotiationH.SuggestPrice)
		}
		negotiation := api.Group("/negotiation")
		{
			negotiation.POST("/offer/analyze", negotiationH.AnalyzeOffer)
			negotiation.POST("/respond", negotiationH.Respond)
			negotiation.POST("/step", negotiationH.RecordStep)
			negotiation.POST("/deal/evaluate", negotiationH.EvaluateDeal)
		}
		api.GET("/culture/:region", negotiationH.CulturalProfile)
		api.POST("/learning/feedback", negotiationH.Learn)
	}
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"mandi-ai/api/response"
	"mandi-ai/logic/patterns"
	"mandi-ai/service"
	"mandi-ai/types"
)

type NegotiationHandler struct {
	svc *service.NegotiationService
}

func NewNegotiationHandler(svc *service.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{svc: svc}
}

// SuggestPrice 开价建议接口
func (h *NegotiationHandler) SuggestPrice(c *gin.Context) {
	var req types.MarketContext
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: commodity 和 quantity 必填")
		return
	}

	suggestion, err := h.svc.SuggestOpeningPrice(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMarketDataUnavailable) {
			response.Fail(c, "当前无可用行情数据，无法给出开价建议")
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, suggestion)
}

// AnalyzeOffer 还价评估接口
func (h *NegotiationHandler) AnalyzeOffer(c *gin.Context) {
	var offer types.NegotiationOffer
	if err := c.ShouldBindJSON(&offer); err != nil {
		response.Fail(c, "参数错误: session_id / commodity / proposed_price 必填")
		return
	}

	analysis, err := h.svc.AnalyzeCounterOffer(c.Request.Context(), &offer)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, analysis)
}

// Respond 下一步建议接口
func (h *NegotiationHandler) Respond(c *gin.Context) {
	var req types.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: history 必填")
		return
	}

	rec, err := h.svc.RecommendResponse(c.Request.Context(), req.History)
	if err != nil {
		if errors.Is(err, patterns.ErrEmptyHistory) {
			response.Fail(c, "历史为空，无法推荐下一步动作")
			return
		}
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, rec)
}

// EvaluateDeal 成交复盘接口
func (h *NegotiationHandler) EvaluateDeal(c *gin.Context) {
	var req types.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "参数错误: final_price 和 market_price 必填")
		return
	}

	eval, err := h.svc.EvaluateDeal(c.Request.Context(), req.FinalPrice, req.MarketPrice)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, eval)
}

// CulturalProfile 地区文化画像接口
func (h *NegotiationHandler) CulturalProfile(c *gin.Context) {
	region := c.Param("region")
	if region == "" {
		response.Fail(c, "参数错误: region 必填")
		return
	}
	response.Success(c, h.svc.GetCulturalProfile(region))
}

// RecordStep 记录谈判事件接口
func (h *NegotiationHandler) RecordStep(c *gin.Context) {
	var step types.NegotiationStep
	if err := c.ShouldBindJSON(&step); err != nil {
		response.Fail(c, "参数错误: session_id 和 action 必填")
		return
	}

	if err := h.svc.RecordNegotiationStep(c.Request.Context(), &step); err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{"step_id": step.StepID})
}

// Learn 反馈谈判结果接口
func (h *NegotiationHandler) Learn(c *gin.Context) {
	var data types.LearningData
	if err := c.ShouldBindJSON(&data); err != nil {
		response.Fail(c, "参数错误: session_id / outcome / participant_feedback 必填")
		return
	}

	if err := h.svc.LearnFromNegotiation(c.Request.Context(), &data); err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, map[string]any{"status": "absorbed"})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mandi-ai/logic/culture"
	"mandi-ai/logic/deals"
	"mandi-ai/logic/learning"
	"mandi-ai/logic/offers"
	"mandi-ai/logic/patterns"
	"mandi-ai/logic/pricing"
	"mandi-ai/market"
	"mandi-ai/types"
	"mandi-ai/vars"
)

var (
	// ErrMarketDataUnavailable 行情源不可用，开价请求必须失败而不是编造价格
	ErrMarketDataUnavailable = errors.New("price suggestion unavailable: no market data")
	ErrInvalidRequest        = errors.New("invalid request")
)

// AuditLog 审计日志接口，全部尽力而为：失败打日志，不影响主流程
// 生产实现是 postgres.AuditRepo
type AuditLog interface {
	AppendStep(ctx context.Context, step *types.NegotiationStep) error
	AppendAnalysis(ctx context.Context, offer *types.NegotiationOffer, analysis *types.OfferAnalysis) error
	AppendRecommendation(ctx context.Context, sessionID string, rec *types.ResponseRecommendation) error
	AppendEvaluation(ctx context.Context, eval *types.DealEvaluation) error
}

// NegotiationService 议价推荐引擎的编排层
// 引擎本身是请求级无状态的，唯一的跨请求状态在 learning.Store 背后的 KV 里
type NegotiationService struct {
	provider market.Provider
	learning *learning.Store
	audit    AuditLog
}

func NewNegotiationService(provider market.Provider, store *learning.Store, audit AuditLog) *NegotiationService {
	return &NegotiationService{
		provider: provider,
		learning: store,
		audit:    audit,
	}
}

// SuggestOpeningPrice 开价建议
// 行情快照拿不到 -> ErrMarketDataUnavailable；趋势拿不到 -> 本地兜底，不失败
func (s *NegotiationService) SuggestOpeningPrice(ctx context.Context, mctx types.MarketContext) (*types.PriceSuggestion, error) {
	if mctx.Commodity == "" || mctx.Quantity <= 0 {
		return nil, fmt.Errorf("%w: commodity and positive quantity required", ErrInvalidRequest)
	}

	data, err := s.provider.GetCurrentPrice(ctx, mctx.Commodity, mctx.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketDataUnavailable, err)
	}

	trend, err := s.provider.GetTrend(ctx, mctx.Commodity)
	if err != nil {
		// 趋势失败就地恢复，换成固定兜底值
		fb := pricing.FallbackTrend()
		trend = &fb
	}

	region := mctx.Location
	if region == "" {
		region = vars.DefaultRegion
	}
	profile := culture.Get(region)

	historical, absorbed := s.learning.HistoricalFactor(ctx, mctx.Commodity, mctx)
	immediate := s.learning.ImmediateFactor(ctx)

	suggestion := pricing.Suggest(data, *trend, profile, mctx,
		historical, immediate, absorbed, culture.Known(mctx.Location), time.Now())

	fmt.Printf(">>> [Suggest] %s x%d: market %.2f -> suggested %.2f (conf %.2f)\n",
		mctx.Commodity, mctx.Quantity, data.CurrentPrice, suggestion.SuggestedPrice, suggestion.ConfidenceLevel)
	return suggestion, nil
}

// AnalyzeCounterOffer 评估一次还价
// 行情源挂了就退回用 offer 自带的市场价拼一个保守快照，这个操作不要求失败
func (s *NegotiationService) AnalyzeCounterOffer(ctx context.Context, offer *types.NegotiationOffer) (*types.OfferAnalysis, error) {
	if offer == nil || offer.ProposedPrice <= 0 {
		return nil, fmt.Errorf("%w: proposed price must be positive", ErrInvalidRequest)
	}

	data, err := s.provider.GetCurrentPrice(ctx, offer.Commodity, "")
	if err != nil {
		if offer.CurrentMarketPrice <= 0 {
			return nil, fmt.Errorf("%w: %v", ErrMarketDataUnavailable, err)
		}
		// offer 里记录的市场价兜底，波动率取保守值
		data = &types.PriceData{
			Commodity:    offer.Commodity,
			CurrentPrice: offer.CurrentMarketPrice,
			PriceRange: types.PriceRange{
				Min:   offer.CurrentMarketPrice,
				Modal: offer.CurrentMarketPrice,
				Max:   offer.CurrentMarketPrice,
			},
			LastUpdated: time.Now(),
			Sources:     []string{"offer context"},
			Volatility:  0.1,
		}
	}

	profile := culture.Get(regionOfOffer(offer))
	analysis := offers.Analyze(offer, data, profile)

	if err := s.audit.AppendAnalysis(ctx, offer, analysis); err != nil {
		log.Printf("[audit] record analysis failed (ignored): %v", err)
	}
	return analysis, nil
}

// RecommendResponse 根据会话历史推荐下一步动作，空历史报错
func (s *NegotiationService) RecommendResponse(ctx context.Context, history []types.NegotiationStep) (*types.ResponseRecommendation, error) {
	region := patterns.RegionFromHistory(history)
	rec, err := patterns.Recommend(history, culture.Get(region))
	if err != nil {
		return nil, err
	}

	if err := s.audit.AppendRecommendation(ctx, history[0].SessionID, rec); err != nil {
		log.Printf("[audit] record recommendation failed (ignored): %v", err)
	}
	return rec, nil
}

// EvaluateDeal 成交复盘打分
func (s *NegotiationService) EvaluateDeal(ctx context.Context, finalPrice, marketPrice float64) (*types.DealEvaluation, error) {
	if finalPrice <= 0 || marketPrice <= 0 {
		return nil, fmt.Errorf("%w: prices must be positive", ErrInvalidRequest)
	}

	eval := deals.Evaluate(finalPrice, marketPrice)
	if err := s.audit.AppendEvaluation(ctx, eval); err != nil {
		log.Printf("[audit] record evaluation failed (ignored): %v", err)
	}
	return eval, nil
}

// GetCulturalProfile 地区文化画像，纯查询
func (s *NegotiationService) GetCulturalProfile(region string) types.CulturalProfile {
	return culture.Get(region)
}

// RecordNegotiationStep 记录一条谈判事件
// 写库失败只打日志：审计永远不能拖垮谈判本身
func (s *NegotiationService) RecordNegotiationStep(ctx context.Context, step *types.NegotiationStep) error {
	if step == nil || step.SessionID == "" || step.Action == "" {
		return fmt.Errorf("%w: session id and action required", ErrInvalidRequest)
	}
	if step.StepID == "" {
		step.StepID = uuid.NewString()
	}
	if step.Timestamp.IsZero() {
		step.Timestamp = time.Now()
	}

	if err := s.audit.AppendStep(ctx, step); err != nil {
		log.Printf("[audit] record step failed (ignored): %v", err)
	}
	return nil
}

// LearnFromNegotiation 吸收一次谈判结果
func (s *NegotiationService) LearnFromNegotiation(ctx context.Context, data *types.LearningData) error {
	return s.learning.Ingest(ctx, data)
}

// regionOfOffer 地区优先取交货地点，取不到用默认地区
func regionOfOffer(offer *types.NegotiationOffer) string {
	if offer.Terms != nil && offer.Terms.DeliveryLocation != "" {
		return offer.Terms.DeliveryLocation
	}
	return vars.DefaultRegion
}

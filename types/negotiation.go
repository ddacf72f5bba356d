package types

import "time"

type OfferType string

const (
	OfferInitial OfferType = "initial"
	OfferCounter OfferType = "counter"
	OfferFinal   OfferType = "final"
)

type StepAction string

const (
	ActionOffer   StepAction = "offer"
	ActionCounter StepAction = "counter"
	ActionAccept  StepAction = "accept"
	ActionReject  StepAction = "reject"
	ActionMessage StepAction = "message"
)

type Recommendation string

const (
	RecommendAccept  Recommendation = "accept"
	RecommendCounter Recommendation = "counter"
	RecommendReject  Recommendation = "reject"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type ResponseAction string

const (
	RespondAccept         ResponseAction = "accept"
	RespondCounter        ResponseAction = "counter"
	RespondReject         ResponseAction = "reject"
	RespondNegotiateTerms ResponseAction = "negotiate_terms"
)

type DealQuality string

const (
	DealExcellent DealQuality = "excellent"
	DealGood      DealQuality = "good"
	DealFair      DealQuality = "fair"
	DealPoor      DealQuality = "poor"
)

// OfferTerms 报价附带的交易条款（可选）
type OfferTerms struct {
	DeliveryLocation string `json:"delivery_location,omitempty"`
	DeliveryDate     string `json:"delivery_date,omitempty"`
	PaymentTerms     string `json:"payment_terms,omitempty"`
	QualitySpecs     string `json:"quality_specs,omitempty"`
}

// NegotiationOffer 会话内的一次报价，记录后不可变
type NegotiationOffer struct {
	OfferID            string      `json:"offer_id"`
	SessionID          string      `json:"session_id" binding:"required"`
	FromVendorID       string      `json:"from_vendor_id"`
	ToVendorID         string      `json:"to_vendor_id"`
	Commodity          string      `json:"commodity" binding:"required"`
	Quantity           int         `json:"quantity"`
	ProposedPrice      float64     `json:"proposed_price" binding:"required"` // > 0
	CurrentMarketPrice float64     `json:"current_market_price"`             // > 0
	OfferType          OfferType   `json:"offer_type"`
	Timestamp          time.Time   `json:"timestamp"`
	Terms              *OfferTerms `json:"terms,omitempty"`
}

// OfferAnalysis 还价评估结果
// 约束: SuggestedCounterPrice 若存在，偏离市场价不超过 ±8%
type OfferAnalysis struct {
	Recommendation         Recommendation `json:"recommendation"`
	MarketDeviation        float64        `json:"market_deviation"` // 百分比
	RiskLevel              RiskLevel      `json:"risk_level"`
	SuggestedCounterPrice  *float64       `json:"suggested_counter_price,omitempty"`
	NegotiationStrategy    string         `json:"negotiation_strategy"`
	CulturalConsiderations []string       `json:"cultural_considerations"`
}

// NegotiationStep 会话历史中的一个事件，按时间追加
type NegotiationStep struct {
	StepID           string            `json:"step_id"`
	SessionID        string            `json:"session_id" binding:"required"`
	VendorID         string            `json:"vendor_id"`
	Action           StepAction        `json:"action" binding:"required"`
	Offer            *NegotiationOffer `json:"offer,omitempty"`
	Message          string            `json:"message,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
	AIAssistanceUsed bool              `json:"ai_assistance_used"`
}

// RiskAssessment 下一步建议附带的风险说明
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
}

// ResponseRecommendation 根据历史推荐的下一步动作，纯函数输出
type ResponseRecommendation struct {
	RecommendedAction   ResponseAction `json:"recommended_action"`
	Reasoning           string         `json:"reasoning"`
	NegotiationTactics  []string       `json:"negotiation_tactics"`
	CulturalAdaptations []string       `json:"cultural_adaptations"`
	RiskAssessment      RiskAssessment `json:"risk_assessment"`
}

// DealEvaluation 成交后的复盘评分
type DealEvaluation struct {
	DealQuality      DealQuality `json:"deal_quality"`
	MarketComparison float64     `json:"market_comparison"` // 百分比
	ProfitMargin     float64     `json:"profit_margin"`
	RiskFactors      []string    `json:"risk_factors"`
	LearningPoints   []string    `json:"learning_points"`
	OverallScore     float64     `json:"overall_score"` // [0, 100]
}

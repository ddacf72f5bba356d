package types

// --- 常量定义 ---

type Outcome string

const (
	OutcomeSuccessful Outcome = "successful"
	OutcomeFailed     Outcome = "failed"
	OutcomePartial    Outcome = "partial"
)

// NegotiationMetrics 一次会话的过程指标
type NegotiationMetrics struct {
	Duration       int     `json:"duration"` // 秒
	NumberOfOffers int     `json:"number_of_offers"`
	PriceMovement  float64 `json:"price_movement"`
	AIAccuracy     float64 `json:"ai_accuracy"` // [0, 1]
}

// ParticipantFeedback 参与者打分，1~5 分
type ParticipantFeedback struct {
	SatisfactionScore float64 `json:"satisfaction_score"`
	AIHelpfulness     float64 `json:"ai_helpfulness"`
}

// LearningData 反馈给引擎的成交结果记录
// ParticipantFeedback 数组必须非空
type LearningData struct {
	SessionID           string                `json:"session_id" binding:"required"`
	Outcome             Outcome               `json:"outcome" binding:"required"`
	MarketConditions    MarketContext         `json:"market_conditions"`
	NegotiationMetrics  NegotiationMetrics    `json:"negotiation_metrics"`
	ParticipantFeedback []ParticipantFeedback `json:"participant_feedback" binding:"required"`
}

// LearningWeights 全局调整权重向量，存在 KV 里，带过期时间
// 并发写是 last-writer-wins，允许偶发丢失更新（已知限制）
type LearningWeights struct {
	RecentSuccess      float64 `json:"recent_success"`
	MarketAccuracy     float64 `json:"market_accuracy"`
	CulturalAdaptation float64 `json:"cultural_adaptation"`
	UserSatisfaction   float64 `json:"user_satisfaction"`
}

// SessionOutcome 滚动窗口里的单个会话摘要（最近 10 个）
type SessionOutcome struct {
	SessionID        string  `json:"session_id"`
	Outcome          Outcome `json:"outcome"`
	MeanSatisfaction float64 `json:"mean_satisfaction"`
	AIAccuracy       float64 `json:"ai_accuracy"`
	Factor           float64 `json:"factor"`
}

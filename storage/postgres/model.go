package postgres

import (
	"time"
)

// 审计表均为只追加：记录一旦写入就不再更新

// StepRecord 对应 negotiation_steps 表
type StepRecord struct {
	StepID    string    `gorm:"column:step_id;primaryKey;type:uuid"`
	SessionID string    `gorm:"column:session_id;type:varchar(64);index"`
	VendorID  string    `gorm:"column:vendor_id;type:varchar(64)"`
	Action    string    `gorm:"column:action;type:varchar(16);index"`
	Payload   string    `gorm:"column:payload;type:jsonb"` // 完整 step 的 JSON
	AIUsed    bool      `gorm:"column:ai_used"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (StepRecord) TableName() string { return "negotiation_steps" }

// AnalysisRecord 对应 offer_analyses 表
type AnalysisRecord struct {
	ID             string    `gorm:"column:id;primaryKey;type:uuid"`
	SessionID      string    `gorm:"column:session_id;type:varchar(64);index"`
	OfferID        string    `gorm:"column:offer_id;type:varchar(64)"`
	Recommendation string    `gorm:"column:recommendation;type:varchar(16)"`
	Deviation      float64   `gorm:"column:deviation;type:decimal(8,2)"`
	RiskLevel      string    `gorm:"column:risk_level;type:varchar(8)"`
	Payload        string    `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (AnalysisRecord) TableName() string { return "offer_analyses" }

// RecommendationRecord 对应 response_recommendations 表
type RecommendationRecord struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	SessionID string    `gorm:"column:session_id;type:varchar(64);index"`
	Action    string    `gorm:"column:action;type:varchar(24)"`
	Payload   string    `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (RecommendationRecord) TableName() string { return "response_recommendations" }

// EvaluationRecord 对应 deal_evaluations 表
type EvaluationRecord struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	DealQuality  string    `gorm:"column:deal_quality;type:varchar(12)"`
	OverallScore float64   `gorm:"column:overall_score;type:decimal(5,2)"`
	Payload      string    `gorm:"column:payload;type:jsonb"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (EvaluationRecord) TableName() string { return "deal_evaluations" }

// LearningRecord 对应 learning_records 表，历史因子按 created_at 回查 30 天
type LearningRecord struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	SessionID string    `gorm:"column:session_id;type:varchar(64);index"`
	Commodity string    `gorm:"column:commodity;type:varchar(64);index"`
	Outcome   string    `gorm:"column:outcome;type:varchar(16)"`
	Payload   string    `gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (LearningRecord) TableName() string { return "learning_records" }

package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mandi-ai/types"
)

// AuditRepo 封装所有审计表的写入和学习记录的回查
type AuditRepo struct {
	db *gorm.DB
}

// NewAuditRepo 构造函数
func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// AppendStep 追加一条谈判事件
func (r *AuditRepo) AppendStep(ctx context.Context, step *types.NegotiationStep) error {
	payload, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("marshal step: %w", err)
	}
	rec := &StepRecord{
		StepID:    step.StepID,
		SessionID: step.SessionID,
		VendorID:  step.VendorID,
		Action:    string(step.Action),
		Payload:   string(payload),
		AIUsed:    step.AIAssistanceUsed,
		CreatedAt: step.Timestamp,
	}
	// WithContext 允许超时的时候取消数据库操作
	return r.db.WithContext(ctx).Create(rec).Error
}

// AppendAnalysis 追加一条还价评估结果
func (r *AuditRepo) AppendAnalysis(ctx context.Context, offer *types.NegotiationOffer, analysis *types.OfferAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	rec := &AnalysisRecord{
		ID:             uuid.NewString(),
		SessionID:      offer.SessionID,
		OfferID:        offer.OfferID,
		Recommendation: string(analysis.Recommendation),
		Deviation:      analysis.MarketDeviation,
		RiskLevel:      string(analysis.RiskLevel),
		Payload:        string(payload),
		CreatedAt:      time.Now(),
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// AppendRecommendation 追加一条下一步建议
func (r *AuditRepo) AppendRecommendation(ctx context.Context, sessionID string, rec *types.ResponseRecommendation) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}
	row := &RecommendationRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Action:    string(rec.RecommendedAction),
		Payload:   string(payload),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// AppendEvaluation 追加一条成交复盘
func (r *AuditRepo) AppendEvaluation(ctx context.Context, eval *types.DealEvaluation) error {
	payload, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("marshal evaluation: %w", err)
	}
	rec := &EvaluationRecord{
		ID:           uuid.NewString(),
		DealQuality:  string(eval.DealQuality),
		OverallScore: eval.OverallScore,
		Payload:      string(payload),
		CreatedAt:    time.Now(),
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// AppendLearning 追加一条学习记录（learning.OutcomeLog 接口）
func (r *AuditRepo) AppendLearning(ctx context.Context, data *types.LearningData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal learning data: %w", err)
	}
	rec := &LearningRecord{
		ID:        uuid.NewString(),
		SessionID: data.SessionID,
		Commodity: data.MarketConditions.Commodity,
		Outcome:   string(data.Outcome),
		Payload:   string(payload),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// RecentLearning 回查 since 之后的学习记录（learning.OutcomeLog 接口）
func (r *AuditRepo) RecentLearning(ctx context.Context, since time.Time) ([]types.LearningData, error) {
	var rows []LearningRecord
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]types.LearningData, 0, len(rows))
	for _, row := range rows {
		var data types.LearningData
		if err := json.Unmarshal([]byte(row.Payload), &data); err != nil {
			// 坏记录跳过，不让一条脏数据拖垮整个查询
			continue
		}
		out = append(out, data)
	}
	return out, nil
}

// PruneLearning 定时任务批量清理过期学习记录
func (r *AuditRepo) PruneLearning(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&LearningRecord{})
	return result.RowsAffected, result.Error
}

// Migrate 建表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StepRecord{},
		&AnalysisRecord{},
		&RecommendationRecord{},
		&EvaluationRecord{},
		&LearningRecord{},
	)
}

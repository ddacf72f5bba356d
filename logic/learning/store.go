package learning

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"mandi-ai/types"
	"mandi-ai/vars"
)

// KeyValue 带 TTL 的 KV 存储（生产环境是 Redis，测试用内存假实现）
// Get 的第二个返回值表示键是否存在
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttlSeconds int) error
}

// OutcomeLog 只追加的结果日志（生产环境是 PG）
type OutcomeLog interface {
	AppendLearning(ctx context.Context, data *types.LearningData) error
	RecentLearning(ctx context.Context, since time.Time) ([]types.LearningData, error)
}

var ErrInvalidLearningData = errors.New("learning data missing session id or feedback")

// Store 学习机制：全局权重向量 + 最近会话滚动窗口 + 30 天历史因子
// 权重/窗口的读改写是 last-writer-wins，并发 ingest 偶发丢更新是已知限制，
// 不加锁——不能在跨网络调用期间持有进程内锁。
type Store struct {
	kv  KeyValue
	log OutcomeLog
}

func NewStore(kv KeyValue, outcomeLog OutcomeLog) *Store {
	return &Store{kv: kv, log: outcomeLog}
}

func defaultWeights() types.LearningWeights {
	return types.LearningWeights{
		RecentSuccess:      1.0,
		MarketAccuracy:     1.0,
		CulturalAdaptation: 1.0,
		UserSatisfaction:   1.0,
	}
}

// Ingest 吸收一次谈判结果
// 只有入参非法才返回错误；所有持久化失败都只打日志不向上抛（§持久化均为尽力而为）
func (s *Store) Ingest(ctx context.Context, data *types.LearningData) error {
	if data == nil || data.SessionID == "" || len(data.ParticipantFeedback) == 0 {
		return ErrInvalidLearningData
	}

	// 1. 追加到结果日志
	if err := s.log.AppendLearning(ctx, data); err != nil {
		log.Printf("[learning] append outcome failed (ignored): %v", err)
	}

	// 2. 更新全局权重向量
	s.updateWeights(ctx, data)

	// 3. 计算并缓存本会话的即时因子
	factor := sessionFactor(data)
	s.setJSON(ctx, vars.KeyImmediatePref+data.SessionID, factor, vars.TTLImmediate)

	// 4. 维护最近 10 个会话的滚动窗口
	s.pushWindow(ctx, data, factor)
	return nil
}

func (s *Store) updateWeights(ctx context.Context, data *types.LearningData) {
	w := defaultWeights()
	if raw, ok, err := s.kv.Get(ctx, vars.KeyWeights); err != nil {
		log.Printf("[learning] load weights failed (ignored): %v", err)
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			log.Printf("[learning] corrupt weights, resetting: %v", err)
			w = defaultWeights()
		}
	}

	switch data.Outcome {
	case types.OutcomeSuccessful:
		w.RecentSuccess *= 1.05
		w.CulturalAdaptation *= 1.02
	case types.OutcomeFailed:
		w.RecentSuccess *= 0.95
		w.CulturalAdaptation *= 0.98
	}

	acc := data.NegotiationMetrics.AIAccuracy
	if acc > 0.8 {
		w.MarketAccuracy *= 1.05
	} else if acc < 0.4 {
		w.MarketAccuracy *= 0.95
	}

	sat := meanSatisfaction(data)
	if sat > 4 {
		w.UserSatisfaction *= 1.05
	} else if sat < 3 {
		w.UserSatisfaction *= 0.95
	}

	// 每个字段都有界，防止长期漂移
	w.RecentSuccess = clamp(w.RecentSuccess, 0.5, 1.5)
	w.MarketAccuracy = clamp(w.MarketAccuracy, 0.5, 1.5)
	w.CulturalAdaptation = clamp(w.CulturalAdaptation, 0.5, 1.5)
	w.UserSatisfaction = clamp(w.UserSatisfaction, 0.5, 1.5)

	s.setJSON(ctx, vars.KeyWeights, w, vars.TTLWeights)
}

// sessionFactor 单会话即时因子，[-0.03, 0.03]
// AI 不准的负权重比 AI 准的正权重更重
func sessionFactor(data *types.LearningData) float64 {
	f := 0.0

	switch data.Outcome {
	case types.OutcomeSuccessful:
		f += 0.01
	case types.OutcomeFailed:
		f -= 0.015
	}

	sat := meanSatisfaction(data)
	if sat > 4 {
		f += 0.008
	} else if sat < 2.5 {
		f -= 0.01
	}

	acc := data.NegotiationMetrics.AIAccuracy
	if acc > 0.8 {
		f += 0.005
	} else if acc < 0.4 {
		f -= 0.015
	}

	return clamp(f, -0.03, 0.03)
}

func (s *Store) pushWindow(ctx context.Context, data *types.LearningData, factor float64) {
	var window []types.SessionOutcome
	if raw, ok, err := s.kv.Get(ctx, vars.KeyRecentWindow); err != nil {
		log.Printf("[learning] load window failed (ignored): %v", err)
	} else if ok {
		_ = json.Unmarshal([]byte(raw), &window)
	}

	window = append(window, types.SessionOutcome{
		SessionID:        data.SessionID,
		Outcome:          data.Outcome,
		MeanSatisfaction: meanSatisfaction(data),
		AIAccuracy:       data.NegotiationMetrics.AIAccuracy,
		Factor:           factor,
	})
	if len(window) > vars.RecentWindowSize {
		window = window[len(window)-vars.RecentWindowSize:]
	}

	s.setJSON(ctx, vars.KeyRecentWindow, window, vars.TTLWindow)
}

// HistoricalFactor 从最近 30 天的结果记录算历史因子，[-0.01, 0.01]
// 第二个返回值是吸收的记录数（解释文案用）。没有数据时只剩上下文微调。
func (s *Store) HistoricalFactor(ctx context.Context, commodity string, mctx types.MarketContext) (float64, int) {
	since := time.Now().AddDate(0, 0, -vars.HistoricalLookbackDays)
	records, err := s.log.RecentLearning(ctx, since)
	if err != nil {
		log.Printf("[learning] query outcomes failed (ignored): %v", err)
		records = nil
	}

	// 优先只看同品类的记录；一条都没有就退回全量
	if commodity != "" {
		var filtered []types.LearningData
		for _, r := range records {
			if r.MarketConditions.Commodity == commodity {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) > 0 {
			records = filtered
		}
	}

	f := contextNudge(mctx)
	if len(records) == 0 {
		return clamp(f, -0.01, 0.01), 0
	}

	var success, satSum, accSum float64
	for _, r := range records {
		if r.Outcome == types.OutcomeSuccessful {
			success++
		}
		satSum += meanSatisfaction(&r)
		accSum += r.NegotiationMetrics.AIAccuracy
	}
	n := float64(len(records))
	successRate := success / n
	sat := satSum / n
	acc := accSum / n

	if successRate > 0.7 {
		f += 0.005
	} else if successRate < 0.3 {
		f -= 0.005
	}
	if sat > 4 {
		f += 0.003
	} else if sat < 2.5 {
		f -= 0.003
	}
	if acc > 0.8 {
		f += 0.002
	} else if acc < 0.4 {
		f -= 0.004
	}

	return clamp(f, -0.01, 0.01), len(records)
}

// contextNudge 紧急程度/季节带来的固定微调
func contextNudge(mctx types.MarketContext) float64 {
	f := 0.0
	switch mctx.Urgency {
	case types.UrgencyHigh:
		f -= 0.003
	case types.UrgencyLow:
		f += 0.002
	}
	switch mctx.Seasonality {
	case types.SeasonPeak:
		f += 0.003
	case types.SeasonOffPeak:
		f -= 0.002
	}
	return f
}

// ImmediateFactor 滚动窗口的平均贡献，[-0.03, 0.03]
// 冷启动（没有窗口）时返回小的固定正基线，让反馈效果始终可观测
func (s *Store) ImmediateFactor(ctx context.Context) float64 {
	const coldBaseline = 0.005

	raw, ok, err := s.kv.Get(ctx, vars.KeyRecentWindow)
	if err != nil {
		log.Printf("[learning] load window failed (ignored): %v", err)
		return coldBaseline
	}
	if !ok {
		return coldBaseline
	}

	var window []types.SessionOutcome
	if err := json.Unmarshal([]byte(raw), &window); err != nil || len(window) == 0 {
		return coldBaseline
	}

	total := 0.0
	for _, sess := range window {
		c := 0.0
		if sess.Outcome == types.OutcomeSuccessful && sess.MeanSatisfaction >= 4 {
			c += 0.008
		}
		if sess.Outcome == types.OutcomeFailed || sess.MeanSatisfaction < 2.5 {
			c -= 0.012
		}
		switch {
		case sess.AIAccuracy > 0.8:
			c += 0.005
		case sess.AIAccuracy < 0.4:
			c -= 0.015
		case sess.AIAccuracy < 0.6:
			c -= 0.010
		}
		total += c
	}

	return clamp(total/float64(len(window)), -0.03, 0.03)
}

func (s *Store) setJSON(ctx context.Context, key string, v any, ttl int) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Printf("[learning] marshal %s failed (ignored): %v", key, err)
		return
	}
	if err := s.kv.SetWithTTL(ctx, key, string(raw), ttl); err != nil {
		log.Printf("[learning] persist %s failed (ignored): %v", key, err)
	}
}

func meanSatisfaction(data *types.LearningData) float64 {
	if len(data.ParticipantFeedback) == 0 {
		return 0
	}
	sum := 0.0
	for _, fb := range data.ParticipantFeedback {
		sum += fb.SatisfactionScore
	}
	return sum / float64(len(data.ParticipantFeedback))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

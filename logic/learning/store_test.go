package learning

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-ai/types"
	"mandi-ai/vars"
)

// --- 内存假实现 ---

type fakeKV struct {
	data map[string]string
	err  error
}

func newFakeKV() *fakeKV { return &fakeKV{data: map[string]string{}} }

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) SetWithTTL(_ context.Context, key, value string, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	return nil
}

type fakeLog struct {
	records []types.LearningData
	err     error
}

func (f *fakeLog) AppendLearning(_ context.Context, data *types.LearningData) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *data)
	return nil
}

func (f *fakeLog) RecentLearning(_ context.Context, _ time.Time) ([]types.LearningData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func sample(session string, outcome types.Outcome, satisfaction, accuracy float64) *types.LearningData {
	return &types.LearningData{
		SessionID: session,
		Outcome:   outcome,
		MarketConditions: types.MarketContext{
			Commodity:   "wheat",
			Quantity:    100,
			Urgency:     types.UrgencyMedium,
			Seasonality: types.SeasonNormal,
		},
		NegotiationMetrics: types.NegotiationMetrics{
			Duration:       600,
			NumberOfOffers: 4,
			AIAccuracy:     accuracy,
		},
		ParticipantFeedback: []types.ParticipantFeedback{
			{SatisfactionScore: satisfaction, AIHelpfulness: satisfaction},
		},
	}
}

func TestIngestRejectsInvalidData(t *testing.T) {
	s := NewStore(newFakeKV(), &fakeLog{})
	ctx := context.Background()

	assert.ErrorIs(t, s.Ingest(ctx, nil), ErrInvalidLearningData)
	assert.ErrorIs(t, s.Ingest(ctx, &types.LearningData{Outcome: types.OutcomeSuccessful}), ErrInvalidLearningData)

	noFeedback := sample("s1", types.OutcomeSuccessful, 5, 0.9)
	noFeedback.ParticipantFeedback = nil
	assert.ErrorIs(t, s.Ingest(ctx, noFeedback), ErrInvalidLearningData)
}

func TestIngestWritesAllState(t *testing.T) {
	kv := newFakeKV()
	outcomeLog := &fakeLog{}
	s := NewStore(kv, outcomeLog)
	ctx := context.Background()

	require.NoError(t, s.Ingest(ctx, sample("s1", types.OutcomeSuccessful, 4.5, 0.9)))

	// 结果日志追加了一条
	assert.Len(t, outcomeLog.records, 1)

	// 权重被更新且每个字段有界
	var w types.LearningWeights
	raw, ok := kv.data[vars.KeyWeights]
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	assert.Greater(t, w.RecentSuccess, 1.0)
	assert.Greater(t, w.UserSatisfaction, 1.0)
	for _, v := range []float64{w.RecentSuccess, w.MarketAccuracy, w.CulturalAdaptation, w.UserSatisfaction} {
		assert.GreaterOrEqual(t, v, 0.5)
		assert.LessOrEqual(t, v, 1.5)
	}

	// 即时因子被缓存且在界内
	var factor float64
	raw, ok = kv.data[vars.KeyImmediatePref+"s1"]
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &factor))
	assert.Greater(t, factor, 0.0)
	assert.LessOrEqual(t, factor, 0.03)

	// 滚动窗口追加了本会话
	var window []types.SessionOutcome
	raw, ok = kv.data[vars.KeyRecentWindow]
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(raw), &window))
	require.Len(t, window, 1)
	assert.Equal(t, "s1", window[0].SessionID)
}

func TestIngestSwallowsPersistenceFailures(t *testing.T) {
	// 日志和 KV 全挂也不能让 Ingest 失败
	s := NewStore(&fakeKV{err: errors.New("kv down")}, &fakeLog{err: errors.New("db down")})
	assert.NoError(t, s.Ingest(context.Background(), sample("s1", types.OutcomeSuccessful, 4, 0.8)))
}

func TestWindowTrimsToTen(t *testing.T) {
	kv := newFakeKV()
	s := NewStore(kv, &fakeLog{})
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeSuccessful, 4, 0.8)))
	}

	var window []types.SessionOutcome
	require.NoError(t, json.Unmarshal([]byte(kv.data[vars.KeyRecentWindow]), &window))
	assert.Len(t, window, vars.RecentWindowSize)
	// 留下的是最近的 10 个
	assert.Equal(t, string(rune('a'+14)), window[len(window)-1].SessionID)
}

func TestImmediateFactorColdBaseline(t *testing.T) {
	s := NewStore(newFakeKV(), &fakeLog{})
	assert.Equal(t, 0.005, s.ImmediateFactor(context.Background()))
}

func TestImmediateFactorReflectsOutcomes(t *testing.T) {
	ctx := context.Background()

	good := NewStore(newFakeKV(), &fakeLog{})
	for i := 0; i < 5; i++ {
		require.NoError(t, good.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeSuccessful, 4.8, 0.9)))
	}
	assert.Greater(t, good.ImmediateFactor(ctx), 0.0)

	bad := NewStore(newFakeKV(), &fakeLog{})
	for i := 0; i < 5; i++ {
		require.NoError(t, bad.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeFailed, 1.5, 0.2)))
	}
	assert.Less(t, bad.ImmediateFactor(ctx), 0.0)
}

func TestImmediateFactorBounded(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newFakeKV(), &fakeLog{})
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeFailed, 1, 0.1)))
	}
	f := s.ImmediateFactor(ctx)
	assert.GreaterOrEqual(t, f, -0.03)
	assert.LessOrEqual(t, f, 0.03)
}

func TestHistoricalFactorNoData(t *testing.T) {
	s := NewStore(newFakeKV(), &fakeLog{})
	mctx := types.MarketContext{Urgency: types.UrgencyLow, Seasonality: types.SeasonPeak}

	// 没有历史记录时只剩上下文微调：low +0.002, peak +0.003
	f, absorbed := s.HistoricalFactor(context.Background(), "wheat", mctx)
	assert.Equal(t, 0, absorbed)
	assert.InDelta(t, 0.005, f, 1e-9)
}

func TestHistoricalFactorWithOutcomes(t *testing.T) {
	outcomeLog := &fakeLog{}
	s := NewStore(newFakeKV(), outcomeLog)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, s.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeSuccessful, 4.5, 0.9)))
	}

	mctx := types.MarketContext{Urgency: types.UrgencyMedium, Seasonality: types.SeasonNormal}
	f, absorbed := s.HistoricalFactor(ctx, "wheat", mctx)

	assert.Equal(t, 4, absorbed)
	// 全部成功+高满意+高准确：0.005 + 0.003 + 0.002 = 0.01
	assert.InDelta(t, 0.01, f, 1e-9)
}

func TestHistoricalFactorAlwaysBounded(t *testing.T) {
	outcomeLog := &fakeLog{}
	s := NewStore(newFakeKV(), outcomeLog)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		require.NoError(t, s.Ingest(ctx, sample(string(rune('a'+i)), types.OutcomeFailed, 1.2, 0.1)))
	}

	contexts := []types.MarketContext{
		{Urgency: types.UrgencyHigh, Seasonality: types.SeasonOffPeak},
		{Urgency: types.UrgencyLow, Seasonality: types.SeasonPeak},
		{},
	}
	for _, mctx := range contexts {
		f, _ := s.HistoricalFactor(ctx, "wheat", mctx)
		assert.GreaterOrEqual(t, f, -0.01)
		assert.LessOrEqual(t, f, 0.01)
	}
}

func TestHistoricalFactorFiltersByCommodity(t *testing.T) {
	outcomeLog := &fakeLog{}
	s := NewStore(newFakeKV(), outcomeLog)
	ctx := context.Background()

	wheat := sample("s1", types.OutcomeSuccessful, 4.5, 0.9)
	require.NoError(t, s.Ingest(ctx, wheat))

	onion := sample("s2", types.OutcomeFailed, 1.5, 0.2)
	onion.MarketConditions.Commodity = "onion"
	require.NoError(t, s.Ingest(ctx, onion))

	_, absorbed := s.HistoricalFactor(ctx, "wheat", types.MarketContext{})
	assert.Equal(t, 1, absorbed)

	// 没有匹配品类时退回全量记录
	_, absorbed = s.HistoricalFactor(ctx, "tomato", types.MarketContext{})
	assert.Equal(t, 2, absorbed)
}

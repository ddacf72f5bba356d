package offers

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandi-ai/logic/culture"
	"mandi-ai/types"
)

func marketData(price, volatility float64) *types.PriceData {
	return &types.PriceData{
		Commodity:    "wheat",
		CurrentPrice: price,
		PriceRange:   types.PriceRange{Min: price * 0.9, Modal: price, Max: price * 1.1},
		LastUpdated:  time.Now(),
		Sources:      []string{"Khanna"},
		Volatility:   volatility,
	}
}

func offerAt(proposed, market float64) *types.NegotiationOffer {
	return &types.NegotiationOffer{
		OfferID:            "o1",
		SessionID:          "s1",
		Commodity:          "wheat",
		Quantity:           100,
		ProposedPrice:      proposed,
		CurrentMarketPrice: market,
		OfferType:          types.OfferCounter,
		Timestamp:          time.Now(),
	}
}

func TestAnalyzeCounterScenario(t *testing.T) {
	// 报价 2900 对市场价 2500，偏离 +16%
	got := Analyze(offerAt(2900, 2500), marketData(2500, 0.08), culture.Get("punjab"))

	assert.Equal(t, types.RecommendCounter, got.Recommendation)
	assert.InDelta(t, 16.0, got.MarketDeviation, 0.01)
	assert.Contains(t, []types.RiskLevel{types.RiskMedium, types.RiskHigh}, got.RiskLevel)

	require.NotNil(t, got.SuggestedCounterPrice)
	assert.GreaterOrEqual(t, *got.SuggestedCounterPrice, 2300.0)
	assert.LessOrEqual(t, *got.SuggestedCounterPrice, 2700.0)
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		proposed float64
		want     types.Recommendation
	}{
		{2500, types.RecommendAccept},  // 0%
		{2625, types.RecommendAccept},  // 恰好 +5%，闭区间
		{2375, types.RecommendAccept},  // 恰好 -5%
		{2650, types.RecommendCounter}, // +6%
		{3000, types.RecommendCounter}, // 恰好 +20%，闭区间
		{3100, types.RecommendReject},  // +24%
		{1900, types.RecommendReject},  // -24%
	}
	for _, c := range cases {
		got := Analyze(offerAt(c.proposed, 2500), marketData(2500, 0.05), culture.Get("punjab"))
		assert.Equal(t, c.want, got.Recommendation, fmt.Sprintf("proposed=%v", c.proposed))
		if c.want != types.RecommendCounter {
			assert.Nil(t, got.SuggestedCounterPrice)
		}
	}
}

func TestCounterPriceBound(t *testing.T) {
	// 只要给出还价建议，和市场价的偏离就不超过 ±8%
	for _, proposed := range []float64{2650, 2800, 2900, 2999, 2200, 2100, 2001} {
		got := Analyze(offerAt(proposed, 2500), marketData(2500, 0.05), culture.Get("punjab"))
		if got.SuggestedCounterPrice == nil {
			continue
		}
		dev := math.Abs(*got.SuggestedCounterPrice-2500) / 2500
		assert.LessOrEqual(t, dev, 0.08, fmt.Sprintf("proposed=%v counter=%v", proposed, *got.SuggestedCounterPrice))
	}
}

func TestCounterPriceMovesHalfwayToMarket(t *testing.T) {
	got := Analyze(offerAt(2650, 2500), marketData(2500, 0.05), culture.Get("punjab"))
	require.NotNil(t, got.SuggestedCounterPrice)
	// 2650 往 2500 走一半是 2575，在 ±8% 内不需要钳
	assert.Equal(t, 2575.0, *got.SuggestedCounterPrice)
}

func TestRiskLevels(t *testing.T) {
	cases := []struct {
		proposed   float64
		volatility float64
		want       types.RiskLevel
	}{
		{2550, 0.05, types.RiskLow},    // 2% 偏离，低波动
		{2550, 0.15, types.RiskMedium}, // 2% 偏离但波动不低
		{2800, 0.05, types.RiskMedium}, // 12% 偏离
		{2900, 0.05, types.RiskHigh},   // 16% 偏离
		{2550, 0.25, types.RiskHigh},   // 波动过高
	}
	for _, c := range cases {
		got := Analyze(offerAt(c.proposed, 2500), marketData(2500, c.volatility), culture.Get("punjab"))
		assert.Equal(t, c.want, got.RiskLevel, fmt.Sprintf("proposed=%v vol=%v", c.proposed, c.volatility))
	}
}

func TestStrategyAndConsiderationsNeverEmpty(t *testing.T) {
	for _, region := range []string{"punjab", "maharashtra", "tamil_nadu", "west_bengal", "gujarat", "nowhere"} {
		got := Analyze(offerAt(2600, 2500), marketData(2500, 0.05), culture.Get(region))
		assert.NotEmpty(t, got.NegotiationStrategy, region)
		assert.NotEmpty(t, got.CulturalConsiderations, region)
	}

	// 画像字段全空也要有兜底文案
	got := Analyze(offerAt(2600, 2500), marketData(2500, 0.05), types.CulturalProfile{})
	assert.NotEmpty(t, got.NegotiationStrategy)
	assert.NotEmpty(t, got.CulturalConsiderations)
}

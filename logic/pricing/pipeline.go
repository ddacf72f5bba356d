package pricing

import (
	"fmt"
	"math"
	"time"

	"mandi-ai/types"
)

// 兜底趋势：行情源算不出趋势时用它，不让请求失败
func FallbackTrend() types.TrendEstimate {
	return types.TrendEstimate{
		Trend:      types.TrendStable,
		Volatility: 0.02,
		Confidence: 0.5,
	}
}

// Round2 金额统一保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
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

// MarketBaseline 第一段：市场基线
// 各项小幅乘数独立叠加，合并后的乘数整体钳制在 [0.90, 1.10]
func MarketBaseline(data *types.PriceData, mctx types.MarketContext, trend types.TrendEstimate) float64 {
	m := 1.0

	// 1. 大单折扣
	if mctx.Quantity > 1000 {
		m *= 0.99
	} else if mctx.Quantity > 500 {
		m *= 0.995
	}

	// 2. 紧急程度
	switch mctx.Urgency {
	case types.UrgencyHigh:
		m *= 1.01
	case types.UrgencyLow:
		m *= 0.99
	}

	// 3. 季节
	switch mctx.Seasonality {
	case types.SeasonPeak:
		m *= 1.03
	case types.SeasonOffPeak:
		m *= 0.97
	}

	// 4. 趋势方向
	switch trend.Trend {
	case types.TrendRising:
		m *= 1.005
	case types.TrendFalling:
		m *= 0.995
	}

	m = clamp(m, 0.90, 1.10)
	return Round2(data.CurrentPrice * m)
}

// CulturalAdjust 第二段：文化调整，合并乘数钳制在 [0.98, 1.02]
func CulturalAdjust(price float64, profile types.CulturalProfile) float64 {
	m := 1.0

	switch profile.TradingCustoms.NegotiationStyle {
	case "indirect":
		m *= 1.01
	case "relationship-based":
		m *= 0.995
	}

	switch profile.TradingCustoms.PriceFlexibility {
	case "high":
		m *= 1.005
	case "low":
		m *= 0.9975
	}

	m = clamp(m, 0.98, 1.02)
	return Round2(price * m)
}

// ApplyLearning 第三段：学习调整
// 即时因子权重 1.5，合计钳制在 [-0.05, 0.05]
func ApplyLearning(price, historical, immediate float64) float64 {
	adj := clamp(historical+1.5*immediate, -0.05, 0.05)
	return Round2(price * (1 + adj))
}

// EnforceBound 硬性约束：建议价必须严格落在市场价 ±20% 以内
// 先钳到 [0.801, 1.199]，若浮点误差仍让偏差 >= 20% 则强制贴边
func EnforceBound(price, marketPrice float64) float64 {
	lo := marketPrice * 0.801
	hi := marketPrice * 1.199
	p := clamp(price, lo, hi)

	if dev := math.Abs(p-marketPrice) / marketPrice; dev >= 0.20 {
		if p > marketPrice {
			p = hi
		} else {
			p = lo
		}
	}
	return Round2(p)
}

// contextConfidence 上下文相关的置信度微调，整体钳制在 ±0.15
func contextConfidence(mctx types.MarketContext, knownLocation bool) float64 {
	adj := 0.0
	if mctx.Urgency == types.UrgencyHigh && mctx.Seasonality == types.SeasonPeak {
		adj -= 0.08
	}
	if mctx.Urgency == types.UrgencyLow && mctx.Seasonality == types.SeasonNormal {
		adj += 0.08
	}
	if mctx.Location != "" && knownLocation {
		adj += 0.05
	}
	return clamp(adj, -0.15, 0.15)
}

// Confidence 置信度打分，最终落在 [0.1, 1.0]
func Confidence(data *types.PriceData, mctx types.MarketContext, knownLocation bool, now time.Time) float64 {
	c := 0.8

	// 数据新鲜度
	age := now.Sub(data.LastUpdated)
	if age < time.Hour {
		c += 0.1
	} else if age > 4*time.Hour {
		c -= 0.2
	}

	// 波动率
	v := data.Volatility
	switch {
	case v < 0.05:
		c += 0.1
	case v > 0.15:
		c -= 0.3
	case v > 0.10:
		c -= 0.1
	}

	// 数据源数量
	if len(data.Sources) >= 3 {
		c += 0.1
	} else if len(data.Sources) == 1 {
		c -= 0.1
	}

	// 学习相关：上下文微调 + 固定的即时学习加成
	c += contextConfidence(mctx, knownLocation)
	c += 0.05

	return clamp(c, 0.1, 1.0)
}

// Reasoning 生成按序的人话解释
func Reasoning(data *types.PriceData, trend types.TrendEstimate, mctx types.MarketContext, profile types.CulturalProfile, absorbed int) []string {
	lines := []string{
		fmt.Sprintf("Current market price for %s is ₹%.2f (modal ₹%.2f, range ₹%.2f–₹%.2f).",
			data.Commodity, data.CurrentPrice, data.PriceRange.Modal, data.PriceRange.Min, data.PriceRange.Max),
		fmt.Sprintf("Market trend is %s with volatility %.1f%%.", trend.Trend, data.Volatility*100),
	}

	if mctx.Quantity > 1000 {
		lines = append(lines, fmt.Sprintf("Bulk quantity of %d units qualifies for a volume discount.", mctx.Quantity))
	} else if mctx.Quantity > 500 {
		lines = append(lines, fmt.Sprintf("Quantity of %d units qualifies for a small volume discount.", mctx.Quantity))
	} else {
		lines = append(lines, fmt.Sprintf("Quantity of %d units is priced at standard rates.", mctx.Quantity))
	}

	switch mctx.Urgency {
	case types.UrgencyHigh:
		lines = append(lines, "High urgency pushes the opening price slightly upward.")
	case types.UrgencyLow:
		lines = append(lines, "Low urgency leaves room to open slightly below market.")
	}

	if style := profile.TradingCustoms.NegotiationStyle; style != "" {
		lines = append(lines, fmt.Sprintf("Local negotiation style in %s is %s; the opening price accounts for it.",
			profile.Region, style))
	}

	if absorbed > 0 {
		lines = append(lines, fmt.Sprintf("Adjusted using feedback from %d recent negotiation outcomes.", absorbed))
	}
	return lines
}

// Justification 一句话的市场依据
func Justification(data *types.PriceData, trend types.TrendEstimate) string {
	return fmt.Sprintf("Based on %d reporting mandis as of %s, %s trend.",
		len(data.Sources), data.LastUpdated.Format("2006-01-02 15:04"), trend.Trend)
}

// Suggest 完整管线：基线 -> 文化 -> 学习 -> 硬边界 -> 置信度/区间/解释
// knownLocation: location 是否能在文化画像固定表里找到
func Suggest(data *types.PriceData, trend types.TrendEstimate, profile types.CulturalProfile,
	mctx types.MarketContext, historical, immediate float64, absorbed int,
	knownLocation bool, now time.Time) *types.PriceSuggestion {

	price := MarketBaseline(data, mctx, trend)
	price = CulturalAdjust(price, profile)
	price = ApplyLearning(price, historical, immediate)
	price = EnforceBound(price, data.CurrentPrice)

	return &types.PriceSuggestion{
		SuggestedPrice:      price,
		Reasoning:           Reasoning(data, trend, mctx, profile, absorbed),
		ConfidenceLevel:     Confidence(data, mctx, knownLocation, now),
		MarketJustification: Justification(data, trend),
		PriceRange: types.SuggestionRange{
			Minimum: Round2(price * 0.92),
			Optimal: price,
			Maximum: Round2(price * 1.08),
		},
	}
}

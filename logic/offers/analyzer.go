package offers

import (
	"fmt"
	"math"

	"mandi-ai/logic/pricing"
	"mandi-ai/types"
)

// Analyze 评估一次还价
// 注意阈值语义：这里用 <= 5 / <= 20 的闭区间，和开价管线的严格 <20% 不同，
// 两边的边界行为都是测试锁死的，不要统一。
func Analyze(offer *types.NegotiationOffer, data *types.PriceData, profile types.CulturalProfile) *types.OfferAnalysis {
	deviation := (offer.ProposedPrice - data.CurrentPrice) / data.CurrentPrice * 100
	absDev := math.Abs(deviation)

	analysis := &types.OfferAnalysis{
		MarketDeviation:        pricing.Round2(deviation),
		RiskLevel:              riskLevel(absDev, data.Volatility),
		NegotiationStrategy:    strategy(profile),
		CulturalConsiderations: considerations(profile),
	}

	switch {
	case absDev <= 5:
		analysis.Recommendation = types.RecommendAccept
	case absDev <= 20:
		analysis.Recommendation = types.RecommendCounter
		cp := counterPrice(offer.ProposedPrice, data.CurrentPrice)
		analysis.SuggestedCounterPrice = &cp
	default:
		analysis.Recommendation = types.RecommendReject
	}
	return analysis
}

func riskLevel(absDev, volatility float64) types.RiskLevel {
	switch {
	case absDev <= 5 && volatility < 0.1:
		return types.RiskLow
	case absDev <= 15 && volatility < 0.2:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

// counterPrice 往市场价方向走一半，再钳到市场价 ±8% 以内
func counterPrice(proposed, market float64) float64 {
	cp := proposed + (market-proposed)*0.5
	lo := market * 0.92
	hi := market * 1.08
	if cp < lo {
		cp = lo
	}
	if cp > hi {
		cp = hi
	}
	return pricing.Round2(cp)
}

// strategy 从文化画像生成议价策略，保证非空
func strategy(p types.CulturalProfile) string {
	switch p.TradingCustoms.DecisionMaking {
	case "quick":
		return fmt.Sprintf("Decisions in %s are made quickly; respond promptly and keep the counter close to your target.", regionName(p))
	case "consultative":
		return fmt.Sprintf("Traders in %s consult before deciding; allow time and avoid pressing for an immediate answer.", regionName(p))
	case "deliberate":
		return fmt.Sprintf("Traders in %s deliberate carefully; support your counter with market figures.", regionName(p))
	}
	// 兜底：至少给出正式程度相关的通用建议
	return fmt.Sprintf("Keep the tone %s and invest in the relationship before pushing on price.",
		p.CommunicationPatterns.FormalityLevel)
}

// considerations 文化注意事项，保证非空
func considerations(p types.CulturalProfile) []string {
	var out []string

	switch p.CommunicationPatterns.Directness {
	case "indirect":
		out = append(out, "Counter-offers are usually made indirectly here; soften the framing of your number.")
	case "direct":
		out = append(out, "Direct counters are expected here; state your price plainly.")
	}

	if p.TradingCustoms.RelationshipImportance == "high" {
		out = append(out, "Long-term relationships matter more than a single deal in this region.")
	}

	if p.CommunicationPatterns.TimeOrientation == "flexible" {
		out = append(out, "Negotiations may take longer than scheduled; do not read delay as rejection.")
	}

	if len(out) == 0 {
		out = append(out, fmt.Sprintf("Maintain a %s tone and give weight to the trading relationship.",
			p.CommunicationPatterns.FormalityLevel))
	}
	return out
}

func regionName(p types.CulturalProfile) string {
	if p.State != "" {
		return p.State
	}
	return p.Region
}

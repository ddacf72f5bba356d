package patterns

import (
	"errors"
	"fmt"

	"mandi-ai/logic/pricing"
	"mandi-ai/types"
	"mandi-ai/vars"
)

// ErrEmptyHistory 空历史无法推荐
var ErrEmptyHistory = errors.New("negotiation history is empty")

// Pattern 会话历史的模式摘要
type Pattern struct {
	TotalSteps    int       `json:"total_steps"`
	OfferCount    int       `json:"offer_count"`
	PriceMovement float64   `json:"price_movement"` // 首末报价的百分比变化，少于 2 次报价时为 0
	Intensity     Intensity `json:"intensity"`
}

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// Analyze 扫描历史，归纳报价次数、价格移动和强度
func Analyze(history []types.NegotiationStep) Pattern {
	p := Pattern{TotalSteps: len(history)}

	var prices []float64
	for _, step := range history {
		if step.Action == types.ActionOffer || step.Action == types.ActionCounter {
			p.OfferCount++
			if step.Offer != nil && step.Offer.ProposedPrice > 0 {
				prices = append(prices, step.Offer.ProposedPrice)
			}
		}
	}

	if len(prices) >= 2 {
		first := prices[0]
		last := prices[len(prices)-1]
		p.PriceMovement = pricing.Round2((last - first) / first * 100)
	}

	switch {
	case p.OfferCount > 5:
		p.Intensity = IntensityHigh
	case p.OfferCount > 2:
		p.Intensity = IntensityMedium
	default:
		p.Intensity = IntensityLow
	}
	return p
}

// Recommend 根据历史推荐下一步动作，输入为空时报 ErrEmptyHistory
// 地区取最近一次报价的 delivery location，取不到就用默认地区
func Recommend(history []types.NegotiationStep, profile types.CulturalProfile) (*types.ResponseRecommendation, error) {
	if len(history) == 0 {
		return nil, ErrEmptyHistory
	}

	p := Analyze(history)

	rec := &types.ResponseRecommendation{
		NegotiationTactics:  tactics(p),
		CulturalAdaptations: adaptations(profile),
		RiskAssessment:      assessRisk(p),
	}

	// 动作选择：高强度多轮 -> 转谈条款；价格已趋稳 -> 接受；否则继续还价
	switch {
	case p.Intensity == IntensityHigh && p.OfferCount > 5:
		rec.RecommendedAction = types.RespondNegotiateTerms
		rec.Reasoning = fmt.Sprintf("After %d offers the price has moved %.1f%%; shift the discussion to delivery and payment terms instead of trading more counters.",
			p.OfferCount, p.PriceMovement)
	case absFloat(p.PriceMovement) < 2:
		rec.RecommendedAction = types.RespondAccept
		rec.Reasoning = fmt.Sprintf("Price movement across %d steps is only %.1f%%; the positions have converged and accepting now preserves goodwill.",
			p.TotalSteps, p.PriceMovement)
	default:
		rec.RecommendedAction = types.RespondCounter
		rec.Reasoning = fmt.Sprintf("Price has moved %.1f%% over %d offers; there is still room for one more counter toward your target.",
			p.PriceMovement, p.OfferCount)
	}
	return rec, nil
}

// RegionFromHistory 从最近一次报价推断地区
func RegionFromHistory(history []types.NegotiationStep) string {
	for i := len(history) - 1; i >= 0; i-- {
		step := history[i]
		if step.Offer != nil && step.Offer.Terms != nil && step.Offer.Terms.DeliveryLocation != "" {
			return step.Offer.Terms.DeliveryLocation
		}
	}
	return vars.DefaultRegion
}

func tactics(p Pattern) []string {
	out := []string{"Anchor every counter with the latest mandi price."}
	if p.Intensity == IntensityHigh {
		out = append(out, "Slow the exchange down; rapid counters escalate rather than converge.")
	}
	if p.PriceMovement > 0 {
		out = append(out, "Prices in this session are drifting upward; lock terms before they drift further.")
	}
	return out
}

func adaptations(profile types.CulturalProfile) []string {
	out := []string{
		fmt.Sprintf("Match the %s communication style customary in %s.",
			profile.CommunicationPatterns.FormalityLevel, profile.Region),
	}
	if profile.TradingCustoms.RelationshipImportance == "high" {
		out = append(out, "Frame the next move as building a repeat-trade relationship.")
	}
	return out
}

func assessRisk(p Pattern) types.RiskAssessment {
	ra := types.RiskAssessment{Level: types.RiskLow}
	if p.Intensity == IntensityHigh {
		ra.Level = types.RiskHigh
		ra.Factors = append(ra.Factors, "high negotiation intensity")
	} else if p.Intensity == IntensityMedium {
		ra.Level = types.RiskMedium
	}
	if absFloat(p.PriceMovement) > 10 {
		ra.Factors = append(ra.Factors, fmt.Sprintf("price moved %.1f%% within one session", p.PriceMovement))
		if ra.Level == types.RiskLow {
			ra.Level = types.RiskMedium
		}
	}
	if len(ra.Factors) == 0 {
		ra.Factors = append(ra.Factors, "session within normal parameters")
	}
	return ra
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

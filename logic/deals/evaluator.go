package deals

import (
	"fmt"
	"math"

	"mandi-ai/logic/pricing"
	"mandi-ai/types"
)

// Evaluate 对已成交的谈判打分
// 分数 = 基础 50 + 质量加成 + 贴合度加成 - 5×风险项数，钳到 [0, 100]
func Evaluate(finalPrice, marketPrice float64) *types.DealEvaluation {
	comparison := (finalPrice - marketPrice) / marketPrice * 100
	absComp := math.Abs(comparison)

	quality := qualityBand(absComp)
	risks := riskFactors(finalPrice, marketPrice, absComp)

	score := 50.0
	switch quality {
	case types.DealExcellent:
		score += 40
	case types.DealGood:
		score += 25
	case types.DealFair:
		score += 10
	case types.DealPoor:
		score -= 10
	}

	switch {
	case absComp <= 2:
		score += 20
	case absComp <= 5:
		score += 10
	case absComp > 15:
		score -= 20
	}

	score -= 5 * float64(len(risks))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &types.DealEvaluation{
		DealQuality:      quality,
		MarketComparison: pricing.Round2(comparison),
		// 买方口径：低于市场价成交为正
		ProfitMargin:   pricing.Round2((marketPrice - finalPrice) / marketPrice * 100),
		RiskFactors:    risks,
		LearningPoints: learningPoints(quality, comparison),
		OverallScore:   score,
	}
}

func qualityBand(absComp float64) types.DealQuality {
	switch {
	case absComp <= 2:
		return types.DealExcellent
	case absComp <= 5:
		return types.DealGood
	case absComp <= 10:
		return types.DealFair
	default:
		return types.DealPoor
	}
}

func riskFactors(finalPrice, marketPrice, absComp float64) []string {
	var risks []string
	if absComp > 10 {
		risks = append(risks, fmt.Sprintf("final price deviates %.1f%% from market", absComp))
	}
	if finalPrice < marketPrice*0.8 {
		risks = append(risks, "final price more than 20% below market; verify quality and delivery commitments")
	}
	if finalPrice > marketPrice*1.2 {
		risks = append(risks, "final price more than 20% above market; overpayment risk")
	}
	return risks
}

func learningPoints(quality types.DealQuality, comparison float64) []string {
	points := []string{fmt.Sprintf("Deal closed %.1f%% relative to market.", comparison)}
	switch quality {
	case types.DealExcellent, types.DealGood:
		points = append(points, "Closing near the market price worked; reuse this opening strategy.")
	case types.DealFair:
		points = append(points, "Consider anchoring the opening price closer to the modal price next time.")
	case types.DealPoor:
		points = append(points, "Large gap from market; review the counter-offer thresholds used in this session.")
	}
	return points
}

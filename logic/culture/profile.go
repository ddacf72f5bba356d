package culture

import (
	"strings"

	"mandi-ai/types"
)

// Get 地区 -> 交易文化画像
// 纯函数：同一输入永远返回值相等的结果（测试依赖精确相等），
// 所以这里每次都重新构造，不做任何缓存。
func Get(region string) types.CulturalProfile {
	key := Normalize(region)
	if build, ok := registry[key]; ok {
		return build()
	}
	return defaultProfile(key)
}

// Normalize 小写 + 空白转下划线
func Normalize(region string) string {
	key := strings.ToLower(strings.TrimSpace(region))
	return strings.Join(strings.Fields(key), "_")
}

// Known 地区是否在固定表里（置信度计算会用到）
func Known(region string) bool {
	_, ok := registry[Normalize(region)]
	return ok
}

// registry 固定表。value 是构造函数而不是共享实例，保证调用方拿到的
// 画像之间没有切片别名。
var registry = map[string]func() types.CulturalProfile{
	"punjab": func() types.CulturalProfile {
		return types.CulturalProfile{
			Region: "punjab",
			State:  "Punjab",
			TradingCustoms: types.TradingCustoms{
				NegotiationStyle:       "direct",
				DecisionMaking:         "quick",
				PriceFlexibility:       "medium",
				RelationshipImportance: "high",
			},
			CommunicationPatterns: types.CommunicationPatterns{
				FormalityLevel:  "informal",
				Directness:      "direct",
				TimeOrientation: "punctual",
			},
			MarketPractices: types.MarketPractices{
				PaymentMethods:    []string{"cash", "UPI", "bank transfer"},
				DeliveryPractices: []string{"buyer pickup", "mandi gate delivery"},
				QualityStandards:  []string{"FAQ grade", "moisture content check"},
				DisputeResolution: []string{"mandi committee", "mutual settlement"},
			},
		}
	},
	"maharashtra": func() types.CulturalProfile {
		return types.CulturalProfile{
			Region: "maharashtra",
			State:  "Maharashtra",
			TradingCustoms: types.TradingCustoms{
				NegotiationStyle:       "indirect",
				DecisionMaking:         "deliberate",
				PriceFlexibility:       "high",
				RelationshipImportance: "medium",
			},
			CommunicationPatterns: types.CommunicationPatterns{
				FormalityLevel:  "semi-formal",
				Directness:      "moderate",
				TimeOrientation: "flexible",
			},
			MarketPractices: types.MarketPractices{
				PaymentMethods:    []string{"cash", "cheque", "UPI"},
				DeliveryPractices: []string{"commission agent delivery", "buyer pickup"},
				QualityStandards:  []string{"APMC grading", "sample-based sale"},
				DisputeResolution: []string{"APMC arbitration", "trade association"},
			},
		}
	},
	"tamil_nadu": func() types.CulturalProfile {
		return types.CulturalProfile{
			Region: "tamil_nadu",
			State:  "Tamil Nadu",
			TradingCustoms: types.TradingCustoms{
				NegotiationStyle:       "relationship-based",
				DecisionMaking:         "consultative",
				PriceFlexibility:       "medium",
				RelationshipImportance: "high",
			},
			CommunicationPatterns: types.CommunicationPatterns{
				FormalityLevel:  "formal",
				Directness:      "indirect",
				TimeOrientation: "flexible",
			},
			MarketPractices: types.MarketPractices{
				PaymentMethods:    []string{"cash", "bank transfer"},
				DeliveryPractices: []string{"regulated market delivery", "farm gate"},
				QualityStandards:  []string{"regulated market grading"},
				DisputeResolution: []string{"market committee", "village elder mediation"},
			},
		}
	},
	"west_bengal": func() types.CulturalProfile {
		return types.CulturalProfile{
			Region: "west_bengal",
			State:  "West Bengal",
			TradingCustoms: types.TradingCustoms{
				NegotiationStyle:       "indirect",
				DecisionMaking:         "deliberate",
				PriceFlexibility:       "high",
				RelationshipImportance: "high",
			},
			CommunicationPatterns: types.CommunicationPatterns{
				FormalityLevel:  "semi-formal",
				Directness:      "indirect",
				TimeOrientation: "flexible",
			},
			MarketPractices: types.MarketPractices{
				PaymentMethods:    []string{"cash", "credit period"},
				DeliveryPractices: []string{"aratdar delivery", "buyer pickup"},
				QualityStandards:  []string{"visual inspection", "lot-based sale"},
				DisputeResolution: []string{"aratdar mediation", "market committee"},
			},
		}
	},
	"gujarat": func() types.CulturalProfile {
		return types.CulturalProfile{
			Region: "gujarat",
			State:  "Gujarat",
			TradingCustoms: types.TradingCustoms{
				NegotiationStyle:       "direct",
				DecisionMaking:         "quick",
				PriceFlexibility:       "low",
				RelationshipImportance: "medium",
			},
			CommunicationPatterns: types.CommunicationPatterns{
				FormalityLevel:  "semi-formal",
				Directness:      "direct",
				TimeOrientation: "punctual",
			},
			MarketPractices: types.MarketPractices{
				PaymentMethods:    []string{"cash", "UPI", "bank transfer"},
				DeliveryPractices: []string{"buyer pickup", "transporter arranged"},
				QualityStandards:  []string{"APMC grading", "weighment slip"},
				DisputeResolution: []string{"APMC arbitration"},
			},
		}
	},
}

// defaultProfile 未知地区的兜底画像，取中性值
func defaultProfile(region string) types.CulturalProfile {
	return types.CulturalProfile{
		Region: region,
		State:  "",
		TradingCustoms: types.TradingCustoms{
			NegotiationStyle:       "direct",
			DecisionMaking:         "deliberate",
			PriceFlexibility:       "medium",
			RelationshipImportance: "medium",
		},
		CommunicationPatterns: types.CommunicationPatterns{
			FormalityLevel:  "semi-formal",
			Directness:      "direct",
			TimeOrientation: "punctual",
		},
		MarketPractices: types.MarketPractices{
			PaymentMethods:    []string{"cash", "UPI"},
			DeliveryPractices: []string{"buyer pickup"},
			QualityStandards:  []string{"visual inspection"},
			DisputeResolution: []string{"mutual settlement"},
		},
	}
}

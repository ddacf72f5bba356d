package types

// TradingCustoms 地区议价习惯
type TradingCustoms struct {
	NegotiationStyle       string `json:"negotiation_style"` // direct / indirect / relationship-based
	DecisionMaking         string `json:"decision_making"`   // quick / deliberate / consultative
	PriceFlexibility       string `json:"price_flexibility"` // low / medium / high
	RelationshipImportance string `json:"relationship_importance"`
}

// CommunicationPatterns 地区沟通习惯
type CommunicationPatterns struct {
	FormalityLevel  string `json:"formality_level"` // formal / semi-formal / informal
	Directness      string `json:"directness"`
	TimeOrientation string `json:"time_orientation"` // punctual / flexible
}

// MarketPractices 当地市场惯例，列表均非空
type MarketPractices struct {
	PaymentMethods    []string `json:"payment_methods"`
	DeliveryPractices []string `json:"delivery_practices"`
	QualityStandards  []string `json:"quality_standards"`
	DisputeResolution []string `json:"dispute_resolution"`
}

// CulturalProfile 按地区键入的交易文化画像
// 查询必须是纯函数：同一地区任何时候返回值相等
type CulturalProfile struct {
	Region                string                `json:"region"`
	State                 string                `json:"state"`
	TradingCustoms        TradingCustoms        `json:"trading_customs"`
	CommunicationPatterns CommunicationPatterns `json:"communication_patterns"`
	MarketPractices       MarketPractices       `json:"market_practices"`
}

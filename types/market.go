package types

import "time"

// --- 枚举定义 ---
// 使用 string 常量而不是 iota，方便 JSON 序列化和前端直读

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Seasonality string

const (
	SeasonPeak    Seasonality = "peak"
	SeasonOffPeak Seasonality = "off-peak"
	SeasonNormal  Seasonality = "normal"
)

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// PriceRange 行情快照里的价格区间 (min <= modal <= max)
type PriceRange struct {
	Min   float64 `json:"min"`
	Modal float64 `json:"modal"` // 最频繁成交价
	Max   float64 `json:"max"`
}

// PriceData 一次市场行情快照，由外部行情源聚合得到
type PriceData struct {
	Commodity    string     `json:"commodity"`
	CurrentPrice float64    `json:"current_price"` // 必须 > 0
	PriceRange   PriceRange `json:"price_range"`
	LastUpdated  time.Time  `json:"last_updated"`
	Sources      []string   `json:"sources"`    // 上报的 mandi 列表，至少 1 个
	Volatility   float64    `json:"volatility"` // >= 0
}

// TrendEstimate 趋势估计，行情源不可用时引擎会用固定兜底值
type TrendEstimate struct {
	Trend      Trend   `json:"trend"`
	Volatility float64 `json:"volatility"`
	Confidence float64 `json:"confidence"`
}

// MarketContext 一次议价请求的上下文参数
type MarketContext struct {
	Commodity   string      `json:"commodity" binding:"required"`
	Quantity    int         `json:"quantity" binding:"required"` // 必须为正整数
	Location    string      `json:"location,omitempty"`
	Urgency     Urgency     `json:"urgency"`
	Seasonality Seasonality `json:"seasonality"`
}

// SuggestionRange 开价建议附带的可接受区间
type SuggestionRange struct {
	Minimum float64 `json:"minimum"`
	Optimal float64 `json:"optimal"`
	Maximum float64 `json:"maximum"`
}

// PriceSuggestion 开价管线的输出
// 硬性约束: |SuggestedPrice - 市场价| / 市场价 < 0.20
type PriceSuggestion struct {
	SuggestedPrice      float64         `json:"suggested_price"`
	Reasoning           []string        `json:"reasoning"`
	ConfidenceLevel     float64         `json:"confidence_level"` // [0.1, 1.0]
	MarketJustification string          `json:"market_justification"`
	PriceRange          SuggestionRange `json:"price_range"`
}

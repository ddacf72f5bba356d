package types

// --- API 请求结构体 ---

// RespondRequest 下一步建议接口的入参
type RespondRequest struct {
	History []NegotiationStep `json:"history" binding:"required"`
}

// EvaluateRequest 成交复盘接口的入参
type EvaluateRequest struct {
	FinalPrice  float64 `json:"final_price" binding:"required"`
	MarketPrice float64 `json:"market_price" binding:"required"`
}

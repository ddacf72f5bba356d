package market

import (
	"context"
	"errors"

	"mandi-ai/types"
)

// Provider 行情源接口
// 用接口是为了能把 data.gov.in 换成别的源、或在测试里换成假实现，
// 而不用改任何调用方代码。
type Provider interface {
	// GetCurrentPrice 拉取并聚合一个商品的行情快照，location 可为空
	GetCurrentPrice(ctx context.Context, commodity, location string) (*types.PriceData, error)
	// GetTrend 估计趋势；数据不足时返回 ErrNoTrendData，由调用方兜底
	GetTrend(ctx context.Context, commodity string) (*types.TrendEstimate, error)
}

var (
	// ErrNoData 行情源没有可用记录，开价请求必须失败而不是编造价格
	ErrNoData = errors.New("no market data available")
	// ErrNoTrendData 趋势估计需要至少两个不同的到货日期
	ErrNoTrendData = errors.New("not enough records to estimate trend")
)

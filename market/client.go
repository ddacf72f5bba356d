package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"mandi-ai/logic/pricing"
	"mandi-ai/types"
)

// DataGovClient data.gov.in mandi 日度价格接口的客户端
// 该接口按 (state, market, commodity) 返回每个 mandi 的 min/max/modal 价（卢比/公担）
type DataGovClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewDataGovClient(baseURL, apiKey string) *DataGovClient {
	return &DataGovClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// record 接口返回的单条记录，价格字段是字符串
type record struct {
	State       string `json:"state"`
	District    string `json:"district"`
	Market      string `json:"market"`
	Commodity   string `json:"commodity"`
	ArrivalDate string `json:"arrival_date"` // DD/MM/YYYY
	MinPrice    string `json:"min_price"`
	MaxPrice    string `json:"max_price"`
	ModalPrice  string `json:"modal_price"`
}

type apiResponse struct {
	Records []record `json:"records"`
}

func (c *DataGovClient) fetch(ctx context.Context, commodity, state string) ([]record, error) {
	q := url.Values{}
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", "100")
	q.Set("filters[commodity]", commodity)
	if state != "" {
		q.Set("filters[state]", state)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("market api status %d: %s", resp.StatusCode, string(body))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode market api response: %w", err)
	}
	return parsed.Records, nil
}

// GetCurrentPrice 把同一商品多个 mandi 的记录聚合成一个快照
func (c *DataGovClient) GetCurrentPrice(ctx context.Context, commodity, location string) (*types.PriceData, error) {
	records, err := c.fetch(ctx, commodity, location)
	if err != nil {
		return nil, err
	}

	var modals []float64
	minPrice := math.MaxFloat64
	maxPrice := 0.0
	var latest time.Time
	seen := map[string]bool{}
	var sources []string

	for _, r := range records {
		modal, err := strconv.ParseFloat(r.ModalPrice, 64)
		if err != nil || modal <= 0 {
			continue
		}
		modals = append(modals, modal)

		if lo, err := strconv.ParseFloat(r.MinPrice, 64); err == nil && lo > 0 && lo < minPrice {
			minPrice = lo
		}
		if hi, err := strconv.ParseFloat(r.MaxPrice, 64); err == nil && hi > maxPrice {
			maxPrice = hi
		}
		if t, err := time.Parse("02/01/2006", r.ArrivalDate); err == nil && t.After(latest) {
			latest = t
		}
		if r.Market != "" && !seen[r.Market] {
			seen[r.Market] = true
			sources = append(sources, r.Market)
		}
	}

	if len(modals) == 0 {
		return nil, ErrNoData
	}

	mean := meanOf(modals)
	// 区间必须满足 min <= modal <= max
	if minPrice == math.MaxFloat64 || minPrice > mean {
		minPrice = mean
	}
	if maxPrice < mean {
		maxPrice = mean
	}
	if latest.IsZero() {
		latest = time.Now()
	}
	if len(sources) == 0 {
		sources = []string{"unspecified mandi"}
	}

	return &types.PriceData{
		Commodity:    commodity,
		CurrentPrice: pricing.Round2(mean),
		PriceRange: types.PriceRange{
			Min:   pricing.Round2(minPrice),
			Modal: pricing.Round2(mean),
			Max:   pricing.Round2(maxPrice),
		},
		LastUpdated: latest,
		Sources:     sources,
		Volatility:  volatility(modals, mean),
	}, nil
}

// GetTrend 按到货日期分组比较均价，至少要两个不同日期
func (c *DataGovClient) GetTrend(ctx context.Context, commodity string) (*types.TrendEstimate, error) {
	records, err := c.fetch(ctx, commodity, "")
	if err != nil {
		return nil, err
	}

	byDate := map[string][]float64{}
	for _, r := range records {
		modal, err := strconv.ParseFloat(r.ModalPrice, 64)
		if err != nil || modal <= 0 {
			continue
		}
		if _, err := time.Parse("02/01/2006", r.ArrivalDate); err != nil {
			continue
		}
		byDate[r.ArrivalDate] = append(byDate[r.ArrivalDate], modal)
	}
	if len(byDate) < 2 {
		return nil, ErrNoTrendData
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		ti, _ := time.Parse("02/01/2006", dates[i])
		tj, _ := time.Parse("02/01/2006", dates[j])
		return ti.Before(tj)
	})

	first := meanOf(byDate[dates[0]])
	last := meanOf(byDate[dates[len(dates)-1]])
	change := (last - first) / first

	trend := types.TrendStable
	if change > 0.02 {
		trend = types.TrendRising
	} else if change < -0.02 {
		trend = types.TrendFalling
	}

	var all []float64
	for _, vs := range byDate {
		all = append(all, vs...)
	}
	mean := meanOf(all)

	// 日期越多估计越可信，封顶 0.9
	confidence := 0.4 + 0.1*float64(len(dates))
	if confidence > 0.9 {
		confidence = 0.9
	}

	return &types.TrendEstimate{
		Trend:      trend,
		Volatility: volatility(all, mean),
		Confidence: confidence,
	}, nil
}

func meanOf(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

// volatility 变异系数 (stddev / mean)
func volatility(vs []float64, mean float64) float64 {
	if len(vs) < 2 || mean == 0 {
		return 0
	}
	ss := 0.0
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(vs))) / mean
}

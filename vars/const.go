package vars

import (
	"os"
)

// GetEnv 获取环境变量，如果不存在则返回默认值
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

const (
	// 默认地区（请求未带 location 时使用）
	DefaultRegion = "punjab"

	// KV 键名
	KeyWeights       = "learning:weights"
	KeyRecentWindow  = "learning:recent_sessions"
	KeyImmediatePref = "learning:immediate:" // + sessionID

	// KV 过期时间（秒）
	TTLWeights   = 30 * 24 * 3600 // 权重向量 30 天
	TTLWindow    = 7 * 24 * 3600  // 滚动窗口 7 天
	TTLImmediate = 3600           // 单会话即时因子 1 小时

	// 滚动窗口容量：最近 10 个会话
	RecentWindowSize = 10

	// 历史因子回看 30 天；超过 90 天的记录由定时任务清理
	HistoricalLookbackDays = 30
	LearningRetentionDays  = 90
)

// 环境变量配置（支持 Docker 部署）
var (
	// HTTP
	PORT = GetEnv("PORT", "8081")

	// PG
	PGUSER = GetEnv("PGUSER", "root")
	PGPWD  = GetEnv("PGPWD", "root")
	PGDB   = GetEnv("PGDB", "mandiDB")
	PGHOST = GetEnv("PGHOST", "localhost")
	PGPORT = GetEnv("PGPORT", "5432")

	// Redis
	REDISADDR = GetEnv("REDISADDR", "localhost:6379")
	REDISPWD  = GetEnv("REDISPWD", "")

	// 行情源 (data.gov.in mandi 日度价格接口)
	MARKETAPIURL = GetEnv("MARKETAPIURL", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070")
	MARKETAPIKEY = GetEnv("MARKETAPIKEY", "")
)

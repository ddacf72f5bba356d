package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"mandi-ai/storage/postgres"
	"mandi-ai/vars"
)

// StartCronJob 启动学习记录的保留期清理任务
// 历史因子只回看 30 天，超过 90 天的记录纯占空间
func StartCronJob(auditRepo *postgres.AuditRepo) {
	c := cron.New()

	// 每天凌晨 2 点执行
	_, _ = c.AddFunc("0 2 * * *", func() {
		ctx := context.Background()
		before := time.Now().AddDate(0, 0, -vars.LearningRetentionDays)
		rows, err := auditRepo.PruneLearning(ctx, before)
		if err != nil {
			fmt.Println("[Cron] Error:", err)
		} else {
			fmt.Printf("[Cron] 清理了 %d 条过期学习记录\n", rows)
		}
	})

	c.Start()
}

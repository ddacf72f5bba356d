package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"mandi-ai/api/handler"
	"mandi-ai/api/router"
	"mandi-ai/job"
	"mandi-ai/logic/learning"
	"mandi-ai/market"
	"mandi-ai/service"
	"mandi-ai/storage/postgres"
	"mandi-ai/storage/redis"
	"mandi-ai/vars"
)

func main() {
	// 1. 初始化 DB
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		panic(err)
	}
	if err := postgres.Migrate(db); err != nil {
		panic(fmt.Sprintf("建表失败:%v", err))
	}

	// 2. 初始化审计仓库
	auditRepo := postgres.NewAuditRepo(db)

	// 启动定时清理任务
	job.StartCronJob(auditRepo)

	// 3. 初始化 Redis KV（学习权重 / 即时因子 / 滚动窗口）
	kv, err := redis.NewKV(vars.REDISADDR, vars.REDISPWD, 0)
	if err != nil {
		panic(fmt.Sprintf("Redis 连接失败:%v", err))
	}
	log.Println("✅ Redis 连接已创建")

	// 4. 初始化行情源客户端
	provider := market.NewDataGovClient(vars.MARKETAPIURL, vars.MARKETAPIKEY)

	// 5. 初始化 Service (业务层)
	learningStore := learning.NewStore(kv, auditRepo)
	negotiationSvc := service.NewNegotiationService(provider, learningStore, auditRepo)

	// 6. 初始化 Handler (API 层)
	negotiationHandler := handler.NewNegotiationHandler(negotiationSvc)

	// 7. 启动 Web Server
	r := gin.Default()
	router.RegisterRoutes(r, negotiationHandler)

	log.Println("Server running on :" + vars.PORT)
	r.Run(":" + vars.PORT)
}

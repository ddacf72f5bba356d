package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KV 封装 Redis，实现学习模块需要的带 TTL 的 KV 接口
type KV struct {
	client *redis.Client
}

// NewKV 初始化 Redis 客户端并做一次连通性检查
func NewKV(addr, password string, db int) (*KV, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}
	return &KV{client: rdb}, nil
}

// Get 第二个返回值表示键是否存在（redis.Nil 不算错误）
func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := k.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (k *KV) SetWithTTL(ctx context.Context, key, value string, ttlSeconds int) error {
	return k.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err()
}

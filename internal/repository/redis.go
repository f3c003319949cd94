package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient Redis 客户端包装
type RedisClient struct {
	*redis.Client
}

// NewRedisClient 创建 Redis 连接
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{client}, nil
}

// SetRefreshToken 存储刷新令牌
func (r *RedisClient) SetRefreshToken(userID int64, token string, ttl time.Duration) error {
	return r.Set(context.Background(), "refresh_token:"+token, userID, ttl).Err()
}

// GetUserIDByRefreshToken 根据刷新令牌查询用户 ID
func (r *RedisClient) GetUserIDByRefreshToken(token string) (int64, error) {
	val, err := r.Get(context.Background(), "refresh_token:"+token).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// DeleteRefreshToken 删除刷新令牌
func (r *RedisClient) DeleteRefreshToken(token string) error {
	return r.Del(context.Background(), "refresh_token:"+token).Err()
}

// SetShareAccessToken 存储 verify-password 签发的分享访问令牌
func (r *RedisClient) SetShareAccessToken(shareToken, accessToken string, ttl time.Duration) error {
	key := fmt.Sprintf("share_access:%s:%s", shareToken, accessToken)
	return r.Set(context.Background(), key, 1, ttl).Err()
}

// VerifyShareAccessToken 校验分享访问令牌是否有效
func (r *RedisClient) VerifyShareAccessToken(ctx context.Context, shareToken, accessToken string) (bool, error) {
	key := fmt.Sprintf("share_access:%s:%s", shareToken, accessToken)
	n, err := r.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrRateCounter 固定窗口限流计数，返回窗口内的累计次数
func (r *RedisClient) IncrRateCounter(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.TxPipeline()
	incr := pipe.Incr(ctx, "rate:"+key)
	pipe.Expire(ctx, "rate:"+key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

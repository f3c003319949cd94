package middleware

import (
	"net/http"
	"time"

	"github.com/vicrey1/Gallerypavilion-sub000/internal/repository"
	"github.com/vicrey1/Gallerypavilion-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit 公开接口的固定窗口限流（按客户端 IP）
// 限制邀请码和密码的在线猜测速度；Redis 故障时放行并记日志
func RateLimit(rdb *repository.RedisClient, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if perMinute <= 0 {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()
		count, err := rdb.IncrRateCounter(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.Warn("限流计数失败", zap.Error(err))
			c.Next()
			return
		}

		if count > int64(perMinute) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}

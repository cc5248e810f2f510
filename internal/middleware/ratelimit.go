package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/repository/redis"
)

// RateLimit 每个窗口内按用户或 IP 计数；redis 不可用时放行
func RateLimit(limiter *redis.LimiterRepository, resource string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		id := "ip:" + c.ClientIP()
		if sess := SessionFrom(c); sess != nil {
			id = fmt.Sprintf("user:%d", sess.UserID)
		}

		allowed, err := limiter.Allow(c.Request.Context(), resource, id, limit, window)
		if err != nil {
			log.Warn("rate limit unavailable", zap.String("resource", resource), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"msg": "Too many requests, please slow down."})
			return
		}
		c.Next()
	}
}

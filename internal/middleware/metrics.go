package middleware

import (
	"marketplace-backend/internal/metrics"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求数和耗时，path 使用路由模板避免标签爆炸
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminMiddleware 确保只有管理员可以访问某些路由，需放在 AuthMiddleware 之后
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if err := policy.RequireStaff(p); err != nil {
			util.Logger.Warn("非管理员访问",
				zap.String("path", c.Request.URL.Path),
				zap.Int("user_id", c.GetInt("user_id")))
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		util.Logger.Debug("管理员验证通过", zap.Int("user_id", p.UserID))
		c.Next()
	}
}

package middleware

import (
	"context"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/model"
	"marketplace-backend/internal/policy"
	"marketplace-backend/internal/util"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// UserLookup 认证中间件只需要按ID加载用户
type UserLookup interface {
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

// CurrentPrincipal 返回当前请求的调用者，匿名请求返回 nil
func CurrentPrincipal(c *gin.Context) *policy.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*policy.Principal); ok {
			return p
		}
	}
	return nil
}

// SetPrincipal 记录当前请求的调用者
func SetPrincipal(c *gin.Context, p *policy.Principal) {
	c.Set("user_id", p.UserID)
	c.Set(principalKey, p)
}

// AuthMiddleware 必须携带有效的 Bearer 令牌
func AuthMiddleware(users UserLookup) gin.HandlerFunc {
	return authenticate(users, true)
}

// OptionalAuth 没有 Authorization 头时按匿名处理；携带了无效令牌仍然返回 401
func OptionalAuth(users UserLookup) gin.HandlerFunc {
	return authenticate(users, false)
}

func authenticate(users UserLookup, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Authentication credentials were not provided."))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "Invalid authorization header"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(parts[1])
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "Given token not valid for any token type", err))
			c.Abort()
			return
		}

		user, err := users.GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, errors.ErrUserNotFound) {
				errors.HandleError(c, errors.New(errors.ErrInvalidToken, "User not found"))
			} else {
				errors.HandleError(c, err)
			}
			c.Abort()
			return
		}
		if !user.IsActive {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "User is inactive"))
			c.Abort()
			return
		}

		SetPrincipal(c, policy.FromUser(user))

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "请求超时"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

package user

import (
	"context"
	"marketplace-backend/internal/api"
	"marketplace-backend/internal/errors"
	"marketplace-backend/internal/service"
	"marketplace-backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenService 签发和刷新令牌
type TokenService interface {
	IssueTokens(ctx context.Context, username, password string) (*service.TokenPair, error)
	RefreshAccessToken(refresh string) (string, error)
}

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	tokenService TokenService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(tokenService TokenService) *AuthHandler {
	return &AuthHandler{tokenService}
}

// Token 用户名密码换取 access 和 refresh 令牌
func (h *AuthHandler) Token(c *gin.Context) {
	var loginData struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := api.BindJSON(c, &loginData); err != nil {
		errors.HandleError(c, err)
		return
	}

	pair, err := h.tokenService.IssueTokens(c.Request.Context(), loginData.Username, loginData.Password)
	if err != nil {
		util.Logger.Info("登录失败", zap.String("username", loginData.Username), zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// Refresh 处理令牌刷新
func (h *AuthHandler) Refresh(c *gin.Context) {
	var refreshData struct {
		Refresh string `json:"refresh"`
	}

	if err := api.BindJSON(c, &refreshData); err != nil {
		errors.HandleError(c, err)
		return
	}

	access, err := h.tokenService.RefreshAccessToken(refreshData.Refresh)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

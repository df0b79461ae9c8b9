// Package api 各接口包共用的请求解析函数
package api

import (
	"marketplace-backend/internal/errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParamID 解析路径中的整数ID，非法时返回校验错误
func ParamID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrValidation, "invalid "+name)
	}
	return id, nil
}

// BindJSON 绑定请求体，失败时包装成校验错误
func BindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return errors.Wrap(errors.ErrValidation, "Invalid request body", err)
	}
	return nil
}

// OK 修改类接口的统一返回
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tradelab/backend/internal/service"
	"tradelab/backend/pkg/response"
)

// MustGetAdminID 从 Gin 上下文中安全提取 admin_id。
// 如果 JWT 中间件未正确注入 admin_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetAdminID(c *gin.Context) (string, bool) {
	v, exists := c.Get("admin_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// writeValidationError 业务校验错误统一写为 422 字段错误表。
// 非校验错误时返回 false，由调用方继续分派
func writeValidationError(c *gin.Context, err error) bool {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		response.ValidationError(c, ve.Fields)
		return true
	}
	return false
}

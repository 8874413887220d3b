package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestIDMaxLen 限制外部传入的 Request-ID 长度，超长按缺失处理
const requestIDMaxLen = 64

// RequestID 请求追踪 ID 中间件
// 优先沿用调用方（前端管理台或网关）携带的 X-Request-ID，缺失时生成 UUID，
// 注入 gin.Context 供日志中间件串联同一次请求的所有日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

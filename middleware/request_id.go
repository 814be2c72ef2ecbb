/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-14
 * @Description: Request ID中间件 - 用于请求追踪
 */

package middleware

import (
	"context"

	"ccwhoseek/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 生成或传播请求ID，用于追踪一次查询经过的各层
// 优先使用客户端提供的X-Request-ID头，否则生成新UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		// gin context给中间件和handler用
		c.Set("request_id", requestID)

		// 标准context给service层用
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		// 响应头里带回request ID，方便客户端追踪
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

/*
 * @Author: AsisYu
 * @Date: 2025-07-14
 * @Description: 服务注入中间件
 */
package middleware

import (
	"ccwhoseek/services"

	"github.com/gin-gonic/gin"
)

// ServiceMiddleware Gin中间件，把服务容器里的组件注入请求上下文
func ServiceMiddleware(container *services.ServiceContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if container != nil {
			if container.WhoisManager != nil {
				c.Set("whoisManager", container.WhoisManager)
			}

			if container.RedisClient != nil {
				c.Set("redis", container.RedisClient)
			}

			if container.WorkerPool != nil {
				c.Set("workerPool", container.WorkerPool)
			}

			if container.Limiter != nil {
				c.Set("limiter", container.Limiter)
			}
		}

		c.Next()
	}
}

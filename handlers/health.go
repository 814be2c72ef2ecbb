/*
 * @Author: AsisYu
 * @Date: 2025-07-15
 * @Description: 健康检查处理程序
 */
package handlers

import (
	"context"
	"log"
	"os"
	"time"

	"ccwhoseek/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HealthCheckHandler 健康检查API处理程序
// detailed=true时主动探测各提供商，默认只回报当前状态
func HealthCheckHandler(container *services.ServiceContainer) gin.HandlerFunc {
	return func(c *gin.Context) {
		detailed := c.DefaultQuery("detailed", "false") == "true"

		log.Printf("健康检查API调用: detailed=%v, URI=%s", detailed, c.Request.RequestURI)

		response := gin.H{
			"status":  "up",
			"version": os.Getenv("APP_VERSION"),
			"time":    time.Now().UTC().Format(time.RFC3339),
		}

		serviceStatus := gin.H{}

		// Redis连通性
		serviceStatus["redis"] = checkRedis(container.RedisClient)

		// 提供商状态
		if container.WhoisManager != nil {
			whois := gin.H{
				"status":    container.WhoisManager.GetOverallStatus(),
				"providers": container.WhoisManager.GetProvidersStatus(),
			}
			if detailed {
				whois["probe"] = container.WhoisManager.TestProvidersHealth()
				whois["status"] = container.WhoisManager.GetOverallStatus()
			}
			serviceStatus["whois"] = whois
		}

		response["services"] = serviceStatus
		response["lastCheck"] = time.Now().Format(time.RFC3339)

		// 任一服务异常时整体降级
		overallStatus := "up"
		for _, serviceInfo := range serviceStatus {
			if serviceMap, ok := serviceInfo.(gin.H); ok {
				if status, exists := serviceMap["status"]; exists && status != "up" {
					overallStatus = "degraded"
					break
				}
			}
		}
		response["status"] = overallStatus

		c.JSON(200, response)
	}
}

func checkRedis(rdb *redis.Client) gin.H {
	if rdb == nil {
		return gin.H{"status": "down", "message": "redis client not configured"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return gin.H{"status": "down", "message": err.Error()}
	}
	return gin.H{
		"status":       "up",
		"responseTime": time.Since(start).Milliseconds(),
	}
}

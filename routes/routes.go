/*
 * @Author: AsisYu
 * @Date: 2025-07-15
 * @Description: API路由注册
 */
package routes

import (
	"context"
	"log"
	"os"
	"time"

	"ccwhoseek/handlers"
	"ccwhoseek/middleware"
	"ccwhoseek/services"
	"ccwhoseek/utils"

	"github.com/gin-gonic/gin"
)

// 域名验证中间件，提取到单独函数减少重复代码
func domainValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 优先从路径参数获取，其次从查询参数获取
		var domain string
		if d := c.Param("domain"); d != "" {
			domain = d
		} else {
			domain = c.Query("domain")
		}

		if domain == "" {
			utils.ErrorResponse(c, 400, "MISSING_PARAMETER", "Domain parameter is required")
			c.Abort()
			return
		}

		if !utils.IsValidDomain(domain) {
			log.Printf("查询失败: 无效的域名格式: %s", domain)
			utils.ErrorResponse(c, 400, "INVALID_DOMAIN", "Invalid domain format")
			c.Abort()
			return
		}

		c.Set("domain", utils.SanitizeDomain(domain))
		c.Next()
	}
}

// 限流中间件
func rateLimitMiddleware(limiter *services.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain, _ := c.Get("domain")
		domainStr, _ := domain.(string)

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// 限流器故障时放行，不影响查询主链路
			log.Printf("限流检查失败: %v, IP: %s, 域名: %s", err, c.ClientIP(), domainStr)
		} else if !allowed {
			log.Printf("请求被限流, IP: %s, 域名: %s", c.ClientIP(), domainStr)
			utils.ErrorResponse(c, 429, "RATE_LIMITED", "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

// 异步工作任务中间件
func asyncWorkerMiddleware(workerPool *services.WorkerPool, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		domain, _ := c.Get("domain")
		domainStr, _ := domain.(string)

		reqCtx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		c.Set("requestContext", reqCtx)
		c.Set("cancelFunc", cancel)

		resultChan := make(chan interface{}, 1)
		errorChan := make(chan error, 1)

		c.Set("resultChan", resultChan)
		c.Set("errorChan", errorChan)
		c.Set("workerPool", workerPool)

		c.Next()

		// 通道带缓冲，worker写入不会阻塞，这里统一释放上下文
		cancel()
		log.Printf("[Worker] 请求处理结束，域名: %s", domainStr)
	}
}

// RegisterAPIRoutes 注册所有API路由
func RegisterAPIRoutes(r *gin.Engine, serviceContainer *services.ServiceContainer) {
	// 确保限流器已初始化
	if serviceContainer.Limiter == nil {
		serviceContainer.InitializeLimiter("limit:api", 60, time.Minute)
	}

	apiLimiter := serviceContainer.Limiter
	apiv1 := r.Group("/api/v1")

	// 健康检查路由
	r.GET("/api/health", middleware.HealthCheckRateLimit(), handlers.HealthCheckHandler(serviceContainer))

	// 认证令牌路由 - 用于客户端获取JWT令牌
	r.POST("/api/auth/token", middleware.GenerateToken(serviceContainer.RedisClient))

	// 应用安全中间件
	if os.Getenv("DISABLE_API_SECURITY") != "true" {
		// JWT认证 - 所有v1 API调用都需要有效令牌
		apiv1.Use(middleware.AuthRequired(serviceContainer.RedisClient))

		// 安全头部
		r.Use(middleware.SecurityWithConfig(middleware.DefaultSecurityConfig()))

		// 全局限流
		rateLimitConfig := middleware.DefaultRateLimitConfig()
		rateLimitConfig.RedisClient = serviceContainer.RedisClient
		r.Use(middleware.RateLimitWithConfig(rateLimitConfig))
	} else {
		log.Printf("[警告] API安全限制已禁用! 任何人都可以访问API，这在生产环境中不安全")
	}

	// WHOIS查询路由
	whoisGroup := apiv1.Group("/whois")
	whoisGroup.Use(domainValidationMiddleware())
	whoisGroup.Use(rateLimitMiddleware(apiLimiter))
	whoisGroup.Use(asyncWorkerMiddleware(serviceContainer.WorkerPool, 35*time.Second))
	whoisGroup.GET("", handlers.WhoisHandler)
	whoisGroup.GET("/:domain", handlers.WhoisHandler)

	// WHOIS提供商信息路由
	apiv1.GET("/whois-providers", handlers.WhoisProvidersInfoHandler)
}

/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 02:30:00
 * @Description: 服务容器，统一管理所有服务组件
 */
package services

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ServiceContainer 服务容器，管理所有服务组件
type ServiceContainer struct {
	RedisClient  *redis.Client
	WorkerPool   *WorkerPool
	WhoisManager *WhoisManager
	Limiter      *RateLimiter
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(redisClient *redis.Client, workerPoolSize int) *ServiceContainer {
	container := &ServiceContainer{
		RedisClient: redisClient,
	}

	log.Printf("初始化工作池，大小: %d", workerPoolSize)
	container.WorkerPool = NewWorkerPool(workerPoolSize)
	container.WorkerPool.Start()

	container.WhoisManager = NewWhoisManager(redisClient)

	return container
}

// InitializeLimiter 初始化分布式限流器
func (sc *ServiceContainer) InitializeLimiter(key string, rate int, period time.Duration) {
	sc.Limiter = NewRateLimiter(sc.RedisClient, key, rate, period)
}

// Shutdown 关闭所有服务
func (sc *ServiceContainer) Shutdown() {
	if sc.WorkerPool != nil {
		log.Println("关闭工作池...")
		sc.WorkerPool.Stop()
	}

	if sc.RedisClient != nil {
		log.Println("关闭 Redis 客户端...")
		sc.RedisClient.Close()
	}

	log.Println("所有服务已关闭")
}

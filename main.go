package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"ccwhoseek/directory"
	"ccwhoseek/middleware"
	"ccwhoseek/pkg/logger"
	"ccwhoseek/providers"
	"ccwhoseek/routes"
	"ccwhoseek/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 全局变量
var logFile *lumberjack.Logger

// 自定义日志格式
func setupLogger() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("警告: 无法创建日志目录: %v", err)
	}

	// 创建日志切割器
	logFile = &lumberjack.Logger{
		Filename:   fmt.Sprintf("logs/server_%s.log", time.Now().Format("2006-01-02")),
		MaxSize:    100,  // 每个日志文件最大大小，单位为MB
		MaxBackups: 30,   // 保留的旧日志文件最大数量
		MaxAge:     90,   // 保留旧日志文件的最大天数
		Compress:   true, // 是否压缩旧的日志文件
		LocalTime:  true, // 使用本地时间
	}

	// 同时输出到控制台和文件
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)

	gin.DefaultWriter = mw

	log.Println("日志系统初始化完成，启用了日志切割功能")
}

// 辅助函数
func getPort(defaultPort string) string {
	port := defaultPort
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// 从环境变量中读取CORS配置
func getCorsConfig() cors.Config {
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	}

	allowedMethods := []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if methods := os.Getenv("CORS_ALLOWED_METHODS"); methods != "" {
		allowedMethods = strings.Split(methods, ",")
	}

	allowedHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"}
	if headers := os.Getenv("CORS_ALLOWED_HEADERS"); headers != "" {
		allowedHeaders = strings.Split(headers, ",")
	}

	exposedHeaders := []string{"Content-Length", "X-Request-ID"}
	if headers := os.Getenv("CORS_EXPOSED_HEADERS"); headers != "" {
		exposedHeaders = strings.Split(headers, ",")
	}

	maxAge := 12 * time.Hour
	if ageStr := os.Getenv("CORS_MAX_AGE"); ageStr != "" {
		if age, err := time.ParseDuration(ageStr); err == nil {
			maxAge = age
		}
	}

	log.Printf("CORS配置: 允许的源=%v", allowedOrigins)

	return cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     allowedMethods,
		AllowHeaders:     allowedHeaders,
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           maxAge,
	}
}

// buildDirectory 内置清单加WHOIS_SERVERS环境变量叠加
// 格式: WHOIS_SERVERS="tld=host,tld=host"
func buildDirectory() *directory.Directory {
	servers := directory.DefaultServers()

	if extra := os.Getenv("WHOIS_SERVERS"); extra != "" {
		for _, pair := range strings.Split(extra, ",") {
			parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
			if len(parts) != 2 {
				log.Printf("警告: 忽略无效的WHOIS_SERVERS条目: %q", pair)
				continue
			}
			servers[parts[0]] = parts[1]
		}
	}

	dir := directory.New(servers)
	log.Printf("WHOIS服务器目录已加载，共%d个TLD", dir.Len())
	return dir
}

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Printf("未找到.env文件，使用进程环境变量")
	}

	// 初始化日志系统
	setupLogger()
	if err := logger.Init(logger.DeriveEnvironment()); err != nil {
		log.Printf("警告: zap日志初始化失败: %v", err)
	}
	defer logger.Sync()
	log.Printf("启动服务器，版本：%s，环境：%s", os.Getenv("APP_VERSION"), os.Getenv("APP_ENV"))

	// 初始化Redis客户端
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
		IdleTimeout:  5 * time.Minute,
		MaxConnAge:   30 * time.Minute,
	})

	// 初始化服务容器
	numCPU := runtime.NumCPU()
	serviceContainer := services.NewServiceContainer(rdb, numCPU*2)

	// 注册端口43提供商
	dir := buildDirectory()
	portProvider := providers.NewPortWhoisProvider(dir, 0)
	serviceContainer.WhoisManager.AddProvider(portProvider)

	// 创建Gin引擎
	r := gin.Default()

	// 启用CORS中间件
	r.Use(cors.New(getCorsConfig()))

	// 请求追踪与错误兜底
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	// 注入服务组件到上下文
	r.Use(middleware.ServiceMiddleware(serviceContainer))

	// 注册API路由
	routes.RegisterAPIRoutes(r, serviceContainer)

	// 创建HTTP服务器，配置超时参数
	port := getPort("8080")
	srv := &http.Server{
		Addr:           port,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// 优雅关闭
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("正在关闭服务器...")

		serviceContainer.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("服务器被强制关闭: %v", err)
		}

		log.Println("服务器已安全关闭")
	}()

	// 启动服务
	log.Printf("服务器启动在端口%s，环境：%s", port, os.Getenv("APP_ENV"))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

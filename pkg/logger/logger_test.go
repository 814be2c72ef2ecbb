package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// withObservedLogger 把全局logger换成可观察的实例，测试结束后还原
func withObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	oldBase, oldSugar := base, sugar
	base = zap.New(core)
	sugar = base.Sugar()
	t.Cleanup(func() { base, sugar = oldBase, oldSugar })
	return logs
}

func TestFromContextCarriesRequestID(t *testing.T) {
	logs := withObservedLogger(t)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	FromContext(ctx, "Whois").Infof("查询开始")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望1条日志, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-123" {
		t.Errorf("request_id = %v, 期望 req-123", fields["request_id"])
	}
	if entries[0].LoggerName != "Whois" {
		t.Errorf("LoggerName = %q", entries[0].LoggerName)
	}
}

func TestWithRequestCarriesRequestID(t *testing.T) {
	logs := withObservedLogger(t)

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/whois/example.com", nil)
	c.Set("request_id", "req-456")

	WithRequest(c, "Whois").Infof("处理请求")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望1条日志, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-456" {
		t.Errorf("request_id = %v, 期望 req-456", fields["request_id"])
	}
	if _, ok := fields["client_ip"]; !ok {
		t.Error("应携带client_ip字段")
	}
}

func TestModuleWithoutInit(t *testing.T) {
	// 未初始化时也要返回可用的logger
	if Module("Fallback") == nil {
		t.Fatal("Module不应返回nil")
	}
}

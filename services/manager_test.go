package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ccwhoseek/types"
)

// MockProvider 模拟WHOIS提供商用于测试
type MockProvider struct {
	name       string
	queryCount int
	shouldFail bool
	failWith   error // 为空时shouldFail走默认的传输故障
	delay      time.Duration
	mu         sync.Mutex
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Query(domain string) (*types.QueryResult, error) {
	m.mu.Lock()
	m.queryCount++
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	if m.shouldFail {
		if m.failWith != nil {
			return nil, m.failWith
		}
		return nil, errors.New("模拟传输故障")
	}

	registrar := "Mock Registrar"
	return &types.QueryResult{
		Record:         &types.DomainRecord{Registrar: &registrar},
		Domain:         domain,
		SourceProvider: m.name,
	}, nil
}

func (m *MockProvider) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCount
}

// TestQueryWithoutRedis 没有Redis时直接走提供商
func TestQueryWithoutRedis(t *testing.T) {
	manager := NewWhoisManager(nil)
	provider := &MockProvider{name: "MockA"}
	manager.AddProvider(provider)

	result, err := manager.Query("example.ru")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if result.SourceProvider != "MockA" {
		t.Errorf("SourceProvider = %q", result.SourceProvider)
	}
	if provider.count() != 1 {
		t.Errorf("提供商调用次数 = %d, want 1", provider.count())
	}
}

// TestQueryFailover 首选提供商失败后换下一个
func TestQueryFailover(t *testing.T) {
	manager := NewWhoisManager(nil)
	failing := &MockProvider{name: "Failing", shouldFail: true}
	healthy := &MockProvider{name: "Healthy"}
	manager.AddProvider(failing)
	manager.AddProvider(healthy)

	result, err := manager.Query("example.ru")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if result.SourceProvider != "Healthy" {
		t.Errorf("SourceProvider = %q, want Healthy", result.SourceProvider)
	}
}

// TestQueryAllFail 全部失败时返回最后一个传输错误
func TestQueryAllFail(t *testing.T) {
	manager := NewWhoisManager(nil)
	manager.AddProvider(&MockProvider{name: "FailA", shouldFail: true})
	manager.AddProvider(&MockProvider{name: "FailB", shouldFail: true})

	if _, err := manager.Query("example.ru"); err == nil {
		t.Fatal("全部提供商失败时应报错")
	}
}

// TestProviderDisabledAfterRepeatedFailures 连续失败的提供商被临时禁用
func TestProviderDisabledAfterRepeatedFailures(t *testing.T) {
	manager := NewWhoisManager(nil)
	failing := &MockProvider{name: "Failing", shouldFail: true}
	manager.AddProvider(failing)

	for i := 0; i < MAX_RETRIES; i++ {
		manager.Query("example.ru")
	}

	status := manager.GetProvidersStatus()["Failing"].(map[string]interface{})
	if status["available"].(bool) {
		t.Error("连续失败后提供商应被禁用")
	}
	if manager.GetOverallStatus() != "down" {
		t.Errorf("GetOverallStatus = %q, want down", manager.GetOverallStatus())
	}
}

// TestPermanentErrorDoesNotDisableProvider 未配置TLD不算提供商故障
func TestPermanentErrorDoesNotDisableProvider(t *testing.T) {
	manager := NewWhoisManager(nil)
	provider := &MockProvider{
		name:       "PortOnly",
		shouldFail: true,
		failWith:   fmt.Errorf("%w: zz", types.ErrNoServerConfigured),
	}
	manager.AddProvider(provider)

	// 远超禁用阈值的重复查询
	for i := 0; i < MAX_RETRIES*3; i++ {
		if _, err := manager.Query("example.zz"); !errors.Is(err, types.ErrNoServerConfigured) {
			t.Fatalf("应原样返回哨兵错误, got %v", err)
		}
	}

	status := manager.GetProvidersStatus()["PortOnly"].(map[string]interface{})
	if !status["available"].(bool) {
		t.Error("数据层面的永久限制不应禁用提供商")
	}
	if manager.GetOverallStatus() != "up" {
		t.Errorf("GetOverallStatus = %q, want up", manager.GetOverallStatus())
	}

	// 换成可服务的域名，提供商应立即可用
	provider.mu.Lock()
	provider.shouldFail = false
	provider.mu.Unlock()

	if _, err := manager.Query("example.ru"); err != nil {
		t.Fatalf("后续正常查询不应受影响: %v", err)
	}
}

// TestSelectProviderConcurrency 并发调用selectProvider不应崩溃或返回nil
func TestSelectProviderConcurrency(t *testing.T) {
	manager := NewWhoisManager(nil)
	for i := 0; i < 4; i++ {
		manager.AddProvider(&MockProvider{
			name:  "MockProvider" + string(rune('A'+i)),
			delay: time.Millisecond * 5,
		})
	}

	const goroutines = 50
	const iterations = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				if provider := manager.selectProvider(); provider == nil {
					t.Errorf("goroutine %d 第 %d 轮: selectProvider返回nil", id, j)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}

// TestConcurrentQueryAndHealthCheck Query和健康探测并发执行不互相阻塞
func TestConcurrentQueryAndHealthCheck(t *testing.T) {
	manager := NewWhoisManager(nil)
	for i := 0; i < 3; i++ {
		manager.AddProvider(&MockProvider{
			name:  "ConcurrentProvider" + string(rune('A'+i)),
			delay: time.Millisecond * 20,
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.Query("example.ru")
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if result := manager.TestProvidersHealth(); result == nil {
				t.Error("TestProvidersHealth返回nil")
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("超时：可能死锁或严重争用")
	}
}

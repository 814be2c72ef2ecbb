/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 02:10:00
 * @Description: WHOIS查询管理器 - 提供商调度、结果缓存、可用性跟踪
 */
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"ccwhoseek/types"
	"ccwhoseek/utils"

	"github.com/go-redis/redis/v8"
)

const (
	CACHE_TTL   = 24 * time.Hour // 解析结果缓存一天
	MAX_RETRIES = 2              // 连续错误达到上限后临时禁用提供商
)

type providerStatus struct {
	count       int       // 调用次数
	lastUsed    time.Time // 上次使用时间
	errorCount  int       // 连续错误次数
	isAvailable bool      // 是否可用
}

// WhoisManager 管理注册的提供商并缓存查询结果
// rdb为nil时跳过缓存，直接走提供商
type WhoisManager struct {
	providers []types.WhoisProvider
	rdb       *redis.Client
	mu        sync.RWMutex
	status    map[string]*providerStatus
}

func NewWhoisManager(rdb *redis.Client) *WhoisManager {
	return &WhoisManager{
		providers: make([]types.WhoisProvider, 0),
		rdb:       rdb,
		status:    make(map[string]*providerStatus),
	}
}

func (m *WhoisManager) AddProvider(provider types.WhoisProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers = append(m.providers, provider)
	m.status[provider.Name()] = &providerStatus{
		isAvailable: true,
		lastUsed:    time.Now(),
	}

	log.Printf("注册WHOIS提供商: %s", provider.Name())
}

// selectProvider 选出得分最低的可用提供商
// 使用次数和错误次数抬高得分，距上次使用的时间拉低得分
func (m *WhoisManager) selectProvider() types.WhoisProvider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var selected types.WhoisProvider
	minScore := -1.0
	now := time.Now().UTC()

	for _, p := range m.providers {
		status := m.status[p.Name()]

		// 禁用中的提供商冷却5分钟后重新参与选择，真正的状态复位发生在下次调用成功时
		if !status.isAvailable && now.Sub(status.lastUsed) <= 5*time.Minute {
			continue
		}

		score := float64(status.count)*10.0 +
			float64(status.errorCount)*20.0 -
			now.Sub(status.lastUsed).Minutes()*5.0

		if minScore == -1.0 || score < minScore {
			minScore = score
			selected = p
		}
	}

	return selected
}

// isPermanentError 区分数据层面的永久限制和可重试的传输故障
func isPermanentError(err error) bool {
	return errors.Is(err, types.ErrNoServerConfigured) || errors.Is(err, types.ErrInvalidDomain)
}

// markResult 记录一次调用结果，连续失败达到上限就临时禁用
func (m *WhoisManager) markResult(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.status[name]
	if !ok {
		return
	}
	status.lastUsed = time.Now()
	status.count++

	if err != nil {
		status.errorCount++
		if status.errorCount >= MAX_RETRIES {
			status.isAvailable = false
			log.Printf("提供商 %s 连续失败 %d 次，暂时禁用", name, status.errorCount)
		}
		return
	}
	status.errorCount = 0
	status.isAvailable = true
}

// Query 先查缓存，再按得分依次尝试提供商
// 传输错误会换下一个提供商；全部失败时返回最后一个错误
func (m *WhoisManager) Query(domain string) (*types.QueryResult, error) {
	cacheKey := utils.BuildCacheKey("whois", utils.SanitizeDomain(domain))
	if cached, found := m.checkCache(cacheKey); found {
		log.Printf("命中缓存: %s", domain)
		return cached, nil
	}

	m.mu.RLock()
	available := make([]types.WhoisProvider, 0, len(m.providers))
	for _, p := range m.providers {
		status := m.status[p.Name()]
		if status.isAvailable || time.Since(status.lastUsed) > 5*time.Minute {
			available = append(available, p)
		}
	}
	m.mu.RUnlock()

	if len(available) == 0 {
		return nil, fmt.Errorf("没有可用的WHOIS提供商")
	}

	// 优先用得分最低的，失败再轮询其余可用提供商
	tried := map[string]bool{}
	ordered := make([]types.WhoisProvider, 0, len(available))
	if selected := m.selectProvider(); selected != nil {
		ordered = append(ordered, selected)
		tried[selected.Name()] = true
	}
	for _, p := range available {
		if !tried[p.Name()] {
			ordered = append(ordered, p)
		}
	}

	var lastErr error
	for _, provider := range ordered {
		result, err := provider.Query(domain)

		// 未配置TLD或域名非法是数据层面的永久限制，
		// 不计入提供商健康度，也不值得换提供商重试
		if isPermanentError(err) {
			log.Printf("提供商 %s 拒绝查询: %v", provider.Name(), err)
			return nil, err
		}
		m.markResult(provider.Name(), err)

		if err != nil {
			log.Printf("提供商 %s 查询失败: %v", provider.Name(), err)
			lastErr = err
			continue
		}

		m.cacheResponse(cacheKey, result)
		return result, nil
	}

	return nil, lastErr
}

func (m *WhoisManager) checkCache(key string) (*types.QueryResult, bool) {
	if m.rdb == nil {
		return nil, false
	}

	data, err := m.rdb.Get(context.Background(), key).Result()
	if err != nil {
		return nil, false
	}

	var result types.QueryResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		log.Printf("解析缓存数据失败: %v", err)
		return nil, false
	}
	return &result, true
}

func (m *WhoisManager) cacheResponse(key string, result *types.QueryResult) {
	if m.rdb == nil {
		return
	}

	stamped := *result
	stamped.CachedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(&stamped)
	if err != nil {
		return
	}
	// TTL加抖动，避免同批缓存一起过期
	ttl := CACHE_TTL + time.Duration(rand.Int63n(int64(time.Hour)))
	if err := m.rdb.Set(context.Background(), key, data, ttl).Err(); err != nil {
		log.Printf("缓存数据失败: %v", err)
	}
}

// TestProvidersHealth 用知名域名主动探测各提供商
func (m *WhoisManager) TestProvidersHealth() map[string]interface{} {
	testDomains := []string{"google.com", "microsoft.com", "github.com"}
	const probeTimeout = 10 * time.Second

	m.mu.RLock()
	providers := make([]types.WhoisProvider, len(m.providers))
	copy(providers, m.providers)
	m.mu.RUnlock()

	results := make(map[string]interface{})
	for _, provider := range providers {
		testDomain := testDomains[rand.Intn(len(testDomains))]
		start := time.Now()

		_, err := m.queryWithTimeout(provider, testDomain, probeTimeout)
		m.markResult(provider.Name(), err)

		probe := map[string]interface{}{
			"domain":       testDomain,
			"responseTime": time.Since(start).Milliseconds(),
			"success":      err == nil,
		}
		if err != nil {
			probe["message"] = err.Error()
		}
		results[provider.Name()] = probe
	}
	return results
}

// queryWithTimeout 提供商接口本身没有上下文，这里用goroutine加select兜底
func (m *WhoisManager) queryWithTimeout(provider types.WhoisProvider, domain string, timeout time.Duration) (*types.QueryResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type outcome struct {
		result *types.QueryResult
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		result, err := provider.Query(domain)
		ch <- outcome{result, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("探测超时 (>%v)", timeout)
	case o := <-ch:
		return o.result, o.err
	}
}

// GetProvidersStatus 返回各提供商的调度状态快照
func (m *WhoisManager) GetProvidersStatus() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]interface{})
	for _, provider := range m.providers {
		name := provider.Name()
		status := m.status[name]
		result[name] = map[string]interface{}{
			"available":  status.isAvailable,
			"errorCount": status.errorCount,
			"callCount":  status.count,
			"lastUsed":   status.lastUsed.UTC().Format(time.RFC3339),
		}
	}
	return result
}

// GetOverallStatus 汇总为 up / degraded / down 三档
func (m *WhoisManager) GetOverallStatus() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	availableCount := 0
	for _, provider := range m.providers {
		if m.status[provider.Name()].isAvailable {
			availableCount++
		}
	}

	switch {
	case availableCount == 0:
		return "down"
	case availableCount < len(m.providers):
		return "degraded"
	default:
		return "up"
	}
}

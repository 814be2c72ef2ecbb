package middleware

import (
	"testing"

	"golang.org/x/time/rate"
)

func TestIPRateLimiterAllow(t *testing.T) {
	// 速率几乎为0，只靠突发额度
	limiter := NewIPRateLimiter(rate.Limit(0.0001), 2)

	if !limiter.Allow("1.2.3.4") {
		t.Error("第一次请求应放行")
	}
	if !limiter.Allow("1.2.3.4") {
		t.Error("第二次请求应放行")
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("超过突发额度应拒绝")
	}

	// 不同IP互不影响
	if !limiter.Allow("5.6.7.8") {
		t.Error("其他IP应有独立额度")
	}
}

func TestIsExcludedIP(t *testing.T) {
	excludes := []string{"127.0.0.1", "10.0.0.0/8"}

	if !isExcludedIP("127.0.0.1", excludes) {
		t.Error("精确匹配应排除")
	}
	if !isExcludedIP("10.1.2.3", excludes) {
		t.Error("CIDR范围内应排除")
	}
	if isExcludedIP("192.168.1.1", excludes) {
		t.Error("范围外不应排除")
	}
}

func TestNormalizeIP(t *testing.T) {
	cases := map[string]string{
		"192.168.1.1":      "192.168.1.1",
		"::ffff:192.0.2.1": "192.0.2.1",
		"  10.0.0.1 ":      "10.0.0.1",
		"not-an-ip":        "not-an-ip",
		"":                 "",
	}
	for in, want := range cases {
		if got := normalizeIP(in); got != want {
			t.Errorf("normalizeIP(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

package whoisparse

import (
	"testing"
	"time"
)

// TestNormalizeDateCanonicalForms 各支持格式都应产出零填充的统一时间戳
func TestNormalizeDateCanonicalForms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"序数词英文日期", "30th April 2003", "2003-04-30T00:00:00Z"},
		{"无序数词英文日期", "2 April 2003", "2003-04-02T00:00:00Z"},
		{"大小写混排月份", "1st JANUARY 2020", "2020-01-01T00:00:00Z"},
		{"斜杠日期", "2005/05/30", "2005-05-30T00:00:00Z"},
		{"斜杠日期单位数月份", "2005/5/3", "2005-05-03T00:00:00Z"},
		{"韩国点分日期", "2007. 03. 02.", "2007-03-02T00:00:00Z"},
		{"点分日期无尾点", "2007. 03. 02", "2007-03-02T00:00:00Z"},
		{"点分日期紧凑", "2007.03.02.", "2007-03-02T00:00:00Z"},
		{"前后空白", "  30th April 2003  ", "2003-04-30T00:00:00Z"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeDate(tc.raw)
			if got != tc.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

// TestNormalizeDateIdentity 识别不了的格式必须原样返回
func TestNormalizeDateIdentity(t *testing.T) {
	cases := []string{
		"2024-05-01T10:00:00Z", // 已经是ISO 8601
		"before Aug-1996",
		"01-Aug-2025",
		"2011-04-21 12:32:43",
		"",
	}

	for _, raw := range cases {
		if got := NormalizeDate(raw); got != raw {
			t.Errorf("NormalizeDate(%q) = %q, 应原样返回", raw, got)
		}
	}
}

// TestNormalizeDateRecurring 周期续费日解析到参考时刻的下一个自然年
// 时钟必须注入固定值，不能依赖真实的"现在"
func TestNormalizeDateRecurring(t *testing.T) {
	ref := time.Date(2014, time.October, 22, 10, 35, 59, 0, time.UTC)

	got := normalizeDateAt("30th April each year", ref)
	want := "2015-04-30T00:00:00Z"
	if got != want {
		t.Errorf("normalizeDateAt = %q, want %q", got, want)
	}

	// 月日在当年是否已过不影响结果，一律取下一年
	refEarly := time.Date(2014, time.January, 2, 0, 0, 0, 0, time.UTC)
	if got := normalizeDateAt("30th April each year", refEarly); got != want {
		t.Errorf("normalizeDateAt(年初参考时刻) = %q, want %q", got, want)
	}

	// 单位数日要零填充
	if got := normalizeDateAt("1st December each year", ref); got != "2015-12-01T00:00:00Z" {
		t.Errorf("normalizeDateAt 零填充失败: %q", got)
	}
}

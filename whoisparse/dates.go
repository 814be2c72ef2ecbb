/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-12 22:05:00
 * @Description: 日期归一化 - 把各注册局五花八门的日期写法转成统一时间戳
 */
package whoisparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// monthNames 英文月份名查找表，进程内只构建一次
var monthNames = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

const monthPattern = `(January|February|March|April|May|June|July|August|September|October|November|December)`

// 归一化规则按声明顺序尝试，命中即停
var (
	// "30th April 2003" 这类带序数词的英文日期
	reOrdinalDate = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+` + monthPattern + `\s+(\d{4})\b`)
	// "30th April each year" 续费周期日，没有年份
	reRecurringDate = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+` + monthPattern + `\s+each\s+year\b`)
	// "2005/05/30"
	reSlashDate = regexp.MustCompile(`\b(\d{4})/(\d{1,2})/(\d{1,2})\b`)
	// "2007. 03. 02." 韩国注册局写法，末尾的点可有可无
	reDottedDate = regexp.MustCompile(`\b(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.?`)
)

// NormalizeDate 把日期文本转成 YYYY-MM-DDT00:00:00Z，无法识别时原样返回
// 永远不会失败：原样返回的文本同样算"字段存在"
func NormalizeDate(raw string) string {
	return normalizeDateAt(raw, time.Now().UTC())
}

// normalizeDateAt 接受注入的参考时间，续费周期日的测试需要固定时钟
func normalizeDateAt(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)

	if m := reOrdinalDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		return formatCanonical(year, monthNames[strings.ToLower(m[2])], day)
	}

	if m := reRecurringDate.FindStringSubmatch(s); m != nil {
		// 周期日没有年份，按归一化时刻解析到下一个自然年
		// 不管当年的月日是否已过，一律取下一年
		day, _ := strconv.Atoi(m[1])
		return formatCanonical(now.Year()+1, monthNames[strings.ToLower(m[2])], day)
	}

	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		return canonicalFromStrings(m[1], m[2], m[3])
	}

	if m := reDottedDate.FindStringSubmatch(s); m != nil {
		return canonicalFromStrings(m[1], m[2], m[3])
	}

	// 可能本来就是ISO 8601，也可能是没见过的本地格式
	return raw
}

func canonicalFromStrings(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return formatCanonical(y, time.Month(m), d)
}

func formatCanonical(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02dT00:00:00Z", year, int(month), day)
}

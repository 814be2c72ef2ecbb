/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-12 21:30:00
 * @Description: TLD到权威WHOIS服务器的映射，由调用方提供和维护
 */
package directory

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Directory 小写TLD标签到主机名的只读映射，每个TLD至多一台服务器
// 刷新和数据来源归调用方管，这里只做查找
type Directory struct {
	servers map[string]string
}

// New 从调用方提供的映射构建目录，键统一成小写并去掉前导点
func New(servers map[string]string) *Directory {
	normalized := make(map[string]string, len(servers))
	for tld, host := range servers {
		tld = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tld), "."))
		host = strings.TrimSpace(host)
		if tld == "" || host == "" {
			continue
		}
		normalized[tld] = host
	}
	return &Directory{servers: normalized}
}

// Lookup 按域名的最后一个标签查服务器
func (d *Directory) Lookup(domain string) (string, bool) {
	tld := ExtractTLD(domain)
	if tld == "" {
		return "", false
	}
	return d.LookupTLD(tld)
}

// LookupTLD 按TLD标签直接查服务器
func (d *Directory) LookupTLD(tld string) (string, bool) {
	host, ok := d.servers[strings.ToLower(tld)]
	return host, ok
}

// TLDs 返回已配置的TLD列表，排序后输出方便展示和排查
func (d *Directory) TLDs() []string {
	tlds := maps.Keys(d.servers)
	slices.Sort(tlds)
	return tlds
}

// Len 已配置的TLD数量
func (d *Directory) Len() int {
	return len(d.servers)
}

// ExtractTLD 取域名最后一个标签并转小写
func ExtractTLD(domain string) string {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	parts := strings.Split(domain, ".")
	if len(parts) < 2 {
		return ""
	}
	return strings.ToLower(parts[len(parts)-1])
}

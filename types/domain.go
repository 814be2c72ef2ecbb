/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-12 21:40:00
 * @Description: 域名注册信息类型定义
 */
package types

// DomainRecord 一次WHOIS查询解析出的结构化注册信息
// 字段为nil表示"没有任何策略命中"，而不是空字符串占位
type DomainRecord struct {
	DomainName     *string  `json:"domainName,omitempty"`
	Registrar      *string  `json:"registrar,omitempty"`
	CreationDate   *string  `json:"creationDate,omitempty"`
	ExpirationDate *string  `json:"expirationDate,omitempty"`
	Registrant     *string  `json:"registrant,omitempty"`
	DNSSEC         *string  `json:"dnssec,omitempty"`
	LastModified   *string  `json:"lastModified,omitempty"`
	NameServers    []string `json:"nameServers,omitempty"`
	Status         []string `json:"status,omitempty"`
}

// QueryResult 查询结果，附带来源和缓存信息返回给API层
type QueryResult struct {
	Record         *DomainRecord `json:"record"`
	Domain         string        `json:"domain"`
	WhoisServer    string        `json:"whoisServer,omitempty"`
	SourceProvider string        `json:"sourceProvider,omitempty"`
	CachedAt       string        `json:"cachedAt,omitempty"`
}

// WhoisProvider WHOIS查询提供者接口
type WhoisProvider interface {
	Query(domain string) (*QueryResult, error)
	Name() string
}

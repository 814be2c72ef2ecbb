/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 00:55:00
 * @Description: 解析引擎 - 把一份原始WHOIS响应文本变成结构化记录
 */
package whoisparse

import (
	"ccwhoseek/types"
)

// Parse 对一份完整的WHOIS响应文本逐字段套用提取策略
// 引擎从不报错：各注册局约定互不兼容且缺乏文档，字段提取不到是常态而非故障，
// 所以以字段为粒度降级，绝不整条查询失败
//
// fallbackDomain 是调用方实际查询的域名；响应里认不出域名字段时回填它
func Parse(rawText string, fallbackDomain string) *types.DomainRecord {
	record := &types.DomainRecord{
		DomainName:     extractSingle(rawText, domainRules),
		Registrar:      extractSingle(rawText, registrarRules),
		Registrant:     extractSingle(rawText, registrantRules),
		DNSSEC:         extractSingle(rawText, dnssecRules),
		LastModified:   extractSingle(rawText, lastModifiedRules),
		CreationDate:   extractDate(rawText, creationDateRules),
		ExpirationDate: extractDate(rawText, expirationDateRules),
		NameServers:    ExtractNameServers(rawText),
		Status:         ExtractStatus(rawText),
	}

	// 域名是唯一带回退的字段：哪个模式都没命中时用查询串本身
	if record.DomainName == nil && fallbackDomain != "" {
		fallback := fallbackDomain
		record.DomainName = &fallback
	}

	return record
}

/*
 * @Author: AsisYu
 * @Date: 2025-07-13
 * @Description: 域名工具函数
 */
package utils

import (
	"regexp"
	"strings"
)

var domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// stripDecorations 去掉协议前缀、端口和路径，只留主机名部分
func stripDecorations(domain string) string {
	domain = strings.TrimPrefix(strings.TrimPrefix(domain, "http://"), "https://")
	if idx := strings.Index(domain, ":"); idx != -1 {
		domain = domain[:idx]
	}
	if idx := strings.Index(domain, "/"); idx != -1 {
		domain = domain[:idx]
	}
	return domain
}

// IsValidDomain 验证域名是否有效
func IsValidDomain(domain string) bool {
	return domainRegex.MatchString(stripDecorations(domain))
}

// SanitizeDomain 清理和标准化域名
func SanitizeDomain(domain string) string {
	return strings.ToLower(stripDecorations(domain))
}

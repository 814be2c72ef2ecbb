/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-14 22:10:00
 * @Description: 常见TLD的权威WHOIS服务器内置清单
 */
package directory

// DefaultServers 返回内置的TLD到WHOIS服务器映射副本
// 调用方可以在此基础上叠加自己的配置再构建Directory
func DefaultServers() map[string]string {
	return map[string]string{
		"com":  "whois.verisign-grs.com",
		"net":  "whois.verisign-grs.com",
		"org":  "whois.publicinterestregistry.org",
		"info": "whois.nic.info",
		"biz":  "whois.nic.biz",
		"io":   "whois.nic.io",
		"me":   "whois.nic.me",
		"co":   "whois.nic.co",
		"tv":   "whois.nic.tv",
		"cc":   "ccwhois.verisign-grs.com",
		"dev":  "whois.nic.google",
		"app":  "whois.nic.google",
		"ai":   "whois.nic.ai",
		"sh":   "whois.nic.sh",
		"xyz":  "whois.nic.xyz",
		"uk":   "whois.nic.uk",
		"ru":   "whois.tcinet.ru",
		"su":   "whois.tcinet.ru",
		"jp":   "whois.jprs.jp",
		"kr":   "whois.kr",
		"cn":   "whois.cnnic.cn",
		"tw":   "whois.twnic.net.tw",
		"hk":   "whois.hkirc.hk",
		"de":   "whois.denic.de",
		"fr":   "whois.nic.fr",
		"nl":   "whois.domain-registry.nl",
		"eu":   "whois.eu",
		"ch":   "whois.nic.ch",
		"it":   "whois.nic.it",
		"pl":   "whois.dns.pl",
		"se":   "whois.iis.se",
		"us":   "whois.nic.us",
		"ca":   "whois.cira.ca",
		"au":   "whois.auda.org.au",
		"nz":   "whois.irs.net.nz",
		"br":   "whois.registro.br",
		"in":   "whois.registry.in",
		"sg":   "whois.sgnic.sg",
	}
}

/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 00:20:00
 * @Description: 逐字段提取策略表 - 按声明顺序求值，首个命中的规则生效
 */
package whoisparse

import (
	"regexp"
	"strings"
)

// 每个字段的启发式规则显式排成表，优先级一目了然，也方便单独加新注册局的写法
// 不要改成嵌套if：新格式靠追加表项支持，不动公共控制流

// colonRule 冒号写法：标签 + 可选的点状填充 + 冒号 + 行内其余内容
// 例如 "registrar............: Example Ltd"
func colonRule(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t]*` + regexp.QuoteMeta(label) + `[ .]*:[ \t]*(.+)$`)
}

// bracketRule 方括号写法，日本注册局风格："[Registrant] EXAMPLE INC."
func bracketRule(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^\[` + regexp.QuoteMeta(label) + `\][ \t]*(.+)$`)
}

// singleValueRules 为一组同义标签展开 (冒号形式, 方括号形式) 规则对
func singleValueRules(labels ...string) []*regexp.Regexp {
	rules := make([]*regexp.Regexp, 0, len(labels)*2)
	for _, label := range labels {
		rules = append(rules, colonRule(label), bracketRule(label))
	}
	return rules
}

// 通用单值字段的同义标签表
var (
	domainRules = singleValueRules("Domain Name", "Domain", "domain")

	registrarRules = singleValueRules(
		"Registrar",
		"Sponsoring Registrar",
		"Registrar Name",
		"Registration Service Provider",
	)

	registrantRules = singleValueRules(
		"Registrant",
		"Registrant Name",
		"Registrant Organization",
		"registrant",
		"登録者名", // .jp 的日文标签
	)

	dnssecRules = singleValueRules("DNSSEC", "dnssec")

	lastModifiedRules = singleValueRules(
		"Updated Date",
		"Last Modified",
		"Last Updated",
		"last-update",
		"changed",
		"modified",
		"最終更新", // .jp
	)
)

// extractSingle 按规则表顺序取第一个命中的值，裁剪空白
// 标签命中但值为空白时继续往下试，绝不返回空字符串
func extractSingle(text string, rules []*regexp.Regexp) *string {
	for _, re := range rules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return &v
		}
	}
	return nil
}

// extractMulti 收集所有 "标签: 值" 出现，保持原文顺序
func extractMulti(text string, re *regexp.Regexp) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if v := strings.TrimSpace(m[1]); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ---------- 名称服务器 ----------
// 块格式排在冒号格式前面：不少注册局的页脚模板里混着冒号形式的噪声，
// 先认块可以避免把页脚文本当成多值字段抓进来

var (
	// 块A：.uk 风格 "Name servers:" 区块，页脚以 "WHOIS lookup..." 开头
	reNSHeaderA = regexp.MustCompile(`(?i)name servers:`)
	// 块B："Nameservers" 区块，下一个大写字母开头的行视为新段落
	// 头部必须独占一行，行内 "nameservers: 值" 留给冒号策略处理
	reNSHeaderB = regexp.MustCompile(`(?im)^[ \t]*nameservers[ \t]*:?[ \t]*\r?$`)
	// 方括号形式，.jp 风格
	reNSBracket = regexp.MustCompile(`(?im)^\[name server\][ \t]*(.+)$`)
)

// 冒号同义词按固定优先级排列；此处大小写敏感，nserver 和 Nserver 分属不同注册局
var nsColonSynonyms = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*nserver[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Nserver[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Name Server[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*nameservers[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*nameserver[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Host Name[ .]*:[ \t]*(.+)$`),
}

// ExtractNameServers 依次尝试四种格式，第一个产出至少一条记录的策略生效
// 全部落空返回nil，不返回空切片
func ExtractNameServers(text string) []string {
	if hosts := nsBlockA(text); len(hosts) > 0 {
		return hosts
	}
	if hosts := nsBlockB(text); len(hosts) > 0 {
		return hosts
	}
	if hosts := nsColonForms(text); len(hosts) > 0 {
		return hosts
	}
	if hosts := nsBracketForm(text); len(hosts) > 0 {
		return hosts
	}
	return nil
}

func nsBlockA(text string) []string {
	loc := reNSHeaderA.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	var hosts []string
	for i, line := range strings.Split(text[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if i == 0 {
				// 头部行自身的行尾
				continue
			}
			break
		}
		if strings.HasPrefix(line, "WHOIS") {
			// "WHOIS lookup made at ..." 页脚标记，区块到此为止
			if strings.HasPrefix(line, "WHOIS lookup") {
				break
			}
			continue
		}
		// 每行只留第一个空白分隔的token，丢掉行尾标注的IP
		hosts = append(hosts, strings.Fields(line)[0])
	}
	return hosts
}

func nsBlockB(text string) []string {
	loc := reNSHeaderB.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	var hosts []string
	for i, line := range strings.Split(text[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if i == 0 {
				continue
			}
			break
		}
		// 大写字母开头的行视为下一个段落标题
		if line[0] >= 'A' && line[0] <= 'Z' {
			break
		}
		hosts = append(hosts, strings.Fields(line)[0])
	}
	return hosts
}

func nsColonForms(text string) []string {
	for _, re := range nsColonSynonyms {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		// 第一个有命中的同义词独占结果，后面的不再看
		var hosts []string
		for _, m := range matches {
			v := strings.TrimSpace(m[1])
			if v == "" {
				continue
			}
			host := strings.Fields(v)[0]
			host = strings.TrimSuffix(host, ".")
			if host != "" {
				hosts = append(hosts, host)
			}
		}
		return hosts
	}
	return nil
}

func nsBracketForm(text string) []string {
	var hosts []string
	for _, m := range reNSBracket.FindAllStringSubmatch(text, -1) {
		v := strings.TrimSpace(m[1])
		if v == "" {
			continue
		}
		hosts = append(hosts, strings.Fields(v)[0])
	}
	return hosts
}

// ---------- 域名状态 ----------

var (
	// 块头必须独占一行：行内直接带值的 "Domain Status: ok" 走冒号多值提取
	reStatusBlockHeader = regexp.MustCompile(`(?i)domain status:[ \t]*\r?\n`)
	reStatusRegistrant  = regexp.MustCompile(`(?i)registrant:`)
	reBlankLine         = regexp.MustCompile(`\r?\n[ \t]*\r?\n`)

	statusColonSynonyms = []*regexp.Regexp{
		colonRule("Domain Status"),
		colonRule("Status"),
		colonRule("state"),
	}
)

// ExtractStatus 先认 .uk 式的状态区块，再退回冒号多值提取
// 同义词不跨组合并：第一个有命中的同义词独占结果
func ExtractStatus(text string) []string {
	if lines := statusBlock(text); len(lines) > 0 {
		return lines
	}
	for _, re := range statusColonSynonyms {
		if values := extractMulti(text, re); len(values) > 0 {
			return values
		}
	}
	return nil
}

func statusBlock(text string) []string {
	loc := reStatusBlockHeader.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	rest := text[loc[1]:]

	// 区块到空行或 "Registrant:" 标记为止
	end := len(rest)
	if loc := reBlankLine.FindStringIndex(rest); loc != nil && loc[0] < end {
		end = loc[0]
	}
	if m := reStatusRegistrant.FindStringIndex(rest); m != nil && m[0] < end {
		end = m[0]
	}

	var lines []string
	for _, line := range strings.Split(rest[:end], "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ---------- 创建/到期日期 ----------
// 两个字段各有独立的结构化规则表：关键字带不同大小写变体、自然语言周期写法、
// 以及发布本地语言字段名的注册局的原文标签，命中的捕获文本交给日期归一化

var creationDateRules = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*Creation Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*created[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Created[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Created on[ .]*:?[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Registered on[ .]*:?[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Registration Time[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Registration Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Domain Name Commencement Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)Record created on[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^\[登録年月日\][ \t]*(.+)$`), // .jp
	regexp.MustCompile(`(?m)^[ \t]*등록일[ \t]*:[ \t]*(.+)$`), // .kr
}

var expirationDateRules = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*Registry Expiry Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Expiration Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Expiry Date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Expiry date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Expiration Time[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*expires[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*Expires on[ .]*:?[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^[ \t]*paid-till[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)Record expires on[ \t]*(.+)$`),
	// 按年续费的注册局只公布周期日，如 "Renewal date: 30th April each year"
	regexp.MustCompile(`(?m)^[ \t]*Renewal date[ .]*:[ \t]*(.+)$`),
	regexp.MustCompile(`(?m)^\[有効期限\][ \t]*(.+)$`), // .jp
	regexp.MustCompile(`(?m)^[ \t]*사용 종료일[ \t]*:[ \t]*(.+)$`), // .kr
}

// extractDate 取规则表里第一个命中的捕获文本，交给日期归一化
func extractDate(text string, rules []*regexp.Regexp) *string {
	for _, re := range rules {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			normalized := NormalizeDate(v)
			return &normalized
		}
	}
	return nil
}

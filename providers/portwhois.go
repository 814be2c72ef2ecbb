/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 01:30:00
 * @Description: 端口43 WHOIS提供商 - 目录选服务器，传输取原文，解析引擎出结构化记录
 */
package providers

import (
	"fmt"
	"log"
	"time"

	"ccwhoseek/directory"
	"ccwhoseek/types"
	"ccwhoseek/utils"
	"ccwhoseek/whoisclient"
	"ccwhoseek/whoisparse"
)

// PortWhoisProvider 纯文本WHOIS查询提供商
// 解析永远不失败，这里的error只来自传输层；字段缺失是数据层面的正常结果
type PortWhoisProvider struct {
	client *whoisclient.Client
	dir    *directory.Directory
}

// NewPortWhoisProvider 创建提供商，timeout传给底层客户端
func NewPortWhoisProvider(dir *directory.Directory, timeout time.Duration) *PortWhoisProvider {
	return &PortWhoisProvider{
		client: whoisclient.NewClient(timeout),
		dir:    dir,
	}
}

func (p *PortWhoisProvider) Name() string {
	return "PORT43-WHOIS"
}

func (p *PortWhoisProvider) Query(domain string) (*types.QueryResult, error) {
	if !utils.IsValidDomain(domain) {
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidDomain, domain)
	}

	server, ok := p.dir.Lookup(domain)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrNoServerConfigured, directory.ExtractTLD(domain))
	}

	log.Printf("查询WHOIS服务器: %s, 域名: %s", server, domain)

	rawText, err := p.client.Query(domain, server)
	if err != nil {
		// 传输错误原样上抛，调用方据此区分可重试故障和字段缺失
		log.Printf("WHOIS查询失败: %v", err)
		return nil, err
	}

	log.Printf("WHOIS响应长度: %d 字节, 预览: %s", len(rawText), utils.TruncateString(rawText, 120))

	record := whoisparse.Parse(rawText, domain)

	return &types.QueryResult{
		Record:         record,
		Domain:         domain,
		WhoisServer:    server,
		SourceProvider: p.Name(),
	}, nil
}

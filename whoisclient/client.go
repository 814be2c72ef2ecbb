/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-12 21:20:00
 * @Description: 基于TCP端口43的行式WHOIS传输客户端
 */
package whoisclient

import (
	"io"
	"net"
	"strings"
	"time"
)

const (
	// WhoisPort WHOIS固定端口
	WhoisPort = "43"
	// DefaultTimeout 整次查询的默认时间上限
	DefaultTimeout = 30 * time.Second
)

// Client 每次Query一个往返、一条连接，除此之外不持有状态
// 并发查询各自独占套接字，可以放心跨goroutine复用同一个Client
type Client struct {
	timeout time.Duration
}

// NewClient 创建客户端，timeout不为正时取DefaultTimeout
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{timeout: timeout}
}

// Timeout 返回客户端的查询时间上限
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Query 向server发送 "<domain>\r\n"，读取全部字节直到对端关闭
// 协议没有长度和分帧，对端关闭就是响应结束的唯一信号
// 客户端内不做重试，重试策略归调用方
// server不带端口时使用固定端口43
func (c *Client) Query(domain, server string) (string, error) {
	addr := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		addr = net.JoinHostPort(server, WhoisPort)
	}

	// 拨号和读写共用一个绝对期限，整次查询不超过timeout
	deadline := time.Now().Add(c.timeout)

	conn, err := net.DialTimeout("tcp", addr, c.timeout)
	if err != nil {
		return "", &ConnectionError{Server: server, Domain: domain, Err: err}
	}
	// 超时路径同样走这里关闭，不留悬挂套接字
	defer conn.Close()

	conn.SetDeadline(deadline)

	if _, err := conn.Write([]byte(domain + "\r\n")); err != nil {
		return "", c.transportError(domain, server, err)
	}

	var response strings.Builder
	buffer := make([]byte, 4096)
	for {
		n, err := conn.Read(buffer)
		if n > 0 {
			response.Write(buffer[:n])
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", c.transportError(domain, server, err)
		}
	}

	text := response.String()
	if strings.TrimSpace(text) == "" {
		return "", &EmptyResponseError{Server: server, Domain: domain}
	}
	return text, nil
}

// transportError 区分超时和其他传输故障
func (c *Client) transportError(domain, server string, err error) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &TimeoutError{Server: server, Domain: domain, Timeout: c.timeout}
	}
	return &ConnectionError{Server: server, Domain: domain, Err: err}
}

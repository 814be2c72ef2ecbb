/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-12 21:10:00
 * @Description: 传输层错误类型，均携带服务器和域名上下文
 */
package whoisclient

import (
	"fmt"
	"time"
)

// ConnectionError 连接建立或读写阶段的传输故障（拒绝、重置、解析失败）
type ConnectionError struct {
	Server string
	Domain string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("连接WHOIS服务器失败 server=%s domain=%s: %v", e.Server, e.Domain, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TimeoutError 超时前对端没有关闭连接；客户端自己负责强制关闭套接字
type TimeoutError struct {
	Server  string
	Domain  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("WHOIS查询超时 (>%v) server=%s domain=%s", e.Timeout, e.Server, e.Domain)
}

// EmptyResponseError 对端关闭时累计的响应为空或只有空白
type EmptyResponseError struct {
	Server string
	Domain string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("WHOIS服务器返回空响应 server=%s domain=%s", e.Server, e.Domain)
}

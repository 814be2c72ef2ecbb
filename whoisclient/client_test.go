package whoisclient

import (
	"errors"
	"net"
	"testing"
	"time"
)

// fakeWhoisServer 在环回地址上模拟一台WHOIS服务器
// handler负责一条连接的完整生命周期，返回值是带端口的服务器地址
func fakeWhoisServer(t *testing.T, handler func(net.Conn)) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("监听失败: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handler(conn)
		}
	}()

	return ln.Addr().String()
}

func TestQueryReadsUntilClose(t *testing.T) {
	const payload = "Domain Name: example.test\r\nRegistrar: Example Ltd\r\n"

	server := fakeWhoisServer(t, func(conn net.Conn) {
		defer conn.Close()
		buf := make([]byte, 128)
		n, _ := conn.Read(buf)
		if got := string(buf[:n]); got != "example.test\r\n" {
			t.Errorf("请求应为域名加CRLF, got %q", got)
		}
		// 分两次写，验证客户端一直读到对端关闭
		conn.Write([]byte(payload[:10]))
		time.Sleep(20 * time.Millisecond)
		conn.Write([]byte(payload[10:]))
	})

	c := NewClient(2 * time.Second)
	text, err := c.Query("example.test", server)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if text != payload {
		t.Errorf("响应 = %q, want %q", text, payload)
	}
}

func TestQueryEmptyResponse(t *testing.T) {
	server := fakeWhoisServer(t, func(conn net.Conn) {
		// 只回空白就关闭
		conn.Write([]byte("  \r\n"))
		conn.Close()
	})

	c := NewClient(2 * time.Second)
	_, err := c.Query("example.test", server)

	var emptyErr *EmptyResponseError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("期望EmptyResponseError, got %v", err)
	}
	if emptyErr.Domain != "example.test" {
		t.Errorf("错误应携带域名上下文, got %q", emptyErr.Domain)
	}
}

func TestQueryTimeoutForcesClose(t *testing.T) {
	if testing.Short() {
		t.Skip("短模式跳过超时测试")
	}

	server := fakeWhoisServer(t, func(conn net.Conn) {
		// 写一半后既不继续也不关闭，模拟挂死的注册局
		conn.Write([]byte("Domain Name: example.test\r\n"))
		time.Sleep(5 * time.Second)
		conn.Close()
	})

	c := NewClient(300 * time.Millisecond)
	start := time.Now()
	_, err := c.Query("example.test", server)
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("期望TimeoutError, got %v", err)
	}
	if timeoutErr.Server != server {
		t.Errorf("错误应携带服务器上下文, got %q", timeoutErr.Server)
	}
	// 拨号和读写共享一个绝对期限，整次查询要在上限附近返回，
	// 不允许拨号和读取各吃一份超时
	if elapsed > 2*c.Timeout() {
		t.Errorf("超时返回耗时 %v, 超过配置上限 %v 的两倍", elapsed, c.Timeout())
	}
}

func TestQueryConnectionRefused(t *testing.T) {
	// 先拿一个端口再立刻释放，保证没人监听
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("监听失败: %v", err)
	}
	server := ln.Addr().String()
	ln.Close()

	c := NewClient(2 * time.Second)
	_, err = c.Query("example.test", server)

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("期望ConnectionError, got %v", err)
	}
	if connErr.Unwrap() == nil {
		t.Error("ConnectionError应包裹底层原因")
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	if got := NewClient(0).Timeout(); got != DefaultTimeout {
		t.Errorf("默认超时 = %v, want %v", got, DefaultTimeout)
	}
	if got := NewClient(-time.Second).Timeout(); got != DefaultTimeout {
		t.Errorf("负超时应回落到默认值, got %v", got)
	}
}

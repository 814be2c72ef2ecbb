package providers

import (
	"errors"
	"net"
	"testing"
	"time"

	"ccwhoseek/directory"
	"ccwhoseek/types"
)

func TestQueryRejectsInvalidDomain(t *testing.T) {
	p := NewPortWhoisProvider(directory.New(nil), time.Second)

	_, err := p.Query("not a domain")
	if err == nil {
		t.Fatal("非法域名应直接报错")
	}
	if !errors.Is(err, types.ErrInvalidDomain) {
		t.Errorf("错误应可识别为ErrInvalidDomain, got %v", err)
	}
}

func TestQueryUnknownTLD(t *testing.T) {
	p := NewPortWhoisProvider(directory.New(map[string]string{"ru": "whois.tcinet.ru"}), time.Second)

	_, err := p.Query("example.zz")
	if err == nil {
		t.Fatal("目录里没有的TLD应报错")
	}
	if !errors.Is(err, types.ErrNoServerConfigured) {
		t.Errorf("错误应可识别为ErrNoServerConfigured, got %v", err)
	}
}

func TestQueryParsesUpstreamResponse(t *testing.T) {
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
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 128)
				c.Read(buf)
				c.Write([]byte("domain:  EXAMPLE.RU\nnserver: ns1.example.ru.\ncreated: 2005/05/30\n"))
			}(conn)
		}
	}()

	// 目录值允许带端口，方便指到测试监听器
	dir := directory.New(map[string]string{"ru": ln.Addr().String()})
	p := NewPortWhoisProvider(dir, 2*time.Second)

	result, err := p.Query("example.ru")
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if result.SourceProvider != p.Name() {
		t.Errorf("SourceProvider = %q", result.SourceProvider)
	}
	if result.Record.DomainName == nil || *result.Record.DomainName != "EXAMPLE.RU" {
		t.Errorf("DomainName = %v", result.Record.DomainName)
	}
	if len(result.Record.NameServers) != 1 || result.Record.NameServers[0] != "ns1.example.ru" {
		t.Errorf("NameServers = %v", result.Record.NameServers)
	}
	if result.Record.CreationDate == nil || *result.Record.CreationDate != "2005-05-30T00:00:00Z" {
		t.Errorf("CreationDate = %v", result.Record.CreationDate)
	}
}

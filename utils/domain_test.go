package utils

import "testing"

func TestIsValidDomain(t *testing.T) {
	valid := []string{
		"example.com",
		"sub.example.co.uk",
		"xn--fiqs8s.cn",
		"https://example.com/path",
		"example.com:443",
	}
	for _, d := range valid {
		if !IsValidDomain(d) {
			t.Errorf("IsValidDomain(%q) = false, 期望 true", d)
		}
	}

	invalid := []string{
		"",
		"example",
		"-bad.com",
		"exa mple.com",
		"example..com",
	}
	for _, d := range invalid {
		if IsValidDomain(d) {
			t.Errorf("IsValidDomain(%q) = true, 期望 false", d)
		}
	}
}

func TestSanitizeDomain(t *testing.T) {
	cases := map[string]string{
		"HTTPS://Example.COM/path?q=1": "example.com",
		"example.com:8080":             "example.com",
		"Example.Org":                  "example.org",
	}
	for in, want := range cases {
		if got := SanitizeDomain(in); got != want {
			t.Errorf("SanitizeDomain(%q) = %q, 期望 %q", in, got, want)
		}
	}
}

func TestBuildCacheKey(t *testing.T) {
	got := BuildCacheKey("whois", "Example.COM")
	if got != "whois:example.com" {
		t.Errorf("BuildCacheKey = %q", got)
	}
	if BuildCacheKey() != "" {
		t.Error("空参数应返回空串")
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdef", 4); got != "abcd..." {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("abc", 4); got != "abc" {
		t.Errorf("短字符串不应截断, got %q", got)
	}
}

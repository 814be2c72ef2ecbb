/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-14 23:47:06
 * @Description: Web安全头中间件
 */
package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityConfig 安全中间件配置
type SecurityConfig struct {
	EnableCSP             bool     // 是否启用内容安全策略
	EnableHSTS            bool     // 是否启用HSTS
	CSPSources            []string // CSP允许的源
	FrameOptions          string   // X-Frame-Options 设置
	XSSProtection         string   // X-XSS-Protection 设置
	ContentTypeOptions    string   // X-Content-Type-Options 设置
	ReferrerPolicy        string   // Referrer-Policy 设置
	HSTSMaxAge            int      // HSTS的最大有效期（秒）
	HSTSIncludeSubDomains bool     // HSTS是否包括子域名
}

// DefaultSecurityConfig 返回默认的安全配置
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCSP:             true,
		EnableHSTS:            true,
		CSPSources:            []string{"'self'"},
		FrameOptions:          "DENY",
		XSSProtection:         "1; mode=block",
		ContentTypeOptions:    "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		HSTSMaxAge:            31536000, // 1年
		HSTSIncludeSubDomains: true,
	}
}

// Security 标准安全中间件
func Security() gin.HandlerFunc {
	return SecurityWithConfig(DefaultSecurityConfig())
}

// SecurityWithConfig 带配置的安全中间件
func SecurityWithConfig(config SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME类型嗅探
		c.Header("X-Content-Type-Options", config.ContentTypeOptions)

		// 防止点击劫持
		c.Header("X-Frame-Options", config.FrameOptions)

		c.Header("X-XSS-Protection", config.XSSProtection)
		c.Header("Referrer-Policy", config.ReferrerPolicy)

		if config.EnableCSP {
			cspSources := config.CSPSources
			if envCSP := os.Getenv("CSP_SOURCES"); envCSP != "" {
				cspSources = strings.Split(envCSP, ",")
			}
			c.Header("Content-Security-Policy", "default-src "+strings.Join(cspSources, " "))
		}

		// 仅在HTTPS请求上设置HSTS
		if config.EnableHSTS && c.Request.TLS != nil {
			hsts := fmt.Sprintf("max-age=%d", config.HSTSMaxAge)
			if config.HSTSIncludeSubDomains {
				hsts += "; includeSubDomains"
			}
			c.Header("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

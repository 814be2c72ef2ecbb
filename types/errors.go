/*
 * @Author: AsisYu 2773943729@qq.com
 * @Date: 2025-07-13 02:50:00
 * @Description: 提供商契约里的哨兵错误
 */
package types

import "errors"

// 数据层面的永久性限制，换提供商重试也无济于事
// 调用方用errors.Is识别，与传输故障区别对待
var (
	// ErrInvalidDomain 域名格式不合法
	ErrInvalidDomain = errors.New("无效的域名格式")
	// ErrNoServerConfigured 该TLD没有配置WHOIS服务器
	ErrNoServerConfigured = errors.New("未配置该TLD的WHOIS服务器")
)

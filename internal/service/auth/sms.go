/*
 * 服务层:短信验证码发送
 * @author: sun977
 * @date: 2025.10.09
 * @description: 验证码发送器实现
 * @func: LogCodeSender 将验证码写入业务日志(开发环境), NoopCodeSender 静默丢弃
 */
package auth

import (
	"context"

	"staffhub/internal/pkg/logger"
)

// LogCodeSender 日志验证码发送器
// 开发和测试环境使用:验证码直接写入业务日志,不经过真实短信通道
type LogCodeSender struct {
	signName string // 短信签名
}

// NewLogCodeSender 创建日志验证码发送器
func NewLogCodeSender(signName string) *LogCodeSender {
	return &LogCodeSender{signName: signName}
}

// SendVerifyCode 记录验证码到业务日志
func (s *LogCodeSender) SendVerifyCode(ctx context.Context, phone, code string) error {
	logger.LogBusinessOperation("send_verify_code", 0, "", "", "", "success", "验证码已生成", map[string]interface{}{
		"phone":     phone,
		"code":      code,
		"sign_name": s.signName,
		"timestamp": logger.NowFormatted(),
	})
	return nil
}

// NoopCodeSender 空验证码发送器
// 短信功能关闭时使用
type NoopCodeSender struct{}

// SendVerifyCode 丢弃验证码
func (s *NoopCodeSender) SendVerifyCode(ctx context.Context, phone, code string) error {
	return nil
}

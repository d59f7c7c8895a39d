package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single e-mail
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer delivers mail through an SMTP relay with gomail
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   *zap.Logger
}

// NewSMTPMailer returns nil when email delivery is disabled
func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	if !cfg.Enabled {
		return nil
	}

	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := NewMessage(m.from, m.fromName, to, subject, htmlBody)
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}

// NewMessage builds the gomail message used by SMTPMailer
func NewMessage(from, fromName, to, subject, htmlBody string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(from, fromName))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return msg
}

// NotificationHTML renders a notification as a minimal HTML mail body
func NotificationHTML(receiverName, title, content string) string {
	greeting := "Xin chào"
	if receiverName != "" {
		greeting = fmt.Sprintf("Xin chào %s", html.EscapeString(receiverName))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="vi">
<head><meta charset="UTF-8" /><title>%s</title></head>
<body style="margin: 0; padding: 24px; font-family: Arial, sans-serif; background-color: #f7f9fc;">
	<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; padding: 32px;">
		<h2 style="margin-top: 0; color: #2d6cdf;">%s</h2>
		<p style="color: #333333; font-size: 16px;">%s,</p>
		<p style="color: #333333; font-size: 16px; line-height: 1.6;">%s</p>
	</div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), greeting, html.EscapeString(content))
}

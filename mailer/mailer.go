// Package mailer sends the out-of-band notifications owned by the auth
// flow. It is injected as an interface so tests can capture sends.
package mailer

import (
	"fmt"
	"go-account-api/config"
	"go-account-api/logger"
	"net/smtp"
)

// IMailer is the notification contract consumed by the auth service.
type IMailer interface {
	SendPasswordReset(toEmail, toName, resetURL string) error
}

// SMTPMailer delivers mail through the configured SMTP relay.
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

func (m *SMTPMailer) SendPasswordReset(toEmail, toName, resetURL string) error {
	cfg := config.AppConfig.Mail

	body := fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: Password reset\r\n\r\n"+
		"Hello %s,\r\n\r\nA password reset was requested for your account. "+
		"Open the link below to choose a new password:\r\n\r\n%s\r\n\r\n"+
		"If you did not request this, you can ignore this message.\r\n",
		toEmail, cfg.From, toName, resetURL)

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)

	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, []string{toEmail}, []byte(body)); err != nil {
		logger.Log.WithError(err).WithField("to", toEmail).Error("Failed to send password reset mail")
		return fmt.Errorf("failed to send password reset mail: %w", err)
	}

	logger.Log.WithField("to", toEmail).Info("Password reset mail sent")
	return nil
}

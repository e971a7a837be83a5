package services

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/rohits-web03/cardealer/internal/config"
)

const verificationBody = `
<div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Arial, sans-serif;">
  <h2 style="color: #333; text-align: center;">Welcome to CarDealer!</h2>
  <p>Hi %s,</p>
  <p>Thank you for signing up! Please verify your email address by clicking the link below:</p>
  <p style="word-break: break-all;"><a href="%s">%s</a></p>
  <p>This link will expire in 24 hours.</p>
  <p>Best regards,<br>The CarDealer Team</p>
</div>`

const resetBody = `
<div style="max-width: 600px; margin: 0 auto; padding: 20px; font-family: Arial, sans-serif;">
  <h2 style="color: #333; text-align: center;">Password Reset Request</h2>
  <p>Hi %s,</p>
  <p>You requested to reset your password. Click the link below to reset it:</p>
  <p style="word-break: break-all;"><a href="%s">%s</a></p>
  <p>This link will expire in 10 minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <p>Best regards,<br>The CarDealer Team</p>
</div>`

// Mailer sends account emails over SMTP. Callers treat delivery as
// fire-and-forget: a send failure is logged and never blocks the primary
// operation.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
}

func NewMailer(cfg config.SMTPConfig, baseURL string) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:    cfg.From,
		baseURL: baseURL,
	}
}

func (m *Mailer) SendVerificationEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s", m.baseURL, token)
	return m.send(to, "Verify your email address - CarDealer",
		fmt.Sprintf(verificationBody, name, link, link))
}

func (m *Mailer) SendPasswordResetEmail(to, name, token string) error {
	link := fmt.Sprintf("%s/auth/reset-password?token=%s", m.baseURL, token)
	return m.send(to, "Reset your password - CarDealer",
		fmt.Sprintf(resetBody, name, link, link))
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

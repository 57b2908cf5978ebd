package email

import (
	"fmt"
	"net/smtp"

	"github.com/BereketMelese/Bloom/internal/config"
)

// SendEmail sends a plain text email using SMTP.
func SendEmail(cfg *config.Config, to, subject, body string) error {
	auth := smtp.PlainAuth("", cfg.SMTPSender, cfg.SMTPPassword, cfg.SMTPHost)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := cfg.SMTPHost + ":" + cfg.SMTPPort

	err := smtp.SendMail(address, auth, cfg.SMTPSender, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendWelcome greets a freshly registered user. When no SMTP host is
// configured the email is skipped.
func SendWelcome(cfg *config.Config, to, username string) error {
	if cfg.SMTPHost == "" {
		return nil
	}

	subject := "Welcome to Bloom!"
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Bloom! Share your goals, track your streaks and grow together.\n\nThe Bloom Team", username)
	return SendEmail(cfg, to, subject, body)
}

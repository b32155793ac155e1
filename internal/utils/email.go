package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"stayhub_backend/internal/config"
)

// EmailSender отправляет служебные письма (коды подтверждения регистрации,
// временные коды гостей) через SMTP.
type EmailSender struct {
	cfg *config.Config
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (e *EmailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", e.cfg.Email.FromEmail, e.cfg.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		e.cfg.Email.SMTPHost,
		e.cfg.Email.SMTPPort,
		e.cfg.Email.SMTPUsername,
		e.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

// SendVerificationCode - письмо с кодом подтверждения e-mail
func (e *EmailSender) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf(
		"<p>Ваш код подтверждения: <b>%s</b></p><p>Введите его в приложении, чтобы завершить регистрацию.</p>",
		code,
	)
	return e.Send(to, "Подтверждение e-mail", body)
}

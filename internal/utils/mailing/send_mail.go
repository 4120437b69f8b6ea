package mailing

import (
	"errors"
	"strconv"

	"calorie-tracker/internal/utils"

	"gopkg.in/gomail.v2"
)

var ErrMailDisabled = errors.New("smtp is not configured")

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

type Mailer interface {
	Send(toEmail, subject, body string) error
}

type smtpMailer struct {
	config MailConfig
}

func NewMailer(config MailConfig) Mailer {
	return &smtpMailer{config: config}
}

func (m *smtpMailer) Send(toEmail, subject, body string) error {
	if m.config.SMTPHost == "" {
		return ErrMailDisabled
	}

	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

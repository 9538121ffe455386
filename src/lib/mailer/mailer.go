package mailer

import (
	"context"
	"fmt"
	"salonbook/src/config"
)

type Message struct {
	From     string
	FromName string
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	Html     bool
}

type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

const (
	DRIVER_LOG  = "log"
	DRIVER_SMTP = "smtp"
	DRIVER_SES  = "ses"
)

// New picks the transport named by MAIL_DRIVER.
func New(ctx context.Context, driver string) (Mailer, error) {
	switch driver {
	case DRIVER_SMTP:
		return NewSMTPMailer(SMTPOptions{
			Host:     config.SMTP_HOST,
			Port:     config.SMTP_PORT,
			Username: config.SMTP_USERNAME,
			Password: config.SMTP_PASSWORD,
		}), nil
	case DRIVER_SES:
		return NewSESMailer(ctx)
	case DRIVER_LOG, "":
		return &LogMailer{}, nil
	}
	return nil, fmt.Errorf("unknown mail driver %q", driver)
}

func withDefaults(msg *Message) *Message {
	out := *msg
	if out.From == "" {
		out.From = config.MAIL_FROM
	}
	if out.FromName == "" {
		out.FromName = config.MAIL_FROM_NAME
	}
	return &out
}

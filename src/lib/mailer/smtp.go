package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SMTPMailer struct {
	opts SMTPOptions
}

func NewSMTPMailer(opts SMTPOptions) *SMTPMailer {
	if opts.Port == 0 {
		opts.Port = 587
	}
	return &SMTPMailer{opts: opts}
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(m.opts.Port)}
	if m.opts.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.opts.Username),
			mail.WithPassword(m.opts.Password),
		)
	}
	c, err := mail.NewClient(m.opts.Host, opts...)
	if err != nil {
		zap.S().Errorf("Could not initialize smtp client: %s", err.Error())
		return nil, err
	}
	return c, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	out, err := buildMsg(withDefaults(msg))
	if err != nil {
		return err
	}
	c, err := m.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, out)
}

func buildMsg(in *Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(in.FromName, in.From); err != nil {
		return nil, err
	}
	if err := msg.To(in.To...); err != nil {
		return nil, err
	}
	if in.ReplyTo != "" {
		if err := msg.ReplyTo(in.ReplyTo); err != nil {
			zap.S().Warnf("Failed to set Reply-To address: %s", err.Error())
		}
	}
	msg.Subject(in.Subject)
	if in.Html {
		msg.SetBodyString(mail.TypeTextHTML, in.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, in.Body)
	}
	return msg, nil
}

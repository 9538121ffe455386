package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer only records outgoing mail. Used when MAIL_DRIVER=log.
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, msg *Message) error {
	msg = withDefaults(msg)
	zap.S().Infow("mail", "from", msg.From, "to", msg.To, "subject", msg.Subject, "bytes", len(msg.Body))
	return nil
}

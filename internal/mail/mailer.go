package mail

import (
	"context"

	"go.uber.org/zap"
)

// Message is a rendered outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers a rendered message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DisabledMailer drops messages when SMTP is not configured.
type DisabledMailer struct {
	Logger *zap.Logger
}

// Send logs the recipient and subject only; bodies can contain reset links.
func (m DisabledMailer) Send(_ context.Context, msg Message) error {
	if m.Logger != nil {
		m.Logger.Warn("smtp not configured; email dropped",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
	return nil
}

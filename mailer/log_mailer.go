package mailer

import (
	"context"
	"log/slog"
)

// LogMailer records messages in the log. Used in development and when no
// SMTP server is configured.
type LogMailer struct {
	from   string
	logger *slog.Logger
}

func NewLogMailer(from string, logger *slog.Logger) *LogMailer {
	return &LogMailer{from: from, logger: logger.With("component", "mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	msg = withDefaultFrom(msg, m.from)
	m.logger.InfoContext(ctx, "mail delivered to log",
		"to", msg.To,
		"from", msg.From,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

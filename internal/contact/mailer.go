package contact

import (
	"context"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	MailerNoop = "noop"
	MailerLog  = "log"
)

// NoopMailer discards every message.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, interfaces.MailMessage) error { return nil }

// LogMailer writes notifications to the logger instead of delivering them.
type LogMailer struct {
	Logger interfaces.Logger
}

func (m LogMailer) Send(ctx context.Context, msg interfaces.MailMessage) error {
	logger := m.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	logger.WithContext(ctx).Info("contact.mail",
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
		"bytes", len(msg.Text),
	)
	return nil
}

// NewMailer returns the adapter registered under name.
func NewMailer(name string, logger interfaces.Logger) (interfaces.Mailer, error) {
	switch name {
	case "", MailerNoop:
		return NoopMailer{}, nil
	case MailerLog:
		return LogMailer{Logger: logger}, nil
	default:
		return nil, ErrUnknownMailer
	}
}

package interfaces

import "context"

// MailMessage is the provider-neutral payload handed to a Mailer. Template
// selection and delivery live with the transactional email provider.
type MailMessage struct {
	To       []string
	ReplyTo  string
	Subject  string
	Text     string
	Metadata map[string]string
}

// Mailer delivers contact notifications through an external email API.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

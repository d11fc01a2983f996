package email

import "context"

// Message is one outgoing email with matching HTML and plain-text bodies.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// NoOpProvider discards every message. It is used when SMTP is not
// configured.
type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, msg Message) error {
	return nil
}

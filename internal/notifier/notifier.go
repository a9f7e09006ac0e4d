// Package notifier delivers rendered emails through the configured provider.
package notifier

import (
	"context"
	"fmt"
	"log"

	"reddit-ideas/internal/config"
	"reddit-ideas/internal/notifier/providers"
)

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Sender defines the interface for email sending
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody, plainBody string) error
}

// Notifier sends messages through a Sender
type Notifier struct {
	sender Sender
}

// New creates a new notifier with the given sender
func New(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// NewFromConfig creates a notifier based on configuration
func NewFromConfig(cfg config.EmailConfig) (*Notifier, error) {
	var sender Sender

	switch cfg.Provider {
	case config.EmailResend:
		sender = providers.NewResendSender(cfg.ResendAPIKey, cfg.From)
	case config.EmailSMTP:
		sender = providers.NewSMTPSender(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPass,
			cfg.From,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}

	return New(sender), nil
}

// Send delivers msg to a single address
func (n *Notifier) Send(ctx context.Context, to string, msg Message) error {
	if err := n.sender.Send(ctx, to, msg.Subject, msg.HTML, msg.Text); err != nil {
		return err
	}
	log.Printf("📧 Sent %q to %s", msg.Subject, to)
	return nil
}

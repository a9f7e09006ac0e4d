// Package providers holds the concrete email transports.
package providers

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends emails through the Resend API
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a new Resend sender
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send sends an email via Resend
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody, plainBody string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    plainBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

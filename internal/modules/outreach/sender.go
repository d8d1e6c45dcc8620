package outreach

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Email struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

// EmailSender delivers one email and returns the provider message id.
type EmailSender interface {
	Send(ctx context.Context, e Email) (string, error)
}

type SendgridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendgridSender(apiKey, fromEmail string) *SendgridSender {
	return &SendgridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Formatech", fromEmail),
	}
}

func (s *SendgridSender) Send(ctx context.Context, e Email) (string, error) {
	m := mail.NewSingleEmail(s.from, e.Subject, mail.NewEmail(e.ToName, e.To), e.Body, htmlBody(e.Body))

	tracking := mail.NewTrackingSettings()
	tracking.SetClickTracking(mail.NewClickTrackingSetting().SetEnable(true))
	tracking.SetOpenTracking(mail.NewOpenTrackingSetting().SetEnable(true))
	m.SetTrackingSettings(tracking)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}

func htmlBody(text string) string {
	return strings.ReplaceAll(text, "\n", "<br>")
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// EmailSender delivers already-formatted text through a Mailgun-style
// HTTP messages API.
type EmailSender struct {
	client *resty.Client
	apiKey string
	from   string
}

// NewEmailSender builds a sender. baseURL points at the provider's domain
// endpoint (e.g. https://api.mailgun.net/v3/<domain>).
func NewEmailSender(baseURL, apiKey, from string) (*EmailSender, error) {
	if baseURL == "" || apiKey == "" || from == "" {
		return nil, errors.New("mailer is not configured")
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(15 * time.Second)

	return &EmailSender{
		client: client,
		apiKey: apiKey,
		from:   from,
	}, nil
}

// Send posts one plain-text message.
func (es *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	resp, err := es.client.R().
		SetContext(ctx).
		SetBasicAuth("api", es.apiKey).
		SetFormData(map[string]string{
			"from":    es.from,
			"to":      to,
			"subject": subject,
			"text":    body,
		}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("mailer API error %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

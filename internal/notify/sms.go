package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSSender delivers short-form text through a Twilio-style messages API.
type SMSSender struct {
	client     *resty.Client
	accountSID string
	authToken  string
	from       string
}

// NewSMSSender builds a sender. baseURL defaults to the Twilio API root.
func NewSMSSender(baseURL, accountSID, authToken, from string) (*SMSSender, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, errors.New("sms sender is not configured")
	}
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(15 * time.Second)

	return &SMSSender{
		client:     client,
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
	}, nil
}

// Send posts one SMS.
func (ss *SMSSender) Send(ctx context.Context, to, body string) error {
	resp, err := ss.client.R().
		SetContext(ctx).
		SetBasicAuth(ss.accountSID, ss.authToken).
		SetFormData(map[string]string{
			"From": ss.from,
			"To":   to,
			"Body": body,
		}).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", ss.accountSID))
	if err != nil {
		return fmt.Errorf("send sms to %s: %w", to, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("sms API error %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

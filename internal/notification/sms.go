// internal/notification/sms.go

package notification

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSChannel delivers notifications over Twilio SMS
type SMSChannel struct {
	client *twilio.RestClient
	from   string
	users  AddressBook
}

// NewSMSChannel creates a Twilio-backed channel
func NewSMSChannel(accountSID, authToken, from string, users AddressBook) (*SMSChannel, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("incomplete Twilio configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &SMSChannel{client: client, from: from, users: users}, nil
}

// Name implements Channel
func (c *SMSChannel) Name() string { return "sms" }

// Deliver implements Channel. Users without a verified phone number
// cannot be reached on this channel.
func (c *SMSChannel) Deliver(ctx context.Context, userID int64, kind string, payload interface{}) error {
	text, err := renderSMS(kind, payload)
	if err != nil {
		return err
	}

	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if user.Phone == nil || *user.Phone == "" {
		return fmt.Errorf("user %d has no phone number", userID)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(*user.Phone)
	params.SetFrom(c.from)
	params.SetBody(text)

	if _, err := c.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	return nil
}

func renderSMS(kind string, payload interface{}) (string, error) {
	switch kind {
	case KindNewMatch:
		p, ok := payload.(MatchPayload)
		if !ok {
			return "", fmt.Errorf("unexpected payload for %s", kind)
		}
		name := p.MatchedUserName
		if name == "" {
			name = "someone"
		}
		return fmt.Sprintf("SparkMatch: you matched with %s!", name), nil
	default:
		return "", fmt.Errorf("no SMS template for notification kind %q", kind)
	}
}

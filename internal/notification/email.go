// internal/notification/email.go

package notification

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/sparkmatch/sparkmatch-backend/internal/auth"
)

// AddressBook resolves a user id to account contact details
type AddressBook interface {
	GetUserByID(ctx context.Context, id int64) (*auth.User, error)
}

// EmailChannel delivers notifications over SMTP
type EmailChannel struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	users    AddressBook
}

// NewEmailChannel creates an SMTP-backed channel
func NewEmailChannel(host string, port int, username, password, from, fromName string, users AddressBook) (*EmailChannel, error) {
	if host == "" || from == "" {
		return nil, fmt.Errorf("incomplete SMTP configuration")
	}
	if fromName == "" {
		fromName = "SparkMatch"
	}

	dialer := gomail.NewDialer(host, port, username, password)
	dialer.TLSConfig = &tls.Config{InsecureSkipVerify: false}

	return &EmailChannel{
		dialer:   dialer,
		from:     from,
		fromName: fromName,
		users:    users,
	}, nil
}

// Name implements Channel
func (c *EmailChannel) Name() string { return "email" }

// Deliver implements Channel
func (c *EmailChannel) Deliver(ctx context.Context, userID int64, kind string, payload interface{}) error {
	subject, body, err := renderEmail(kind, payload)
	if err != nil {
		return err
	}

	user, err := c.users.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(c.from, c.fromName))
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", user.Email, err)
	}

	return nil
}

func renderEmail(kind string, payload interface{}) (subject, body string, err error) {
	switch kind {
	case KindNewMatch:
		p, ok := payload.(MatchPayload)
		if !ok {
			return "", "", fmt.Errorf("unexpected payload for %s", kind)
		}
		name := p.MatchedUserName
		if name == "" {
			name = "someone"
		}
		subject = "You have a new match!"
		body = fmt.Sprintf("You matched with %s. Open the app to say hi.", name)
		return subject, body, nil
	default:
		return "", "", fmt.Errorf("no email template for notification kind %q", kind)
	}
}

package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

var ErrDisabled = errors.New("mailer: MAILERSEND_API_KEY or MAIL_FROM not set")

const sendTimeout = 10 * time.Second

// MailerSend delivers notifications through the MailerSend API.
type MailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

// NewMailerSend returns nil when the key or sender address is missing.
func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSend {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(fromEmail) == "" {
		return nil
	}
	return &MailerSend{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}
}

func (m *MailerSend) Send(ctx context.Context, msg Message) (string, error) {
	if m == nil {
		return "", ErrDisabled
	}
	if msg.To == "" {
		return "", errors.New("mailer: message has no recipient")
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	email := m.client.Email.NewMessage()
	email.SetFrom(m.from)
	email.SetRecipients([]mailersend.Recipient{{Name: msg.ToName, Email: msg.To}})
	email.SetSubject(msg.Subject)
	if msg.ReplyTo != "" {
		email.SetReplyTo(mailersend.ReplyTo{Name: msg.ReplyToName, Email: msg.ReplyTo})
	}
	if len(msg.Tags) > 0 {
		email.SetTags(msg.Tags)
	}
	if strings.TrimSpace(msg.Text) != "" {
		email.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		email.SetHTML(msg.HTML)
	}

	// Non-2xx answers come back as *mailersend.ErrorResponse.
	res, err := m.client.Email.Send(ctx, email)
	if err != nil {
		return "", fmt.Errorf("mailersend: %w", err)
	}
	defer res.Body.Close()
	return res.Header.Get("X-Message-Id"), nil
}

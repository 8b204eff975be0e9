// Package mail delivers timesheet and export emails.
package mail

import (
	"context"
	"fmt"
	"sync"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"timestrap/internal/config"
	"timestrap/internal/errors"
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a single outgoing email.
type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer sends messages. Implementations return a delivery error when the provider fails.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the mailer selected by cfg.Provider.
func New(cfg config.MailConfig, logger zerolog.Logger) (Mailer, error) {
	switch cfg.Provider {
	case config.MailProviderResend:
		return NewResendMailer(cfg.ResendAPIKey, cfg.From), nil
	case config.MailProviderLog, "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a mailer for the given API key and sender.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

// Send implements Mailer.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.NewValidationError("at least one recipient is required", nil)
	}

	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return errors.NewDeliveryError("resend", err)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Sent messages are kept so
// they can be inspected.
type LogMailer struct {
	logger zerolog.Logger

	mu   sync.Mutex
	sent []Message
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements Mailer.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return errors.NewDeliveryError("log", err)
	}
	if len(msg.To) == 0 {
		return errors.NewValidationError("at least one recipient is required", nil)
	}

	names := make([]string, len(msg.Attachments))
	for i, a := range msg.Attachments {
		names[i] = a.Filename
	}
	m.logger.Info().
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Strs("attachments", names).
		Msg("mail not sent, log provider")

	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of every message passed to Send.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

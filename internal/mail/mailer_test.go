package mail

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timestrap/internal/config"
	"timestrap/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name           string
		provider       string
		expectedType   interface{}
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:         "log provider",
			provider:     config.MailProviderLog,
			expectedType: &LogMailer{},
		},
		{
			name:         "empty provider falls back to log",
			provider:     "",
			expectedType: &LogMailer{},
		},
		{
			name:         "resend provider",
			provider:     config.MailProviderResend,
			expectedType: &ResendMailer{},
		},
		{
			name:     "unknown provider",
			provider: "carrier-pigeon",
			errorAssertion: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "carrier-pigeon")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MailConfig{Provider: tt.provider, ResendAPIKey: "re_test", From: "a@b.c"}
			mailer, err := New(cfg, zerolog.Nop())
			if tt.errorAssertion != nil {
				require.Error(t, err)
				tt.errorAssertion(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.expectedType, mailer)
		})
	}
}

func TestLogMailer_Send(t *testing.T) {
	mailer := NewLogMailer(zerolog.Nop())
	msg := Message{
		To:      []string{"manager@example.com"},
		Subject: "hello",
		Attachments: []Attachment{
			{Filename: "report.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		},
	}

	require.NoError(t, mailer.Send(context.Background(), msg))

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello", sent[0].Subject)
	assert.Equal(t, "report.pdf", sent[0].Attachments[0].Filename)
}

func TestLogMailer_SendErrors(t *testing.T) {
	mailer := NewLogMailer(zerolog.Nop())

	err := mailer.Send(context.Background(), Message{Subject: "nobody"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = mailer.Send(ctx, Message{To: []string{"x@example.com"}})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDelivery))
	assert.Empty(t, mailer.Sent())
}

func TestResendMailer_RequiresRecipient(t *testing.T) {
	mailer := NewResendMailer("re_test", "a@b.c")
	err := mailer.Send(context.Background(), Message{Subject: "nobody"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeValidation))
}
